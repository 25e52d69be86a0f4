package redisx

import "time"

const (
	// Remaining stock cache: stock:{product_id} -> int. Display-only; the
	// products row stays the source of truth for the purchase path.
	KeyStock = "stock:%d"

	// Order status cache: order_status:{order_id} -> {"status":"..."}
	KeyOrderStatus = "order_status:%d"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStockCache  = 1 * time.Minute
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
