package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/craftline/artisan-market/internal/kafka"
	"github.com/craftline/artisan-market/internal/market"
	"github.com/craftline/artisan-market/internal/redisx"
)

type AuditSink interface {
	Append(ctx context.Context, e market.AuditEntry) error
}

type EventBus interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type StockCache interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Reporter observes resolved reservation attempts outside the transactional
// boundary. It appends the audit row, publishes the purchase event, and
// refreshes the stock cache. None of these can fail the purchase itself: an
// audit or cache error is logged and swallowed.
type Reporter struct {
	Audit     AuditSink
	Completed EventBus
	Rejected  EventBus
	Cache     StockCache
	Service   string
	Log       *slog.Logger
}

func (r *Reporter) Report(ctx context.Context, req Request, res Result) {
	r.appendAudit(ctx, req, res)
	r.publishEvent(req, res)
	r.refreshCache(ctx, req, res)
}

func (r *Reporter) appendAudit(ctx context.Context, req Request, res Result) {
	detail := map[string]any{
		"quantity": req.Quantity,
		"outcome":  string(res.Outcome),
	}
	if res.Outcome == OutcomeCommitted {
		detail["order_id"] = res.OrderID
		detail["total_price"] = res.TotalPrice
		detail["remaining_stock"] = res.RemainingStock
	}
	if res.Outcome == OutcomeSoldOut {
		detail["available"] = res.Available
	}

	buyer := req.BuyerID
	entry := market.AuditEntry{
		UserID:     &buyer,
		ActionType: "purchase_attempt",
		EntityType: "product",
		EntityID:   req.ProductID,
		Details:    kafkax.MustMarshal(detail),
		IPAddress:  req.ClientIP,
	}
	if err := r.Audit.Append(ctx, entry); err != nil {
		r.Log.Error("audit append failed", "err", err, "product_id", req.ProductID, "outcome", res.Outcome)
	}
}

func (r *Reporter) publishEvent(req Request, res Result) {
	ev := market.Envelope{
		EventID:      uuid.NewString(),
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     r.Service,
		TraceID:      req.TraceID,
	}

	if res.Outcome == OutcomeCommitted {
		ev.EventType = market.EventPurchaseCompleted
		ev.CorrelationID = fmt.Sprintf("%d", res.OrderID)
		ev.Payload = kafkax.MustMarshal(market.PurchaseCompletedPayload{
			OrderID:        res.OrderID,
			TransactionID:  res.TransactionID,
			ProductID:      req.ProductID,
			BuyerID:        req.BuyerID,
			Quantity:       req.Quantity,
			TotalPrice:     res.TotalPrice,
			RemainingStock: res.RemainingStock,
		})
		r.Completed.Publish(market.PartitionKey(req.ProductID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(market.EventPurchaseCompleted)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
		return
	}

	ev.EventType = market.EventPurchaseRejected
	ev.CorrelationID = fmt.Sprintf("%d", req.ProductID)
	ev.Payload = kafkax.MustMarshal(market.PurchaseRejectedPayload{
		ProductID: req.ProductID,
		BuyerID:   req.BuyerID,
		Quantity:  req.Quantity,
		Reason:    rejectReason(res.Outcome),
		Available: res.Available,
	})
	r.Rejected.Publish(market.PartitionKey(req.ProductID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(market.EventPurchaseRejected)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (r *Reporter) refreshCache(ctx context.Context, req Request, res Result) {
	if r.Cache == nil || res.Outcome != OutcomeCommitted {
		return
	}
	stockKey := fmt.Sprintf(redisx.KeyStock, req.ProductID)
	if err := r.Cache.Set(ctx, stockKey, res.RemainingStock, redisx.TTLStockCache).Err(); err != nil {
		r.Log.Warn("stock cache refresh failed", "err", err, "product_id", req.ProductID)
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, res.OrderID)
	if err := r.Cache.Set(ctx, statusKey, `{"status":"pending"}`, redisx.TTLStatusCache).Err(); err != nil {
		r.Log.Warn("status cache refresh failed", "err", err, "order_id", res.OrderID)
	}
}

func rejectReason(o Outcome) string {
	switch o {
	case OutcomeSoldOut:
		return "SOLD_OUT"
	case OutcomeContended:
		return "CONTENDED"
	default:
		return "STORAGE_ERROR"
	}
}
