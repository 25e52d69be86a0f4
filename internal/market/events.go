package market

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPurchaseCompleted = "PurchaseCompleted"
	EventPurchaseRejected  = "PurchaseRejected"
)

type Envelope struct {
	EventID       string          `json:"event_id"` // uuid
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type PurchaseCompletedPayload struct {
	OrderID        int64           `json:"order_id"`
	TransactionID  int64           `json:"transaction_id"`
	ProductID      int64           `json:"product_id"`
	BuyerID        int64           `json:"buyer_id"`
	Quantity       int             `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	RemainingStock int             `json:"remaining_stock"`
}

type PurchaseRejectedPayload struct {
	ProductID int64  `json:"product_id"`
	BuyerID   int64  `json:"buyer_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"` // SOLD_OUT | CONTENDED | STORAGE_ERROR
	Available int    `json:"available,omitempty"`
}
