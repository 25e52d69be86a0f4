package purchase

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Outcome is the caller-visible result of one reservation attempt. Contended
// and sold_out are deliberately distinct: contended is transient and worth
// retrying, sold_out is terminal.
type Outcome string

const (
	OutcomeCommitted    Outcome = "committed"
	OutcomeSoldOut      Outcome = "sold_out"
	OutcomeContended    Outcome = "contended"
	OutcomeStorageError Outcome = "storage_error"
)

// Caller errors, rejected before any transaction begins.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

type Request struct {
	ProductID       int64  `json:"product_id"`
	BuyerID         int64  `json:"buyer_id"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shipping_address"`
	ClientIP        string `json:"-"`
	TraceID         string `json:"-"`
}

type Result struct {
	Outcome        Outcome
	OrderID        int64
	TransactionID  int64
	ProductName    string
	TotalPrice     decimal.Decimal
	CommissionFee  decimal.Decimal
	ArtisanPayout  decimal.Decimal
	RemainingStock int
	Available      int // stock seen under lock when sold out

	// Err carries the underlying storage failure for logs; it is never
	// returned to buyers.
	Err error
}

func storageFailure(err error) Result {
	return Result{Outcome: OutcomeStorageError, Err: err}
}
