package purchase

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/craftline/artisan-market/internal/market"
)

// LedgerWriter inserts the order and its commission-split ledger row. It only
// ever runs inside the coordinator's open transaction; any error here aborts
// the whole reservation.
type LedgerWriter struct {
	CommissionRate decimal.Decimal // fraction retained by the platform, e.g. 0.05
}

func NewLedgerWriter(rate string) (*LedgerWriter, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("parse commission rate %q: %w", rate, err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("commission rate %s out of range [0,1]", d)
	}
	return &LedgerWriter{CommissionRate: d}, nil
}

type PurchaseRecord struct {
	OrderID       int64
	TransactionID int64
	Total         decimal.Decimal
	Commission    decimal.Decimal
	Payout        decimal.Decimal
}

// Split divides a gross amount into platform commission and artisan payout.
// Commission is rounded to cents; the payout takes the remainder so the two
// always sum to the gross amount.
func (w *LedgerWriter) Split(total decimal.Decimal) (commission, payout decimal.Decimal) {
	commission = total.Mul(w.CommissionRate).Round(2)
	payout = total.Sub(commission)
	return commission, payout
}

func (w *LedgerWriter) RecordPurchase(ctx context.Context, tx pgx.Tx, snap ProductSnapshot, req Request) (PurchaseRecord, error) {
	total := snap.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
	commission, payout := w.Split(total)

	rec := PurchaseRecord{Total: total, Commission: commission, Payout: payout}

	err := tx.QueryRow(ctx, `
		INSERT INTO orders (buyer_id, product_id, quantity, total_price, status, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING order_id`,
		req.BuyerID, snap.ID, req.Quantity, total, market.StatusPending, req.ShippingAddress,
	).Scan(&rec.OrderID)
	if err != nil {
		return PurchaseRecord{}, fmt.Errorf("insert order: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (order_id, artisan_id, buyer_id, product_id, amount, commission_fee, artisan_payout)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING transaction_id`,
		rec.OrderID, snap.ArtisanID, req.BuyerID, snap.ID, total, commission, payout,
	).Scan(&rec.TransactionID)
	if err != nil {
		return PurchaseRecord{}, fmt.Errorf("insert ledger entry: %w", err)
	}

	return rec, nil
}
