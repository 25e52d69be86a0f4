package purchase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/craftline/artisan-market/internal/market"
)

// Postgres "lock_not_available", raised by FOR UPDATE NOWAIT when another
// transaction already holds the row lock.
const pgLockNotAvailable = "55P03"

// ProductSnapshot is the product row as read under the lock. Price is taken
// from here, never re-read, so the total reflects the price at reservation
// time.
type ProductSnapshot struct {
	ID        int64
	ArtisanID int64
	Name      string
	Price     decimal.Decimal
	Stock     int
}

// Coordinator serializes concurrent purchase attempts per product through an
// exclusive, non-blocking row lock. Whoever acquires the lock first wins;
// losers get contended immediately instead of queueing.
type Coordinator struct {
	DB     *pgxpool.Pool
	Writer *LedgerWriter
	Log    *slog.Logger
}

// AttemptPurchase runs the reservation transaction:
// lock product row (NOWAIT) -> validate stock -> decrement -> write order and
// ledger entry -> commit. Every failure path rolls back, so a half-committed
// state (stock decrement without order, or vice versa) cannot persist.
//
// The returned error is non-nil only for caller errors (invalid quantity,
// unknown product); concurrency and storage conditions come back as outcomes.
func (c *Coordinator) AttemptPurchase(ctx context.Context, req Request) (Result, error) {
	if req.Quantity <= 0 {
		return Result{}, ErrInvalidQuantity
	}

	tx, err := c.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return storageFailure(err), nil
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var snap ProductSnapshot
	err = tx.QueryRow(ctx, `
		SELECT product_id, artisan_id, product_name, price, stock_quantity
		FROM products
		WHERE product_id = $1
		FOR UPDATE NOWAIT`, req.ProductID,
	).Scan(&snap.ID, &snap.ArtisanID, &snap.Name, &snap.Price, &snap.Stock)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return Result{}, market.ErrProductNotFound
	case isLockNotAvailable(err):
		c.Log.Info("lock contended", "product_id", req.ProductID, "buyer_id", req.BuyerID)
		return Result{Outcome: OutcomeContended}, nil
	case err != nil:
		return storageFailure(err), nil
	}

	// The stock check runs under the lock even when stock is already zero.
	if snap.Stock < req.Quantity {
		return Result{Outcome: OutcomeSoldOut, Available: snap.Stock, ProductName: snap.Name}, nil
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE product_id = $1`, req.ProductID, req.Quantity); err != nil {
		return storageFailure(err), nil
	}

	rec, err := c.Writer.RecordPurchase(ctx, tx, snap, req)
	if err != nil {
		return storageFailure(err), nil
	}

	if err := tx.Commit(ctx); err != nil {
		return storageFailure(err), nil
	}

	remaining := snap.Stock - req.Quantity
	c.Log.Info("purchase committed",
		"order_id", rec.OrderID, "product_id", req.ProductID, "buyer_id", req.BuyerID,
		"quantity", req.Quantity, "remaining_stock", remaining)

	return Result{
		Outcome:        OutcomeCommitted,
		OrderID:        rec.OrderID,
		TransactionID:  rec.TransactionID,
		ProductName:    snap.Name,
		TotalPrice:     rec.Total,
		CommissionFee:  rec.Commission,
		ArtisanPayout:  rec.Payout,
		RemainingStock: remaining,
	}, nil
}

func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable
}
