package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderRepo serves the collaborator surface around orders: listing and status
// transitions. Order rows themselves are only ever created by the purchase
// transaction.
type OrderRepo struct{ DB *pgxpool.Pool }

func (r *OrderRepo) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT order_id, buyer_id, product_id, quantity, total_price, status, shipping_address, created_at
		FROM orders WHERE order_id = $1`, orderID,
	).Scan(&o.ID, &o.BuyerID, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.Status, &o.ShippingAddress, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	return r.list(ctx, `
		SELECT order_id, buyer_id, product_id, quantity, total_price, status, shipping_address, created_at
		FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
}

func (r *OrderRepo) ListByArtisan(ctx context.Context, artisanID int64) ([]Order, error) {
	return r.list(ctx, `
		SELECT o.order_id, o.buyer_id, o.product_id, o.quantity, o.total_price, o.status, o.shipping_address, o.created_at
		FROM orders o
		JOIN products p ON o.product_id = p.product_id
		WHERE p.artisan_id = $1 ORDER BY o.created_at DESC`, artisanID)
}

func (r *OrderRepo) list(ctx context.Context, q string, arg any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.ProductID, &o.Quantity, &o.TotalPrice,
			&o.Status, &o.ShippingAddress, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus enforces the pending → processing → shipped → delivered
// machine (cancel allowed until shipped). The current status is read under
// FOR UPDATE so two concurrent transitions cannot both pass the check.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID int64, to Status) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE order_id = $1 FOR UPDATE`, orderID).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE order_id = $1`, orderID, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
