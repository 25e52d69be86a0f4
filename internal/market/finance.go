package market

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// FinanceRepo is the admin-facing read side of the ledger.
type FinanceRepo struct{ DB *pgxpool.Pool }

type FinanceSummary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalPayout     decimal.Decimal `json:"total_artisan_payout"`
}

func (r *FinanceRepo) ListTransactions(ctx context.Context) ([]LedgerEntry, FinanceSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT transaction_id, order_id, artisan_id, buyer_id, product_id,
		       amount, commission_fee, artisan_payout, payment_status, created_at
		FROM transactions ORDER BY created_at DESC`)
	if err != nil {
		return nil, FinanceSummary{}, err
	}
	defer rows.Close()

	var (
		out     []LedgerEntry
		summary FinanceSummary
	)
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.ArtisanID, &e.BuyerID, &e.ProductID,
			&e.Amount, &e.CommissionFee, &e.ArtisanPayout, &e.PaymentStatus, &e.CreatedAt); err != nil {
			return nil, FinanceSummary{}, err
		}
		summary.TotalRevenue = summary.TotalRevenue.Add(e.Amount)
		summary.TotalCommission = summary.TotalCommission.Add(e.CommissionFee)
		summary.TotalPayout = summary.TotalPayout.Add(e.ArtisanPayout)
		out = append(out, e)
	}
	return out, summary, rows.Err()
}
