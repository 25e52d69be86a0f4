package market

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct{ DB *pgxpool.Pool }

// Append writes one audit row. Callers on the purchase path must treat a
// failure here as an observability gap, never as a purchase failure.
func (r *AuditRepo) Append(ctx context.Context, e AuditEntry) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO audit_logs (user_id, action_type, entity_type, entity_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.UserID, e.ActionType, nilIfEmpty(e.EntityType), nilIfZero(e.EntityID),
		e.Details, nilIfEmpty(e.IPAddress))
	return err
}

func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `
		SELECT log_id, user_id, action_type, COALESCE(entity_type, ''), COALESCE(entity_id, 0),
		       details, COALESCE(ip_address, ''), created_at
		FROM audit_logs ORDER BY log_id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActionType, &e.EntityType, &e.EntityID,
			&e.Details, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nilIfZero(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
