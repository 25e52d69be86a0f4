package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the marketplace tables if they do not exist yet.
// The CHECK on products.stock_quantity is the storage-level backstop for the
// never-negative invariant; the purchase path must still reject insufficient
// stock before decrementing.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('artisan', 'buyer', 'admin')),
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone         TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id     BIGSERIAL PRIMARY KEY,
		artisan_id     BIGINT NOT NULL REFERENCES users(user_id),
		product_name   TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		price          NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		stock_quantity INTEGER NOT NULL CHECK (stock_quantity >= 0),
		category       TEXT NOT NULL DEFAULT '',
		image_url      TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id         BIGSERIAL PRIMARY KEY,
		buyer_id         BIGINT NOT NULL REFERENCES users(user_id),
		product_id       BIGINT NOT NULL REFERENCES products(product_id),
		quantity         INTEGER NOT NULL CHECK (quantity > 0),
		total_price      NUMERIC(10,2) NOT NULL,
		status           TEXT NOT NULL DEFAULT 'pending',
		shipping_address TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id BIGSERIAL PRIMARY KEY,
		order_id       BIGINT NOT NULL REFERENCES orders(order_id),
		artisan_id     BIGINT NOT NULL REFERENCES users(user_id),
		buyer_id       BIGINT NOT NULL REFERENCES users(user_id),
		product_id     BIGINT NOT NULL REFERENCES products(product_id),
		amount         NUMERIC(10,2) NOT NULL,
		commission_fee NUMERIC(10,2) NOT NULL,
		artisan_payout NUMERIC(10,2) NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'completed',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		log_id      BIGSERIAL PRIMARY KEY,
		user_id     BIGINT REFERENCES users(user_id),
		action_type TEXT NOT NULL,
		entity_type TEXT,
		entity_id   BIGINT,
		details     JSONB,
		ip_address  TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
