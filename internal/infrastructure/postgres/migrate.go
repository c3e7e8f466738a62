package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash BYTEA NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		wishlist      TEXT[] NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		slug           TEXT NOT NULL UNIQUE,
		image          TEXT NOT NULL DEFAULT '',
		images         TEXT[] NOT NULL DEFAULT '{}',
		brand          TEXT NOT NULL DEFAULT '',
		category       TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		price          DOUBLE PRECISION NOT NULL DEFAULT 0,
		original_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		count_in_stock INTEGER NOT NULL DEFAULT 0,
		sizes          TEXT[] NOT NULL DEFAULT '{}',
		colors         TEXT[] NOT NULL DEFAULT '{}',
		tags           TEXT[] NOT NULL DEFAULT '{}',
		rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
		num_reviews    INTEGER NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id),
		ship_address        TEXT NOT NULL DEFAULT '',
		ship_city           TEXT NOT NULL DEFAULT '',
		ship_postal_code    TEXT NOT NULL DEFAULT '',
		ship_country        TEXT NOT NULL DEFAULT '',
		items_price         DOUBLE PRECISION NOT NULL,
		tax_price           DOUBLE PRECISION NOT NULL,
		shipping_price      DOUBLE PRECISION NOT NULL,
		coupon_code         TEXT NOT NULL DEFAULT '',
		discount_amount     DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_price         DOUBLE PRECISION NOT NULL,
		provider_order_id   TEXT NOT NULL UNIQUE,
		provider_payment_id TEXT NOT NULL DEFAULT '',
		provider_signature  TEXT NOT NULL DEFAULT '',
		is_paid             BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at             TIMESTAMPTZ,
		status              TEXT NOT NULL DEFAULT 'Processing',
		is_delivered        BOOLEAN NOT NULL DEFAULT FALSE,
		delivered_at        TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id   TEXT NOT NULL REFERENCES orders(id),
		product_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		image      TEXT NOT NULL DEFAULT '',
		qty        INTEGER NOT NULL CHECK (qty >= 1),
		unit_price DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS coupons (
		id               TEXT PRIMARY KEY,
		code             TEXT NOT NULL UNIQUE,
		discount_percent INTEGER NOT NULL CHECK (discount_percent BETWEEN 1 AND 100),
		max_discount     DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_order_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		expires_at       TIMESTAMPTZ NOT NULL,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		usage_limit      INTEGER NOT NULL DEFAULT 0,
		used_count       INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id),
		plan                TEXT NOT NULL,
		amount              DOUBLE PRECISION NOT NULL,
		currency            TEXT NOT NULL DEFAULT 'INR',
		provider_order_id   TEXT NOT NULL UNIQUE,
		provider_payment_id TEXT NOT NULL DEFAULT '',
		provider_signature  TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'pending',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id)`,
}

// Migrate creates the schema when missing. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
