package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are additive only: CREATE TABLE IF NOT EXISTS plus guarded
// ADD COLUMN for columns that arrived after the first release.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id         BIGSERIAL PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		cost       BIGINT,
		note       TEXT,
		category   TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS category TEXT`,
	`CREATE TABLE IF NOT EXISTS product_variants (
		id         BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		color      TEXT,
		size       TEXT,
		quantity   BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		img        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id         BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL,
		variant_id BIGINT NOT NULL,
		type       TEXT NOT NULL,
		quantity   BIGINT NOT NULL,
		username   TEXT,
		time       TIMESTAMPTZ NOT NULL,
		note       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS movements_time_idx ON movements (time DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS attributes (
		id         BIGSERIAL PRIMARY KEY,
		type       TEXT NOT NULL,
		name       TEXT NOT NULL,
		color_code TEXT,
		status     SMALLINT NOT NULL DEFAULT 1,
		UNIQUE (type, name)
	)`,
	`ALTER TABLE attributes ADD COLUMN IF NOT EXISTS color_code TEXT`,
	`ALTER TABLE attributes ADD COLUMN IF NOT EXISTS status SMALLINT NOT NULL DEFAULT 1`,
}

// EnsureSchema creates missing tables and columns on startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("platform/db: ensure schema: %w", err)
		}
	}
	return nil
}
