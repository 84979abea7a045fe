package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at start-up; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       UUID PRIMARY KEY,
		email         VARCHAR(254) NOT NULL UNIQUE,
		username      VARCHAR(40)  NOT NULL,
		password_hash VARCHAR(72)  NOT NULL,
		stack         TEXT[]       NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at)`,
	// Hashes used to carry a separate salt column; bcrypt embeds it.
	`ALTER TABLE users DROP COLUMN IF EXISTS salt`,
	`ALTER TABLE users ALTER COLUMN password_hash TYPE VARCHAR(72)`,
}

// Migrate applies the schema inside one transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i, err)
		}
	}
	return tx.Commit(ctx)
}
