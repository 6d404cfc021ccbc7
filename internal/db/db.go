// Package db provides PostgreSQL access for hiring outcomes.
package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
)

// querier is the subset of pgxpool.Pool used by DB.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds queries with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
	q    querier
	log  *zap.Logger
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string, log *zap.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, q: pool, log: logger.Component(log, "db")}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS candidate_outcomes (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	candidate_id TEXT NOT NULL,
	job_ref      TEXT NOT NULL DEFAULT '',
	hired        BOOLEAN NOT NULL,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_candidate_outcomes_candidate ON candidate_outcomes (candidate_id)`

// EnsureSchema creates the outcome table when it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
