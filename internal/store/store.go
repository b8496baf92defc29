// Package store wraps db.Querier and owns every write to the reports table.
//
// Dependency rule: store imports db only. It never imports api, report, ai,
// or email.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nyashahama/interview-report-backend/internal/db"
)

// Store holds a *sql.DB for schema management and a db.Querier for executing
// queries. Operation files (reports.go) attach methods to this type.
type Store struct {
	// pool is the raw connection pool. Nil in tests that only exercise q.
	pool *sql.DB

	q db.Querier
}

// New creates a Store from a live connection pool. The pool must already be
// open and verified (e.g. via db.PingContext) before calling New.
func New(pool *sql.DB, q db.Querier) *Store {
	return &Store{pool: pool, q: q}
}

// Migrate applies the embedded schema. Safe to call on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	return db.Migrate(ctx, s.pool)
}

// Prepare swaps the Querier for prepared statements. Preparing validates
// every query against the live schema, so a mismatch fails here instead of
// on the first request. Call it after Migrate.
func (s *Store) Prepare(ctx context.Context) error {
	q, err := db.Prepare(ctx, s.pool)
	if err != nil {
		return fmt.Errorf("store: prepare statements: %w", err)
	}
	s.q = q
	return nil
}
