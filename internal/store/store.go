// Package store persists canonical records with idempotent upserts.
//
// Every Upsert call runs in one transaction: a storage error rolls the whole
// batch back and is returned. Records missing their natural key are skipped
// and not counted.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/db"
)

// Store writes records through a connection pool.
type Store struct {
	pool   *db.Pool
	logger *slog.Logger
}

func New(pool *db.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger.With("component", "store")}
}

// upsert describes how one record kind maps onto its table.
type upsert[T any] struct {
	table string
	sql   string
	keyed func(T) bool
	args  func(T) []any
}

func (u upsert[T]) run(ctx context.Context, s *Store, items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	count := 0
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for i, item := range items {
			if !u.keyed(item) {
				continue
			}
			if _, err := tx.Exec(ctx, u.sql, u.args(item)...); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert %s: %w", u.table, err)
	}

	if skipped := len(items) - count; skipped > 0 {
		s.logger.Debug("skipped records without key", "table", u.table, "count", skipped)
	}
	s.logger.Info("upserted", "table", u.table, "count", count)
	return count, nil
}

// Stats returns the row count of every table.
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(config.Tables))
	for _, table := range config.Tables {
		var n int64
		if err := s.pool.QueryRow(ctx, db.CountStatement(table)).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
