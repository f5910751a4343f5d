package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/models"
)

// PostgresBackend persists collections in a single table of JSONB
// documents. The full collection set is still held in memory by the
// Store; Postgres is only the durability layer, mirroring the JSON file
// backend.
type PostgresBackend struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresBackend wraps an existing connection pool.
func NewPostgresBackend(pool *pgxpool.Pool, logger *zap.Logger) *PostgresBackend {
	return &PostgresBackend{pool: pool, logger: logger}
}

// LoadAll reads every collection row, ordered by position within table.
func (b *PostgresBackend) LoadAll(ctx context.Context) (map[string][]models.Record, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT table_name, doc FROM collections ORDER BY table_name, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Record)
	for rows.Next() {
		var table string
		var raw []byte
		if err := rows.Scan(&table, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		var rec models.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record in %s: %w", table, err)
		}
		out[table] = append(out[table], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collections: %w", err)
	}
	return out, nil
}

// SaveTable replaces one collection's rows in a single transaction.
func (b *PostgresBackend) SaveTable(ctx context.Context, table string, recs []models.Record) error {
	tx, err := b.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			b.logger.Warn("Failed to roll back transaction", zap.Error(err))
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM collections WHERE table_name = $1`, table); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", table, err)
	}
	for i, rec := range recs {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record for %s: %w", table, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO collections (table_name, position, doc) VALUES ($1, $2, $3)`,
			table, i, raw,
		); err != nil {
			return fmt.Errorf("failed to insert record into %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return nil
}
