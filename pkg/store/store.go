// Package store holds the in-memory tabular collections the resolver
// executes against. Collections are loaded fully at startup from a
// persistence backend and written back after every mutation. Reads run
// in parallel; writes are serialized per table.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/apperrors"
	"github.com/exportiq/insight-engine/pkg/models"
	isql "github.com/exportiq/insight-engine/pkg/sql"
)

// Backend persists collections. Implementations are interchangeable:
// a JSON file directory or a Postgres database.
type Backend interface {
	// LoadAll reads every collection into memory.
	LoadAll(ctx context.Context) (map[string][]models.Record, error)
	// SaveTable writes one collection back in full.
	SaveTable(ctx context.Context, table string, rows []models.Record) error
}

type collection struct {
	mu   sync.RWMutex
	rows []models.Record
}

// Store is the in-memory tabular store.
type Store struct {
	mu      sync.RWMutex // guards the tables map itself
	tables  map[string]*collection
	backend Backend
	logger  *zap.Logger
}

// Open loads all collections from the backend into memory.
func Open(ctx context.Context, backend Backend, logger *zap.Logger) (*Store, error) {
	data, err := backend.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}

	s := &Store{
		tables:  make(map[string]*collection, len(data)),
		backend: backend,
		logger:  logger,
	}
	for name, rows := range data {
		s.tables[name] = &collection{rows: rows}
		logger.Info("Loaded collection",
			zap.String("table", name),
			zap.Int("records", len(rows)),
		)
	}
	return s, nil
}

// Tables returns the known collection names, sorted.
func (s *Store) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) collection(table string) *collection {
	s.mu.RLock()
	c := s.tables[table]
	s.mu.RUnlock()
	return c
}

// ensureCollection returns the collection, creating an empty one for
// unknown tables so inserts into new tables work.
func (s *Store) ensureCollection(table string) *collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.tables[table]
	if !ok {
		c = &collection{}
		s.tables[table] = c
	}
	return c
}

// GetAll returns a snapshot of all records in a table. The returned
// slice is a copy; the records themselves are shared and must not be
// mutated by callers.
func (s *Store) GetAll(table string) []models.Record {
	c := s.collection(table)
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Record, len(c.rows))
	copy(out, c.rows)
	return out
}

// GetByID returns the record whose "id" field equals id.
func (s *Store) GetByID(table string, id any) (models.Record, error) {
	c := s.collection(table)
	if c == nil {
		return nil, apperrors.ErrUnknownTable
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, row := range c.rows {
		if idEqual(row["id"], id) {
			return row, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// Query returns the records matching all filters. Filter values are
// either plain values (equality) or operator maps:
// $eq, $ne, $gt, $gte, $lt, $lte, $in, $contains.
func (s *Store) Query(table string, filters map[string]any) []models.Record {
	c := s.collection(table)
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Record
	for _, row := range c.rows {
		if matchesFilters(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

// Insert appends a record, assigning a sequential integer id and a
// created_at timestamp when absent, and persists the table.
func (s *Store) Insert(ctx context.Context, table string, rec models.Record) (models.Record, error) {
	c := s.ensureCollection(table)
	c.mu.Lock()
	defer c.mu.Unlock()

	rec = rec.Clone()
	if _, ok := rec["id"]; !ok {
		maxID := 0
		for _, row := range c.rows {
			if n, ok := intID(row["id"]); ok && n > maxID {
				maxID = n
			}
		}
		rec["id"] = maxID + 1
	}
	if _, ok := rec["created_at"]; !ok {
		rec["created_at"] = time.Now().Format(time.RFC3339)
	}

	c.rows = append(c.rows, rec)
	if err := s.backend.SaveTable(ctx, table, c.rows); err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", table, err)
	}
	return rec, nil
}

// Update merges fields into the record with the given id and persists.
func (s *Store) Update(ctx context.Context, table string, id any, fields models.Record) (models.Record, error) {
	c := s.collection(table)
	if c == nil {
		return nil, apperrors.ErrUnknownTable
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, row := range c.rows {
		if !idEqual(row["id"], id) {
			continue
		}
		updated := row.Clone()
		for k, v := range fields {
			updated[k] = v
		}
		updated["updated_at"] = time.Now().Format(time.RFC3339)
		c.rows[i] = updated
		if err := s.backend.SaveTable(ctx, table, c.rows); err != nil {
			return nil, fmt.Errorf("failed to persist %s: %w", table, err)
		}
		return updated, nil
	}
	return nil, apperrors.ErrNotFound
}

// Delete removes the record with the given id and persists.
func (s *Store) Delete(ctx context.Context, table string, id any) error {
	c := s.collection(table)
	if c == nil {
		return apperrors.ErrUnknownTable
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, row := range c.rows {
		if !idEqual(row["id"], id) {
			continue
		}
		c.rows = append(c.rows[:i], c.rows[i+1:]...)
		if err := s.backend.SaveTable(ctx, table, c.rows); err != nil {
			return fmt.Errorf("failed to persist %s: %w", table, err)
		}
		return nil
	}
	return apperrors.ErrNotFound
}

// ExecuteQuery interprets a pseudo-SQL SELECT against the collections.
// Every failure mode degrades to an empty result set: parse errors,
// unknown tables, and filter values that trip the injection guard.
func (s *Store) ExecuteQuery(query string) []models.Record {
	stmt, err := isql.Parse(query)
	if err != nil {
		s.logger.Warn("Failed to parse query", zap.String("query", query), zap.Error(err))
		return nil
	}
	if res := isql.CheckStatement(stmt); res != nil {
		s.logger.Warn("Rejected filter value flagged as SQL injection",
			zap.String("column", res.Column),
			zap.String("fingerprint", res.Fingerprint),
		)
		return nil
	}
	if stmt.Where != nil && !stmt.Where.Supported {
		s.logger.Warn("Unsupported WHERE clause, returning unfiltered rows",
			zap.String("query", query),
			zap.String("operator", stmt.Where.Operator),
		)
	}
	return isql.Apply(stmt, s.GetAll(stmt.Table))
}

// Schema reports each table's column list, derived from its first record.
func (s *Store) Schema() map[string][]string {
	schema := make(map[string][]string)
	for _, table := range s.Tables() {
		rows := s.GetAll(table)
		if len(rows) == 0 {
			schema[table] = nil
			continue
		}
		cols := make([]string, 0, len(rows[0]))
		for k := range rows[0] {
			cols = append(cols, k)
		}
		sort.Strings(cols)
		schema[table] = cols
	}
	return schema
}

// Refresh reloads every collection from the backend, replacing the
// in-memory state.
func (s *Store) Refresh(ctx context.Context) error {
	data, err := s.backend.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload collections: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]*collection, len(data))
	for name, rows := range data {
		s.tables[name] = &collection{rows: rows}
	}
	return nil
}

func intID(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// idEqual compares ids loosely: JSON decoding turns integers into
// float64, so 3 and 3.0 must match.
func idEqual(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if na, aok := intID(a); aok {
		if nb, bok := intID(b); bok {
			return na == nb
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
