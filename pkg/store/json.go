package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/models"
)

// JSONBackend persists each collection as <dir>/<table>.json. Files hold
// either a bare JSON array or an object with a "data" array.
type JSONBackend struct {
	dir    string
	logger *zap.Logger
}

// NewJSONBackend creates a backend over a directory of JSON files. The
// directory is created on first save if it does not exist.
func NewJSONBackend(dir string, logger *zap.Logger) *JSONBackend {
	return &JSONBackend{dir: dir, logger: logger}
}

type jsonEnvelope struct {
	Data []models.Record `json:"data"`
}

// LoadAll reads every *.json file in the directory. A missing directory
// yields an empty store rather than an error.
func (b *JSONBackend) LoadAll(_ context.Context) (map[string][]models.Record, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			b.logger.Warn("Data directory does not exist, starting empty", zap.String("dir", b.dir))
			return map[string][]models.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	out := make(map[string][]models.Record)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		table := strings.TrimSuffix(name, ".json")
		rows, err := b.loadFile(filepath.Join(b.dir, name))
		if err != nil {
			// One corrupt file must not take down the whole store.
			b.logger.Error("Failed to load collection file",
				zap.String("file", name),
				zap.Error(err),
			)
			out[table] = nil
			continue
		}
		out[table] = rows
	}
	return out, nil
}

func (b *JSONBackend) loadFile(path string) ([]models.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []models.Record
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows, nil
	}

	var env jsonEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("neither a record array nor a data envelope: %w", err)
	}
	return env.Data, nil
}

// SaveTable writes one collection back as a data envelope.
func (b *JSONBackend) SaveTable(_ context.Context, table string, rows []models.Record) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	raw, err := json.MarshalIndent(jsonEnvelope{Data: rows}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", table, err)
	}
	path := filepath.Join(b.dir, table+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
