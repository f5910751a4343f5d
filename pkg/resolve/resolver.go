// Package resolve executes a classified intent against the tabular
// store: pseudo-SQL queries with overview and subtable short-circuits,
// a keyword calculator, and a term-overlap text search fallback.
package resolve

import (
	"fmt"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/config"
	"github.com/exportiq/insight-engine/pkg/models"
	"github.com/exportiq/insight-engine/pkg/store"
)

const (
	// defaultExtractLimit caps subtable extraction result sets.
	defaultExtractLimit = 50
	// defaultQueryLimit caps fallback general queries.
	defaultQueryLimit = 10
	// ragResultLimit caps text-search results.
	ragResultLimit = 10
)

// Resolver turns intents into result sets. All internal failures are
// caught at the dispatch boundary and reported as Success=false with an
// empty row set; nothing propagates to the caller as an error.
type Resolver struct {
	store   *store.Store
	catalog *config.Catalog
	logger  *zap.Logger
}

// New creates a resolver over a store and catalog.
func New(st *store.Store, catalog *config.Catalog, logger *zap.Logger) *Resolver {
	return &Resolver{store: st, catalog: catalog, logger: logger}
}

// Resolve dispatches by the intent's tool and never returns an error.
func (r *Resolver) Resolve(text string, intent models.Intent) (res models.Resolution) {
	res.Tool = intent.Tool

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Resolver panicked",
				zap.String("tool", string(intent.Tool)),
				zap.Any("panic", rec),
			)
			res = models.Resolution{
				Tool:    intent.Tool,
				Success: false,
				Error:   fmt.Sprintf("internal error: %v", rec),
			}
		}
	}()

	var (
		rows []models.Record
		desc string
		err  error
	)
	switch intent.Tool {
	case models.ToolCalculator:
		rows, desc, err = r.calculate(text)
	case models.ToolRAG:
		rows, desc, err = r.searchRecords(text)
	default:
		rows, desc, err = r.executeSQL(text, intent)
	}

	if err != nil {
		r.logger.Error("Tool execution failed",
			zap.String("tool", string(intent.Tool)),
			zap.Error(err),
		)
		return models.Resolution{
			Tool:    intent.Tool,
			Success: false,
			Error:   err.Error(),
		}
	}

	return models.Resolution{
		Rows:           rows,
		RowCount:       len(rows),
		DescribedQuery: desc,
		Tool:           intent.Tool,
		Success:        true,
	}
}

// countNoun renders "1 record" / "12 records".
func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}
