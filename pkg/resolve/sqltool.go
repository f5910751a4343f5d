package resolve

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/models"
)

// executeSQL resolves a data query in three stages: the overview
// summarizer, the subtable extractor, and finally a synthesized
// pseudo-SQL query against the best-matching table.
func (r *Resolver) executeSQL(text string, intent models.Intent) ([]models.Record, string, error) {
	tables := intent.DomainContext.Tables
	if len(tables) == 0 {
		tables = []string{"sales"}
	}

	limit := intent.Parameters.Limit
	order := intent.Parameters.Order
	if order == "" {
		order = "desc"
	}

	lower := strings.ToLower(text)

	if rows, desc, ok := r.overview(lower, tables); ok {
		return rows, desc, nil
	}

	if rows, desc, ok := r.extractSubtables(lower, order, limit); ok {
		return rows, desc, nil
	}

	primary := r.pickTable(lower, tables)
	query := r.buildQuery(lower, primary, order, limitOrDefault(limit, defaultQueryLimit))
	r.logger.Info("Generated query",
		zap.String("table", primary),
		zap.String("query", query),
	)

	rows := r.store.ExecuteQuery(query)
	if len(rows) == 0 {
		// Direct table read when the interpreter came back empty.
		rows = r.store.GetAll(primary)
		if max := limitOrDefault(limit, defaultQueryLimit); len(rows) > max {
			rows = rows[:max]
		}
	}
	return rows, query, nil
}

// pickTable chooses the primary table by literal substring precedence.
func (r *Resolver) pickTable(lower string, tables []string) string {
	primary := tables[0]

	switch {
	case strings.Contains(lower, "project") && contains(tables, r.catalog.PrimaryTable):
		primary = r.catalog.PrimaryTable
	case strings.Contains(lower, "inventory") && contains(tables, "inventory") && len(r.store.GetAll("inventory")) > 0:
		primary = "inventory"
	case strings.Contains(lower, "sales"):
		if contains(tables, "sales") && len(r.store.GetAll("sales")) > 0 {
			primary = "sales"
		} else if contains(tables, r.catalog.PrimaryTable) {
			primary = r.catalog.PrimaryTable
		}
	}
	return primary
}

// buildQuery synthesizes one of three pseudo-SQL shapes: ranking,
// aggregation (unfiltered, aggregation is the presentation layer's
// job), or plain limited read.
func (r *Resolver) buildQuery(lower, table, order string, limit int) string {
	switch {
	case strings.Contains(lower, "top") || strings.Contains(lower, "ranking") || strings.Contains(lower, "project"):
		if rankCol, ok := r.catalog.RankColumns[table]; ok {
			return fmt.Sprintf("SELECT * FROM %s ORDER BY %s %s LIMIT %d", table, rankCol, order, limit)
		}
		return fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit)
	case strings.Contains(lower, "total") || strings.Contains(lower, "sum"):
		return fmt.Sprintf("SELECT * FROM %s", table)
	default:
		return fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit)
	}
}

func limitOrDefault(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
