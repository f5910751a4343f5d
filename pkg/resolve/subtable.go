package resolve

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
)

// auditFields are internal bookkeeping fields never copied out of
// nested items.
var auditFields = map[string]bool{
	"parent":      true,
	"parentfield": true,
	"parenttype":  true,
	"doctype":     true,
	"docstatus":   true,
	"owner":       true,
	"creation":    true,
	"modified":    true,
	"modified_by": true,
}

// extractSubtables flattens nested list fields out of the primary
// table's records when the query names one. The catalog's rules are
// pre-sorted longest keyword first, so "bank guarantee" wins over
// "bank". Extraction copies items; source records are never mutated.
func (r *Resolver) extractSubtables(lower, order string, limit int) ([]models.Record, string, bool) {
	var rule *models.SubtableRule
	for i := range r.catalog.SubtableRules {
		if strings.Contains(lower, strings.ToLower(r.catalog.SubtableRules[i].Keyword)) {
			rule = &r.catalog.SubtableRules[i]
			break
		}
	}
	if rule == nil {
		return nil, "", false
	}

	r.logger.Info("Query targets subtables",
		zap.String("keyword", rule.Keyword),
		zap.Strings("fields", rule.Fields),
	)

	parents := r.store.GetAll(r.catalog.PrimaryTable)
	var extracted []models.Record
	labelsSeen := make(map[string]bool)
	var labels []string

	for _, parent := range parents {
		for _, field := range rule.Fields {
			items, ok := parent.SubtableItems(field)
			if !ok {
				continue
			}
			label := rule.Label(field)
			if !labelsSeen[label] {
				labelsSeen[label] = true
				labels = append(labels, label)
			}
			for _, item := range items {
				extracted = append(extracted, flattenItem(item, label, parent))
			}
		}
	}

	if len(extracted) == 0 {
		return nil, "", false
	}

	sortByAmount(extracted, order)

	if max := limitOrDefault(limit, defaultExtractLimit); len(extracted) > max {
		extracted = extracted[:max]
	}

	desc := fmt.Sprintf("Extracted %s: %s",
		strings.Join(labels, ", "),
		countNoun(len(extracted), "record"),
	)
	return extracted, desc, true
}

// flattenItem copies a nested item into a standalone record with
// provenance fields, dropping audit fields.
func flattenItem(item models.Record, label string, parent models.Record) models.Record {
	out := make(models.Record, len(item)+3)

	// Business-significant fields first, then the rest.
	for _, k := range []string{"reference_type", "reference_name", "doc_details", "totals", "customer", "idx"} {
		if v, ok := item[k]; ok {
			out[k] = v
		}
	}
	for k, v := range item {
		if auditFields[k] {
			continue
		}
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}

	out["_source_table"] = label
	out["_project_name"] = jsonutil.FlexibleString(parent["project_name"])
	out["_project_id"] = parent["id"]
	return out
}

// sortByAmount orders extracted items by a best-effort numeric key:
// totals, falling back to idx, defaulting to 0. Non-numeric values
// never abort the sort.
func sortByAmount(rows []models.Record, order string) {
	key := func(rec models.Record) float64 {
		if n, ok := jsonutil.FlexibleNumber(rec["totals"]); ok {
			return n
		}
		if n, ok := jsonutil.FlexibleNumber(rec["idx"]); ok {
			return n
		}
		return 0
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if order == "asc" {
			return key(rows[i]) < key(rows[j])
		}
		return key(rows[i]) > key(rows[j])
	})
}
