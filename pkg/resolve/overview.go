package resolve

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
)

// overviewKeywords trigger the per-entity summary instead of a raw
// table read.
var overviewKeywords = []string{
	"overview", "summary", "summarize", "show all", "show me all",
	"نظرة عامة", "ملخص", "عرض الكل", "اعرض كل",
}

// overview produces one structured summary record per primary-table
// entity: scalar business fields with thousands separators and
// percentage formatting, plus a per-subtable count line.
func (r *Resolver) overview(lower string, tables []string) ([]models.Record, string, bool) {
	matched := false
	for _, kw := range overviewKeywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}
	if !matched || !contains(tables, r.catalog.PrimaryTable) {
		return nil, "", false
	}

	parents := r.store.GetAll(r.catalog.PrimaryTable)
	if len(parents) == 0 {
		return nil, "", false
	}

	subtableLabels := r.subtableLabels()

	summaries := make([]models.Record, 0, len(parents))
	for _, parent := range parents {
		summaries = append(summaries, summarizeEntity(parent, subtableLabels))
	}

	desc := fmt.Sprintf("Overview of %s from %s",
		countNoun(len(summaries), "entity"), r.catalog.PrimaryTable)
	return summaries, desc, true
}

// subtableLabels collects every nested field known to the catalog with
// its human label, deduplicated across rules.
func (r *Resolver) subtableLabels() map[string]string {
	labels := make(map[string]string)
	for _, rule := range r.catalog.SubtableRules {
		for _, field := range rule.Fields {
			if _, ok := labels[field]; !ok {
				labels[field] = rule.Label(field)
			}
		}
	}
	return labels
}

func summarizeEntity(parent models.Record, subtableLabels map[string]string) models.Record {
	summary := models.Record{}

	for k, v := range parent {
		if auditFields[k] {
			continue
		}
		if _, isSubtable := subtableLabels[k]; isSubtable {
			continue
		}
		switch v.(type) {
		case []any, []models.Record, map[string]any:
			continue
		}
		if n, ok := jsonutil.FlexibleNumber(v); ok {
			switch {
			case k == "id" || strings.HasSuffix(k, "_id") || strings.HasSuffix(k, "idx"):
				summary[k] = v
			case strings.Contains(k, "percent") || strings.HasSuffix(k, "_rate"):
				summary[k] = fmt.Sprintf("%.1f%%", n)
			default:
				summary[k] = humanize.Commaf(n)
			}
			continue
		}
		summary[k] = jsonutil.FlexibleString(v)
	}

	subtables := models.Record{}
	for field, label := range subtableLabels {
		items, ok := parent.SubtableItems(field)
		if !ok {
			continue
		}
		line := countNoun(len(items), "record")
		if total := sumTotals(items); total > 0 {
			line = fmt.Sprintf("%s (Total: %s)", line, humanize.Commaf(total))
		}
		subtables[label] = line
	}
	if len(subtables) > 0 {
		summary["subtables"] = subtables
	}

	return summary
}

func sumTotals(items []models.Record) float64 {
	var total float64
	for _, item := range items {
		if n, ok := jsonutil.FlexibleNumber(item["totals"]); ok {
			total += n
		}
	}
	return total
}
