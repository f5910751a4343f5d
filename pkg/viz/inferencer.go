// Package viz infers a renderable chart specification from a resolved
// result set, using query phrasing and column shapes as heuristics.
package viz

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
)

const (
	// maxTitleLength truncates inferred chart titles.
	maxTitleLength = 60
	// pieRowThreshold switches small categorical sets to pie charts.
	pieRowThreshold = 6
)

// palette cycles through dataset segment colors.
var palette = []string{
	"#6366F1", "#8B5CF6", "#EC4899", "#10B981",
	"#F59E0B", "#3B82F6", "#EF4444", "#14B8A6",
}

// labelCandidates is checked in order; the first present column wins.
var labelCandidates = []string{
	"reference_name", "project_name", "title", "customer", "supplier",
	"item", "product", "category", "label", "type", "reference_type",
	"doctype", "description", "doc_details", "agent", "project", "name",
}

// valueCandidates is checked exact-first, then as substrings of
// numeric columns.
var valueCandidates = []string{
	"amount", "total", "quantity", "value", "count", "sales",
	"revenue", "price", "cost", "totals", "profit", "margin",
}

var dateColumns = map[string]bool{
	"date": true, "month": true, "year": true,
	"time": true, "period": true, "created_at": true,
}

// Inferencer maps result sets to chart specs.
type Inferencer struct {
	logger *zap.Logger
}

// New creates a chart inferencer.
func New(logger *zap.Logger) *Inferencer {
	return &Inferencer{logger: logger}
}

// Infer returns a chart spec for the rows, or nil when the data has no
// usable label/value pairing.
func (i *Inferencer) Infer(query string, rows []models.Record) *models.ChartSpec {
	if len(rows) == 0 {
		return nil
	}

	labelCol := pickLabelColumn(rows[0])
	valueCol := pickValueColumn(rows[0])
	if labelCol == "" || valueCol == "" {
		i.logger.Debug("No chartable columns found",
			zap.String("label_column", labelCol),
			zap.String("value_column", valueCol),
		)
		return nil
	}

	chartType := inferChartType(query, labelCol, len(rows))

	labels := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, jsonutil.FlexibleString(row[labelCol]))
		v, _ := jsonutil.FlexibleNumber(row[valueCol])
		values = append(values, v)
	}

	colors := make([]string, len(values))
	for idx := range colors {
		colors[idx] = palette[idx%len(palette)]
	}

	return &models.ChartSpec{
		Type:   chartType,
		Title:  buildTitle(query),
		Labels: labels,
		Dataset: models.ChartDataset{
			Label:           humanizeColumn(valueCol),
			Data:            values,
			BackgroundColor: colors,
			BorderColor:     colors,
		},
		Options: optionsFor(chartType),
		Metadata: models.ChartMetadata{
			LabelColumn: labelCol,
			ValueColumn: valueCol,
			DataCount:   len(rows),
		},
	}
}

// inferChartType applies the phrasing cascade first, then falls back
// to column shape and row count.
func inferChartType(query, labelCol string, rowCount int) models.ChartType {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, "pie", "distribution", "breakdown"):
		return models.ChartTypePie
	case containsAny(q, "line", "trend", "over time", "timeline"):
		return models.ChartTypeLine
	case containsAny(q, "bar", "ranking", "top", "compare"):
		return models.ChartTypeBar
	}

	if dateColumns[strings.ToLower(labelCol)] {
		return models.ChartTypeLine
	}
	if rowCount <= pieRowThreshold {
		return models.ChartTypePie
	}
	return models.ChartTypeBar
}

func pickLabelColumn(row models.Record) string {
	// Column matching is case-insensitive against the candidate lists.
	byLower := make(map[string]string, len(row))
	for k := range row {
		byLower[strings.ToLower(k)] = k
	}
	for _, cand := range labelCandidates {
		if col, ok := byLower[cand]; ok {
			return col
		}
	}
	// Any non-numeric, non-internal column serves as a last resort.
	for _, k := range sortedColumns(row) {
		if strings.HasPrefix(k, "_") || isIDColumn(k) {
			continue
		}
		if _, numeric := jsonutil.FlexibleNumber(row[k]); !numeric {
			if s := jsonutil.FlexibleString(row[k]); s != "" {
				return k
			}
		}
	}
	return ""
}

func pickValueColumn(row models.Record) string {
	byLower := make(map[string]string, len(row))
	for k := range row {
		byLower[strings.ToLower(k)] = k
	}
	for _, cand := range valueCandidates {
		if col, ok := byLower[cand]; ok {
			if _, numeric := jsonutil.FlexibleNumber(row[col]); numeric {
				return col
			}
		}
	}
	for _, k := range sortedColumns(row) {
		if isIDColumn(k) || strings.HasPrefix(k, "_") {
			continue
		}
		if _, numeric := jsonutil.FlexibleNumber(row[k]); !numeric {
			continue
		}
		lower := strings.ToLower(k)
		for _, cand := range valueCandidates {
			if strings.Contains(lower, cand) {
				return k
			}
		}
	}
	for _, k := range sortedColumns(row) {
		if isIDColumn(k) || strings.HasPrefix(k, "_") {
			continue
		}
		if _, numeric := jsonutil.FlexibleNumber(row[k]); numeric {
			return k
		}
	}
	return ""
}

// sortedColumns keeps fallback column selection deterministic.
func sortedColumns(row models.Record) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func isIDColumn(name string) bool {
	lower := strings.ToLower(name)
	return lower == "id" || lower == "idx" || strings.HasSuffix(lower, "_id")
}

// buildTitle capitalizes the query, strips trailing question marks, and
// truncates long text.
func buildTitle(query string) string {
	title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), "?"))
	if title == "" {
		return "Results"
	}
	runes := []rune(title)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	title = string(runes)
	if len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength]) + "..."
	}
	return title
}

func optionsFor(chartType models.ChartType) models.ChartOptions {
	opts := models.ChartOptions{
		Responsive:          true,
		MaintainAspectRatio: false,
		Animation:           true,
	}
	switch chartType {
	case models.ChartTypePie:
		opts.Cutout = "50%"
		opts.ShowLegend = true
	case models.ChartTypeLine:
		opts.Tension = 0.4
		opts.Fill = true
		opts.ShowGridLines = true
	case models.ChartTypeBar:
		opts.BarPercentage = 0.8
		opts.Horizontal = false
		opts.ShowGridLines = true
	}
	return opts
}

func humanizeColumn(col string) string {
	words := strings.Split(strings.ReplaceAll(col, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
