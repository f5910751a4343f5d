package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportiq/insight-engine/pkg/models"
)

func projectsWithSubtables() map[string][]models.Record {
	return map[string][]models.Record{
		"projects": {
			{
				"id":           1,
				"project_name": "Port Expansion",
				"bank_guarantees": []any{
					map[string]any{
						"reference_name": "BG-001",
						"totals":         500.0,
						"idx":            1.0,
						"parent":         "PRJ-1",
						"doctype":        "Bank Guarantee",
						"owner":          "admin",
					},
					map[string]any{
						"reference_name": "BG-002",
						"totals":         "n/a",
						"idx":            2.0,
					},
				},
			},
			{
				"id":           2,
				"project_name": "Desalination Plant",
				"bank_guarantees": []any{
					map[string]any{
						"reference_name": "BG-003",
						"totals":         200.0,
						"idx":            1.0,
					},
				},
			},
		},
	}
}

func TestExtractSubtables_FlattensWithProvenance(t *testing.T) {
	r := testResolver(t, projectsWithSubtables())

	rows, desc, ok := r.extractSubtables("show bank guarantees", "desc", 0)
	require.True(t, ok)
	require.Len(t, rows, 3)
	assert.Contains(t, desc, "Bank Guarantees")
	assert.Contains(t, desc, "3 records")

	first := rows[0]
	assert.Equal(t, "Bank Guarantees", first["_source_table"])
	assert.Equal(t, "Port Expansion", first["_project_name"])
	assert.Equal(t, 1, first["_project_id"])
}

func TestExtractSubtables_DropsAuditFields(t *testing.T) {
	r := testResolver(t, projectsWithSubtables())

	rows, _, ok := r.extractSubtables("bank guarantee details", "desc", 0)
	require.True(t, ok)
	for _, row := range rows {
		assert.NotContains(t, row, "parent")
		assert.NotContains(t, row, "doctype")
		assert.NotContains(t, row, "owner")
	}
}

func TestExtractSubtables_SortsByTotalsDescending(t *testing.T) {
	r := testResolver(t, projectsWithSubtables())

	rows, _, ok := r.extractSubtables("bank guarantees by value", "desc", 0)
	require.True(t, ok)
	require.Len(t, rows, 3)

	// 500, 200, then the non-numeric "n/a" row keyed by idx 2.
	assert.Equal(t, "BG-001", rows[0]["reference_name"])
	assert.Equal(t, "BG-003", rows[1]["reference_name"])
	assert.Equal(t, "BG-002", rows[2]["reference_name"])
}

func TestExtractSubtables_AscendingOrder(t *testing.T) {
	r := testResolver(t, projectsWithSubtables())

	rows, _, ok := r.extractSubtables("bank guarantees lowest first", "asc", 0)
	require.True(t, ok)
	assert.Equal(t, "BG-001", rows[len(rows)-1]["reference_name"])
}

func TestExtractSubtables_LimitApplies(t *testing.T) {
	r := testResolver(t, projectsWithSubtables())

	rows, _, ok := r.extractSubtables("bank guarantees", "desc", 2)
	require.True(t, ok)
	assert.Len(t, rows, 2)
}

func TestExtractSubtables_LongestKeywordWins(t *testing.T) {
	data := map[string][]models.Record{
		"projects": {
			{
				"id":           1,
				"project_name": "Port Expansion",
				"bank_guarantees": []any{
					map[string]any{"reference_name": "BG-001", "totals": 100.0},
				},
				"cancelled_bank_guarantees": []any{
					map[string]any{"reference_name": "CBG-001", "totals": 50.0},
				},
			},
		},
	}
	r := testResolver(t, data)

	// "cancel bank" outranks its substring "bank"; only the cancelled
	// field is extracted.
	rows, _, ok := r.extractSubtables("show cancel bank records", "desc", 0)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "CBG-001", rows[0]["reference_name"])
}

func TestExtractSubtables_NoKeywordNoMatch(t *testing.T) {
	r := testResolver(t, projectsWithSubtables())

	_, _, ok := r.extractSubtables("top customers", "desc", 0)
	assert.False(t, ok)
}

func TestExtractSubtables_KeywordWithoutDataNoMatch(t *testing.T) {
	r := testResolver(t, map[string][]models.Record{
		"projects": {{"id": 1, "project_name": "Empty"}},
	})

	_, _, ok := r.extractSubtables("bank guarantees", "desc", 0)
	assert.False(t, ok)
}

func TestExtractSubtables_SourceRecordsNotMutated(t *testing.T) {
	data := projectsWithSubtables()
	r := testResolver(t, data)

	_, _, ok := r.extractSubtables("bank guarantees", "desc", 0)
	require.True(t, ok)

	items := data["projects"][0]["bank_guarantees"].([]any)
	item := items[0].(map[string]any)
	assert.NotContains(t, item, "_source_table")
	assert.Contains(t, item, "parent")
}
