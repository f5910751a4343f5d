package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportiq/insight-engine/pkg/models"
)

func overviewData() map[string][]models.Record {
	return map[string][]models.Record{
		"projects": {
			{
				"id":                 1,
				"project_name":       "Port Expansion",
				"status":             "active",
				"total_sales_amount": 1250000.5,
				"completion_percent": 72.5,
				"owner":              "admin",
				"bank_guarantees": []any{
					map[string]any{"reference_name": "BG-001", "totals": 500.0},
					map[string]any{"reference_name": "BG-002", "totals": 200.0},
				},
			},
		},
	}
}

func TestOverview_SummarizesEntities(t *testing.T) {
	r := testResolver(t, overviewData())

	rows, desc, ok := r.overview("give me an overview of projects", []string{"projects"})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Contains(t, desc, "1 entity")

	summary := rows[0]
	assert.Equal(t, "Port Expansion", summary["project_name"])
	assert.Equal(t, "1,250,000.5", summary["total_sales_amount"])
	assert.Equal(t, "72.5%", summary["completion_percent"])
	assert.Equal(t, 1, summary["id"])
	assert.NotContains(t, summary, "owner")
	assert.NotContains(t, summary, "bank_guarantees")
}

func TestOverview_SubtableCountsWithTotals(t *testing.T) {
	r := testResolver(t, overviewData())

	rows, _, ok := r.overview("summary of all projects", []string{"projects"})
	require.True(t, ok)

	subtables, isRecord := rows[0]["subtables"].(models.Record)
	require.True(t, isRecord)
	assert.Equal(t, "2 records (Total: 700)", subtables["Bank Guarantees"])
}

func TestOverview_ArabicKeyword(t *testing.T) {
	r := testResolver(t, overviewData())

	_, _, ok := r.overview("ملخص المشاريع", []string{"projects"})
	assert.True(t, ok)
}

func TestOverview_RequiresKeyword(t *testing.T) {
	r := testResolver(t, overviewData())

	_, _, ok := r.overview("top projects", []string{"projects"})
	assert.False(t, ok)
}

func TestOverview_RequiresPrimaryTableInScope(t *testing.T) {
	r := testResolver(t, overviewData())

	_, _, ok := r.overview("overview of sales", []string{"sales"})
	assert.False(t, ok)
}

func TestOverview_EmptyPrimaryTable(t *testing.T) {
	r := testResolver(t, map[string][]models.Record{"projects": {}})

	_, _, ok := r.overview("project overview", []string{"projects"})
	assert.False(t, ok)
}
