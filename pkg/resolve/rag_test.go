package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportiq/insight-engine/pkg/models"
)

func searchData() map[string][]models.Record {
	return map[string][]models.Record{
		"projects": {
			{"id": 1, "project_name": "Port Expansion", "status": "active"},
			{"id": 2, "project_name": "Desalination Plant", "status": "closed"},
		},
		"sales": {
			{"id": 1, "customer": "Expansion Partners", "amount": 500.0},
		},
		"users": {
			{"id": 1, "name": "expansion admin"},
		},
	}
}

func TestSearchRecords_MatchesAcrossTables(t *testing.T) {
	r := testResolver(t, searchData())

	rows, desc, err := r.searchRecords("explain the expansion")
	require.NoError(t, err)
	assert.Equal(t, "Search for: explain, expansion", desc)

	require.Len(t, rows, 2)
	sources := []string{
		rows[0]["_source"].(string),
		rows[1]["_source"].(string),
	}
	assert.ElementsMatch(t, []string{"projects", "sales"}, sources)
	for _, row := range rows {
		assert.Equal(t, 1, row["_relevance"])
	}
}

func TestSearchRecords_SkipsSystemTables(t *testing.T) {
	r := testResolver(t, searchData())

	rows, _, err := r.searchRecords("find the expansion")
	require.NoError(t, err)
	for _, row := range rows {
		assert.NotEqual(t, "users", row["_source"])
	}
}

func TestSearchRecords_ScoresAndOrders(t *testing.T) {
	r := testResolver(t, searchData())

	rows, _, err := r.searchRecords("active expansion project")
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	// "Port Expansion"/"active" matches more terms than any other record.
	assert.Equal(t, "Port Expansion", rows[0]["project_name"])
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i]["_relevance"].(int), rows[i-1]["_relevance"].(int))
	}
}

func TestSearchRecords_ShortTermsIgnored(t *testing.T) {
	r := testResolver(t, searchData())

	rows, desc, err := r.searchRecords("a an the of")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Contains(t, desc, "no usable terms")
}

func TestSearchRecords_NestedListValuesSearched(t *testing.T) {
	data := map[string][]models.Record{
		"projects": {
			{
				"id":           1,
				"project_name": "Harbor Works",
				"bank_guarantees": []any{
					map[string]any{"reference_name": "Guarantee-Alpha"},
				},
			},
		},
	}
	r := testResolver(t, data)

	rows, _, err := r.searchRecords("search for alpha")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// List fields are summarized, not inlined.
	assert.Equal(t, "[1 items]", rows[0]["bank_guarantees"])
}

func TestSearchRecords_ResultLimit(t *testing.T) {
	var many []models.Record
	for i := 0; i < 25; i++ {
		many = append(many, models.Record{"id": i, "note": "expansion phase"})
	}
	r := testResolver(t, map[string][]models.Record{"projects": many})

	rows, _, err := r.searchRecords("expansion notes")
	require.NoError(t, err)
	assert.Len(t, rows, ragResultLimit)
}
