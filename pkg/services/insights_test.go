package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportiq/insight-engine/pkg/models"
)

func TestExtractInsights(t *testing.T) {
	rows := []models.Record{
		{"customer": "Acme", "amount": 500.0},
		{"customer": "Globex", "amount": 1200.0},
		{"customer": "Initech", "amount": 300.0},
	}

	insights := ExtractInsights(rows)
	require.Len(t, insights, 3)
	assert.Contains(t, insights[0], "Globex")
	assert.Contains(t, insights[0], "1,200")
	assert.Contains(t, insights[1], "Average")
	assert.Contains(t, insights[2], "300")
	assert.Contains(t, insights[2], "1,200")
}

func TestExtractInsights_NoNumericColumn(t *testing.T) {
	rows := []models.Record{{"customer": "Acme", "status": "active"}}
	assert.Nil(t, ExtractInsights(rows))
}

func TestExtractInsights_EmptyRows(t *testing.T) {
	assert.Nil(t, ExtractInsights(nil))
}

func TestExtractInsights_SingleRowSkipsRange(t *testing.T) {
	rows := []models.Record{{"customer": "Acme", "amount": 500.0}}
	insights := ExtractInsights(rows)
	require.Len(t, insights, 2)
	for _, in := range insights {
		assert.NotContains(t, in, "Range")
	}
}
