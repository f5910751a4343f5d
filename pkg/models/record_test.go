package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Clone(t *testing.T) {
	orig := Record{"id": 1, "customer": "Acme"}
	clone := orig.Clone()
	clone["customer"] = "Globex"

	assert.Equal(t, "Acme", orig["customer"])
	assert.Equal(t, "Globex", clone["customer"])
}

func TestRecord_SubtableItems(t *testing.T) {
	rec := Record{
		"bank_guarantees": []any{
			map[string]any{"reference_name": "BG-001"},
			"not a map",
			Record{"reference_name": "BG-002"},
		},
		"typed": []Record{{"reference_name": "BG-003"}},
		"name":  "Port Expansion",
	}

	items, ok := rec.SubtableItems("bank_guarantees")
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "BG-001", items[0]["reference_name"])
	assert.Equal(t, "BG-002", items[1]["reference_name"])

	items, ok = rec.SubtableItems("typed")
	require.True(t, ok)
	assert.Len(t, items, 1)

	_, ok = rec.SubtableItems("name")
	assert.False(t, ok)

	_, ok = rec.SubtableItems("missing")
	assert.False(t, ok)
}

func TestSubtableRule_Label(t *testing.T) {
	rule := SubtableRule{
		Keyword: "invoice",
		Fields:  []string{"sales_invoices", "purchase_invoices"},
		Labels:  map[string]string{"sales_invoices": "Sales Invoices"},
	}

	assert.Equal(t, "Sales Invoices", rule.Label("sales_invoices"))
	assert.Equal(t, "purchase_invoices", rule.Label("purchase_invoices"))
}
