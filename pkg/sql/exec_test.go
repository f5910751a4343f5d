package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportiq/insight-engine/pkg/models"
)

func salesRows() []models.Record {
	return []models.Record{
		{"id": 1, "customer": "Acme Corp", "amount": 500.0, "region": "west"},
		{"id": 2, "customer": "Globex", "amount": 1200.0, "region": "east"},
		{"id": 3, "customer": "Initech", "amount": 300.0, "region": "west"},
		{"id": 4, "customer": "Umbrella", "amount": 900.0, "region": "north"},
	}
}

func mustParse(t *testing.T, q string) *Statement {
	t.Helper()
	stmt, err := Parse(q)
	require.NoError(t, err)
	return stmt
}

func TestApply_OrderByDescWithLimit(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM sales ORDER BY amount desc LIMIT 2")
	out := Apply(stmt, salesRows())

	require.Len(t, out, 2)
	assert.Equal(t, "Globex", out[0]["customer"])
	assert.Equal(t, "Umbrella", out[1]["customer"])
}

func TestApply_EqualityFilter(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM sales WHERE region = 'west'")
	out := Apply(stmt, salesRows())

	require.Len(t, out, 2)
	for _, row := range out {
		assert.Equal(t, "west", row["region"])
	}
}

func TestApply_FilterIsCaseInsensitiveForStrings(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM sales WHERE customer = 'acme corp'")
	out := Apply(stmt, salesRows())

	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0]["id"])
}

func TestApply_NumericFilter(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM sales WHERE amount = 900")
	out := Apply(stmt, salesRows())

	require.Len(t, out, 1)
	assert.Equal(t, "Umbrella", out[0]["customer"])
}

func TestApply_UnsupportedWhereKeepsAllRows(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM sales WHERE amount > 100")
	out := Apply(stmt, salesRows())
	assert.Len(t, out, 4)
}

func TestApply_Projection(t *testing.T) {
	stmt := mustParse(t, "SELECT customer, amount FROM sales LIMIT 1")
	out := Apply(stmt, salesRows())

	require.Len(t, out, 1)
	assert.Equal(t, models.Record{"customer": "Acme Corp", "amount": 500.0}, out[0])
}

func TestApply_MixedTypeSortFallsBackToStrings(t *testing.T) {
	rows := []models.Record{
		{"id": 1, "amount": "n/a"},
		{"id": 2, "amount": 200.0},
		{"id": 3, "amount": 500.0},
	}
	stmt := mustParse(t, "SELECT * FROM sales ORDER BY amount desc")

	// Must not panic; ordering among mixed types is best-effort.
	out := Apply(stmt, rows)
	assert.Len(t, out, 3)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	rows := salesRows()
	stmt := mustParse(t, "SELECT * FROM sales ORDER BY amount desc LIMIT 1")
	_ = Apply(stmt, rows)

	assert.Equal(t, 1, rows[0]["id"])
	assert.Len(t, rows, 4)
}
