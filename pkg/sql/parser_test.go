package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidQueries(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Statement
	}{
		{
			name:     "star select",
			input:    "SELECT * FROM sales",
			expected: Statement{Star: true, Table: "sales", Limit: -1},
		},
		{
			name:     "trailing semicolon stripped",
			input:    "SELECT * FROM sales;",
			expected: Statement{Star: true, Table: "sales", Limit: -1},
		},
		{
			name:     "column projection",
			input:    "SELECT customer, amount FROM sales",
			expected: Statement{Columns: []string{"customer", "amount"}, Table: "sales", Limit: -1},
		},
		{
			name:  "order by desc with limit",
			input: "SELECT * FROM sales ORDER BY amount desc LIMIT 2",
			expected: Statement{
				Star: true, Table: "sales",
				OrderBy: &OrderBy{Column: "amount", Desc: true},
				Limit:   2,
			},
		},
		{
			name:  "order by defaults ascending",
			input: "SELECT * FROM inventory ORDER BY quantity",
			expected: Statement{
				Star: true, Table: "inventory",
				OrderBy: &OrderBy{Column: "quantity"},
				Limit:   -1,
			},
		},
		{
			name:  "supported equality filter",
			input: "SELECT * FROM sales WHERE customer = 'Acme Corp'",
			expected: Statement{
				Star: true, Table: "sales",
				Where: &Where{Column: "customer", Operator: "=", Value: "Acme Corp", Supported: true},
				Limit: -1,
			},
		},
		{
			name:  "filter followed by order and limit",
			input: "SELECT * FROM sales WHERE region = 'west' ORDER BY amount desc LIMIT 5",
			expected: Statement{
				Star: true, Table: "sales",
				Where:   &Where{Column: "region", Operator: "=", Value: "west", Supported: true},
				OrderBy: &OrderBy{Column: "amount", Desc: true},
				Limit:   5,
			},
		},
		{
			name:     "case insensitive keywords",
			input:    "select * from Sales",
			expected: Statement{Star: true, Table: "sales", Limit: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, &tt.expected, stmt)
		})
	}
}

func TestParse_UnsupportedWhereOperators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		op    string
	}{
		{"greater than", "SELECT * FROM sales WHERE amount > 100", ">"},
		{"not equal", "SELECT * FROM sales WHERE region != 'west'", "!="},
		{"less or equal", "SELECT * FROM sales WHERE amount <= 5", "<="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			require.NoError(t, err)
			require.NotNil(t, stmt.Where)
			assert.False(t, stmt.Where.Supported)
			assert.Equal(t, tt.op, stmt.Where.Operator)
		})
	}
}

func TestParse_CompoundWhereIsUnsupported(t *testing.T) {
	stmt, err := Parse("SELECT * FROM sales WHERE region = 'west' AND amount = 5")
	require.NoError(t, err)
	require.NotNil(t, stmt.Where)
	assert.False(t, stmt.Where.Supported)
}

func TestParse_UnsupportedWhereKeepsLaterClauses(t *testing.T) {
	stmt, err := Parse("SELECT * FROM sales WHERE amount > 100 ORDER BY amount desc LIMIT 3")
	require.NoError(t, err)
	require.NotNil(t, stmt.OrderBy)
	assert.True(t, stmt.OrderBy.Desc)
	assert.Equal(t, 3, stmt.Limit)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not a select", "DELETE FROM sales", ErrNotSelect},
		{"embedded statement", "SELECT * FROM sales; DROP TABLE sales", ErrMultipleStatements},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Parse("SELECT * FROM sales LIMIT abc")
	assert.Error(t, err)
}
