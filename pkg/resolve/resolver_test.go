package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/config"
	"github.com/exportiq/insight-engine/pkg/models"
	"github.com/exportiq/insight-engine/pkg/store"
)

type memBackend struct {
	data map[string][]models.Record
}

func (m *memBackend) LoadAll(context.Context) (map[string][]models.Record, error) {
	return m.data, nil
}

func (m *memBackend) SaveTable(_ context.Context, table string, rows []models.Record) error {
	m.data[table] = rows
	return nil
}

func testResolver(t *testing.T, data map[string][]models.Record) *Resolver {
	t.Helper()
	if data == nil {
		data = map[string][]models.Record{}
	}
	st, err := store.Open(context.Background(), &memBackend{data: data}, zap.NewNop())
	require.NoError(t, err)
	cat, err := config.LoadCatalog("")
	require.NoError(t, err)
	return New(st, cat, zap.NewNop())
}

func salesData() map[string][]models.Record {
	return map[string][]models.Record{
		"sales": {
			{"id": 1, "customer": "Acme", "amount": 500.0},
			{"id": 2, "customer": "Globex", "amount": 1200.0},
			{"id": 3, "customer": "Initech", "amount": 300.0},
		},
	}
}

func sqlIntent(tables []string, params models.Parameters) models.Intent {
	return models.Intent{
		Tool:          models.ToolSQL,
		Parameters:    params,
		DomainContext: models.DomainContext{Tables: tables},
	}
}

func TestResolve_RankingQuery(t *testing.T) {
	r := testResolver(t, salesData())

	res := r.Resolve("top 2 customers", sqlIntent([]string{"sales"}, models.Parameters{Limit: 2, Order: "desc"}))

	require.True(t, res.Success)
	require.Equal(t, 2, res.RowCount)
	assert.Equal(t, "Globex", res.Rows[0]["customer"])
	assert.Equal(t, "Acme", res.Rows[1]["customer"])
	assert.Equal(t, "SELECT * FROM sales ORDER BY amount desc LIMIT 2", res.DescribedQuery)
}

func TestResolve_OrderDefaultsToDescending(t *testing.T) {
	r := testResolver(t, salesData())

	res := r.Resolve("top customers", sqlIntent([]string{"sales"}, models.Parameters{}))

	require.True(t, res.Success)
	assert.Contains(t, res.DescribedQuery, "ORDER BY amount desc")
	assert.Contains(t, res.DescribedQuery, "LIMIT 10")
}

func TestResolve_AscendingOrder(t *testing.T) {
	r := testResolver(t, salesData())

	res := r.Resolve("top customers ascending", sqlIntent([]string{"sales"}, models.Parameters{Order: "asc"}))

	require.True(t, res.Success)
	assert.Equal(t, "Initech", res.Rows[0]["customer"])
}

func TestResolve_AggregationReadsWholeTable(t *testing.T) {
	r := testResolver(t, salesData())

	res := r.Resolve("total sales", sqlIntent([]string{"sales"}, models.Parameters{}))

	require.True(t, res.Success)
	assert.Equal(t, 3, res.RowCount)
	assert.Equal(t, "SELECT * FROM sales", res.DescribedQuery)
}

func TestResolve_DefaultsToSalesTableWhenScopeEmpty(t *testing.T) {
	r := testResolver(t, salesData())

	res := r.Resolve("recent records", sqlIntent(nil, models.Parameters{}))

	require.True(t, res.Success)
	assert.Contains(t, res.DescribedQuery, "FROM sales")
}

func TestResolve_ProjectQueriesPreferPrimaryTable(t *testing.T) {
	data := salesData()
	data["projects"] = []models.Record{
		{"id": 1, "project_name": "Port Expansion", "total_sales_amount": 900.0},
	}
	r := testResolver(t, data)

	res := r.Resolve("project status", sqlIntent([]string{"sales", "projects"}, models.Parameters{}))

	require.True(t, res.Success)
	assert.Contains(t, res.DescribedQuery, "FROM projects")
}

func TestResolve_EmptySalesFallsBackToPrimaryTable(t *testing.T) {
	data := map[string][]models.Record{
		"sales": {},
		"projects": {
			{"id": 1, "project_name": "Port Expansion", "total_sales_amount": 900.0},
		},
	}
	r := testResolver(t, data)

	res := r.Resolve("sales figures", sqlIntent([]string{"sales", "projects"}, models.Parameters{}))

	require.True(t, res.Success)
	assert.Contains(t, res.DescribedQuery, "FROM projects")
}

func TestResolve_CalculatorTool(t *testing.T) {
	r := testResolver(t, nil)

	res := r.Resolve("calculate 12 + 8", models.Intent{Tool: models.ToolCalculator})

	require.True(t, res.Success)
	require.Equal(t, 1, res.RowCount)
	assert.Equal(t, 20.0, res.Rows[0]["result"])
	assert.Equal(t, models.ToolCalculator, res.Tool)
}

func TestResolve_CalculatorUnparseableStaysSuccessful(t *testing.T) {
	r := testResolver(t, nil)

	res := r.Resolve("calculate 42", models.Intent{Tool: models.ToolCalculator})

	assert.True(t, res.Success)
	assert.Zero(t, res.RowCount)
	assert.Equal(t, "Unable to parse calculation", res.DescribedQuery)
}

func TestResolve_Idempotent(t *testing.T) {
	r := testResolver(t, salesData())
	intent := sqlIntent([]string{"sales"}, models.Parameters{Limit: 2, Order: "desc"})

	first := r.Resolve("top 2 customers", intent)
	second := r.Resolve("top 2 customers", intent)
	assert.Equal(t, first, second)
}

func TestResolve_UnknownTableYieldsEmptySuccess(t *testing.T) {
	r := testResolver(t, nil)

	res := r.Resolve("recent records", sqlIntent([]string{"sales"}, models.Parameters{}))

	assert.True(t, res.Success)
	assert.Zero(t, res.RowCount)
}
