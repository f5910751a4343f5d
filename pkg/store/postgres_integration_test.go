package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/models"
	"github.com/exportiq/insight-engine/pkg/store"
	"github.com/exportiq/insight-engine/pkg/testhelpers"
)

func TestPostgresBackend_RoundTrip(t *testing.T) {
	db := testhelpers.GetTestDB(t, "../../migrations")
	ctx := context.Background()

	backend := store.NewPostgresBackend(db.Pool, zap.NewNop())

	rows := []models.Record{
		{"id": 1.0, "customer": "Acme", "amount": 500.0},
		{"id": 2.0, "customer": "Globex", "amount": 1200.0},
	}
	require.NoError(t, backend.SaveTable(ctx, "sales", rows))

	loaded, err := backend.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded["sales"], 2)

	// Positions preserve insertion order.
	assert.Equal(t, "Acme", loaded["sales"][0]["customer"])
	assert.Equal(t, "Globex", loaded["sales"][1]["customer"])
}

func TestPostgresBackend_SaveReplacesCollection(t *testing.T) {
	db := testhelpers.GetTestDB(t, "../../migrations")
	ctx := context.Background()

	backend := store.NewPostgresBackend(db.Pool, zap.NewNop())

	require.NoError(t, backend.SaveTable(ctx, "projects", []models.Record{
		{"id": 1.0, "project_name": "Port Expansion"},
		{"id": 2.0, "project_name": "Desalination Plant"},
	}))
	require.NoError(t, backend.SaveTable(ctx, "projects", []models.Record{
		{"id": 3.0, "project_name": "Harbor Works"},
	}))

	loaded, err := backend.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded["projects"], 1)
	assert.Equal(t, "Harbor Works", loaded["projects"][0]["project_name"])
}

func TestPostgresBackend_StoreMutationsPersist(t *testing.T) {
	db := testhelpers.GetTestDB(t, "../../migrations")
	ctx := context.Background()

	backend := store.NewPostgresBackend(db.Pool, zap.NewNop())
	require.NoError(t, backend.SaveTable(ctx, "feedback", nil))

	st, err := store.Open(ctx, backend, zap.NewNop())
	require.NoError(t, err)

	rec, err := st.Insert(ctx, "feedback", models.Record{"rating": "positive"})
	require.NoError(t, err)

	// A second store opened over the same backend sees the write.
	st2, err := store.Open(ctx, backend, zap.NewNop())
	require.NoError(t, err)
	got, err := st2.GetByID("feedback", rec["id"])
	require.NoError(t, err)
	assert.Equal(t, "positive", got["rating"])
}
