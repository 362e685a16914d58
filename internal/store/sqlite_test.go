package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/redist-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testRunReport() *model.RunReport {
	return &model.RunReport{
		Totals: &model.WardTotals{
			Wards:    map[string]float64{"A": 322.5, "B": 300},
			Citywide: 622.5,
			AsOfYear: 2011,
		},
		Balance: &model.BalanceReport{
			Entries: []model.BalanceEntry{
				{Ward: "A", Population: 322.5, DeviationPct: 3.614},
				{Ward: "B", Population: 300, DeviationPct: -3.614},
			},
			Average:      311.25,
			TolerancePct: 3.0,
		},
	}
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateRun(ctx, 2011, 3.0)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.RunStatusPending, created.Status)

	got, err := st.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 2011, got.AsOfYear)
	assert.Equal(t, 3.0, got.TolerancePct)
	assert.Nil(t, got.Report)
}

func TestSQLite_CompleteRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateRun(ctx, 2011, 3.0)
	require.NoError(t, err)
	require.NoError(t, st.CompleteRun(ctx, created.ID, testRunReport()))

	got, err := st.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Report)
	assert.InDelta(t, 622.5, got.Report.Totals.Citywide, 1e-9)
	assert.Len(t, got.Report.Balance.Entries, 2)
}

func TestSQLite_CompleteRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.CompleteRun(context.Background(), "nonexistent", testRunReport())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateRun(ctx, 2011, 3.0)
	require.NoError(t, err)
	require.NoError(t, st.FailRun(ctx, created.ID, "unresolved conflicts"))

	got, err := st.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for year := 2011; year <= 2015; year += 2 {
		_, err := st.CreateRun(ctx, year, 3.0)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
