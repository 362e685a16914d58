package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/estimate"
	"github.com/sells-group/redist-cli/internal/model"
)

func ip(n int) *int         { return &n }
func fp(f float64) *float64 { return &f }

func newTestStore(t *testing.T) *blockstore.Store {
	t.Helper()
	st, err := blockstore.Load(2010, []blockstore.BaselineRow{
		{BlockID: "b1", CensusPopulation: ip(100), OccupancyRate: fp(0.9), AvgHouseholdSize: fp(2.5)},
		{BlockID: "b2", CensusPopulation: ip(200), OccupancyRate: fp(0.9), AvgHouseholdSize: fp(2.5)},
		{BlockID: "b3", CensusPopulation: ip(300), OccupancyRate: fp(0.9), AvgHouseholdSize: fp(2.5)},
	}, []blockstore.PermitTable{
		{Year: 2011, Rows: []blockstore.PermitRow{{BlockID: "b2", NewUnits: ip(10)}}},
	})
	require.NoError(t, err)
	return st
}

func TestWardTotals(t *testing.T) {
	st := newTestStore(t)
	est := estimate.NewEstimator(2010)
	attr := &model.Attribution{
		Wards:  map[string]string{"b1": "A", "b2": "A", "b3": "B"},
		Nhoods: map[string]string{"b1": "Downtown", "b2": "Downtown"},
	}

	totals, err := WardTotals(st, est, attr, 2011)
	require.NoError(t, err)

	assert.InDelta(t, 322.5, totals.Wards["A"], 1e-9)
	assert.InDelta(t, 300.0, totals.Wards["B"], 1e-9)
	assert.Equal(t, 0.0, totals.Unattributed)
	assert.InDelta(t, 622.5, totals.Citywide, 1e-9)
	assert.InDelta(t, 322.5, totals.Nhoods["Downtown"], 1e-9)
	assert.Equal(t, 2011, totals.AsOfYear)
}

func TestWardTotals_PartitionInvariant(t *testing.T) {
	st := newTestStore(t)
	est := estimate.NewEstimator(2010)

	attrs := []*model.Attribution{
		{Wards: map[string]string{}},
		{Wards: map[string]string{"b1": "A"}},
		{Wards: map[string]string{"b1": "A", "b2": "B", "b3": "C"}},
	}
	for _, attr := range attrs {
		totals, err := WardTotals(st, est, attr, 2011)
		require.NoError(t, err)

		var sum float64
		for _, pop := range totals.Wards {
			sum += pop
		}
		assert.InDelta(t, totals.Citywide, sum+totals.Unattributed, 1e-9)
	}
}

func TestWardTotals_YearBeforeCensus(t *testing.T) {
	st := newTestStore(t)
	est := estimate.NewEstimator(2010)

	_, err := WardTotals(st, est, &model.Attribution{Wards: map[string]string{}}, 2009)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidYear)
}
