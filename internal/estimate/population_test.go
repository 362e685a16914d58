package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/model"
)

func ip(n int) *int         { return &n }
func fp(f float64) *float64 { return &f }

func TestCurrentPopulation_BaselineOnly(t *testing.T) {
	est := NewEstimator(2010)
	b := &model.Block{ID: "b1", CensusPopulation: 150, OccupancyRate: 0.9, AvgHouseholdSize: 2.5}

	pop, err := est.CurrentPopulation(b, 2020)
	require.NoError(t, err)
	assert.Equal(t, 150.0, pop)
}

func TestCurrentPopulation_PermitIncrements(t *testing.T) {
	est := NewEstimator(2010)
	b := &model.Block{
		ID:               "b2",
		CensusPopulation: 200,
		OccupancyRate:    0.9,
		AvgHouseholdSize: 2.5,
		PermitIncrements: map[int]int{2011: 10},
	}

	pop, err := est.CurrentPopulation(b, 2011)
	require.NoError(t, err)
	assert.InDelta(t, 222.5, pop, 1e-9) // 200 + 10*0.9*2.5
}

func TestCurrentPopulation_ExcludesYearsOutsideWindow(t *testing.T) {
	est := NewEstimator(2010)
	b := &model.Block{
		ID:               "b3",
		CensusPopulation: 100,
		OccupancyRate:    1.0,
		AvgHouseholdSize: 2.0,
		PermitIncrements: map[int]int{
			2010: 5, // at the census year, already counted in the decennial figure
			2012: 5,
			2015: 5, // beyond the as-of year
		},
	}

	pop, err := est.CurrentPopulation(b, 2013)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, pop, 1e-9)
}

func TestCurrentPopulation_Monotonic(t *testing.T) {
	est := NewEstimator(2010)
	b := &model.Block{
		ID:               "b4",
		CensusPopulation: 50,
		OccupancyRate:    0.8,
		AvgHouseholdSize: 3.0,
		PermitIncrements: map[int]int{2011: 2, 2013: 4, 2017: 1},
	}

	prev := -1.0
	for year := 2010; year <= 2020; year++ {
		pop, err := est.CurrentPopulation(b, year)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pop, prev, "year %d", year)
		prev = pop
	}
}

func TestCurrentPopulation_YearBeforeCensus(t *testing.T) {
	est := NewEstimator(2010)
	b := &model.Block{ID: "b5", CensusPopulation: 10}

	_, err := est.CurrentPopulation(b, 2009)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidYear)
}

func TestCitywideTotal(t *testing.T) {
	st, err := blockstore.Load(2010, []blockstore.BaselineRow{
		{BlockID: "b1", CensusPopulation: ip(100), OccupancyRate: fp(0.9), AvgHouseholdSize: fp(2.5)},
		{BlockID: "b2", CensusPopulation: ip(200), OccupancyRate: fp(0.9), AvgHouseholdSize: fp(2.5)},
		{BlockID: "b3", CensusPopulation: ip(300), OccupancyRate: fp(0.9), AvgHouseholdSize: fp(2.5)},
	}, []blockstore.PermitTable{
		{Year: 2011, Rows: []blockstore.PermitRow{{BlockID: "b2", NewUnits: ip(10)}}},
	})
	require.NoError(t, err)

	est := NewEstimator(2010)
	total, err := est.CitywideTotal(st, 2011)
	require.NoError(t, err)
	assert.InDelta(t, 622.5, total, 1e-9)
}
