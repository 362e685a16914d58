// Package estimate projects current block population from the decennial
// baseline plus annual building-permit increments.
package estimate

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/model"
)

// Estimator computes current estimated population per block. It is a pure
// function of the block and the as-of year; results are never rounded here,
// rounding is a presentation concern.
type Estimator struct {
	censusYear int
}

// NewEstimator creates an estimator anchored at the decennial census year.
func NewEstimator(censusYear int) *Estimator {
	return &Estimator{censusYear: censusYear}
}

// CensusYear returns the baseline year the estimator is anchored at.
func (e *Estimator) CensusYear() int { return e.censusYear }

// CurrentPopulation returns the estimated population of b as of the given
// year:
//
//	census_population + sum over y in (censusYear, asOfYear] of
//	    new_dwelling_units(y) * occupancy_rate * avg_household_size
//
// Years with no recorded increment contribute zero. Fails with
// model.ErrInvalidYear when asOfYear precedes the census year.
func (e *Estimator) CurrentPopulation(b *model.Block, asOfYear int) (float64, error) {
	if asOfYear < e.censusYear {
		return 0, eris.Wrapf(model.ErrInvalidYear, "as-of year %d precedes census year %d", asOfYear, e.censusYear)
	}

	pop := float64(b.CensusPopulation)
	for year, units := range b.PermitIncrements {
		if year <= e.censusYear || year > asOfYear {
			continue
		}
		pop += float64(units) * b.OccupancyRate * b.AvgHouseholdSize
	}
	return pop, nil
}

// CitywideTotal sums estimated population over every block in the store.
func (e *Estimator) CitywideTotal(st *blockstore.Store, asOfYear int) (float64, error) {
	var total float64
	for b := range st.All() {
		pop, err := e.CurrentPopulation(b, asOfYear)
		if err != nil {
			return 0, err
		}
		total += pop
	}
	return total, nil
}
