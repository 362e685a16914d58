// Package aggregate rolls per-block estimated population up to ward and
// neighborhood-district totals under a given attribution.
package aggregate

import (
	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/estimate"
	"github.com/sells-group/redist-cli/internal/model"
)

// WardTotals computes per-ward totals for the attribution as of the given
// year. Blocks absent from the attribution are excluded from every ward and
// accumulated as Unattributed, so the totals stay auditable:
// sum(Wards) + Unattributed == Citywide.
func WardTotals(st *blockstore.Store, est *estimate.Estimator, attr *model.Attribution, asOfYear int) (*model.WardTotals, error) {
	totals := &model.WardTotals{
		Wards:    make(map[string]float64),
		Nhoods:   make(map[string]float64),
		AsOfYear: asOfYear,
	}

	for b := range st.All() {
		pop, err := est.CurrentPopulation(b, asOfYear)
		if err != nil {
			return nil, err
		}
		totals.Citywide += pop

		if ward, ok := attr.Wards[b.ID]; ok {
			totals.Wards[ward] += pop
		} else {
			totals.Unattributed += pop
		}
		if nhood, ok := attr.Nhoods[b.ID]; ok {
			totals.Nhoods[nhood] += pop
		}
	}

	return totals, nil
}
