// Package balance compares ward totals to the citywide average and flags
// wards deviating beyond a tolerance.
package balance

import (
	"math"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/redist-cli/internal/model"
)

// DefaultTolerancePct is the domain's standard deviation tolerance. Always
// caller-configurable; scenario comparison sweeps it.
const DefaultTolerancePct = 3.0

// Analyze builds the per-ward balance report. Deviation is measured against
// the computed citywide average (total / ward count) and the tolerance
// comparison is inclusive at the boundary. Fails with model.ErrEmptyInput
// when there are zero wards.
func Analyze(wardTotals map[string]float64, tolerancePct float64) (*model.BalanceReport, error) {
	if len(wardTotals) == 0 {
		return nil, eris.Wrap(model.ErrEmptyInput, "balance: no wards to analyze")
	}
	if tolerancePct < 0 {
		return nil, eris.Errorf("balance: tolerance must be non-negative, got %g", tolerancePct)
	}

	wards := make([]string, 0, len(wardTotals))
	var total float64
	for ward, pop := range wardTotals {
		wards = append(wards, ward)
		total += pop
	}
	SortWards(wards)
	average := total / float64(len(wards))

	report := &model.BalanceReport{
		Entries:            make([]model.BalanceEntry, 0, len(wards)),
		Average:            average,
		TotalPopulation:    total,
		TolerancePct:       tolerancePct,
		AllWithinTolerance: true,
	}

	for _, ward := range wards {
		pop := wardTotals[ward]
		// All-zero wards have average 0; every ward then sits exactly on
		// the average and deviation is defined as 0.
		var deviation float64
		if average != 0 {
			deviation = (pop - average) / average * 100
		}
		within := math.Abs(deviation) <= tolerancePct
		if !within {
			report.AllWithinTolerance = false
		}
		report.Entries = append(report.Entries, model.BalanceEntry{
			Ward:            ward,
			Population:      pop,
			DeviationPct:    deviation,
			WithinTolerance: within,
		})
	}

	return report, nil
}

// Summarize derives the presentation metrics block from a report, rounding
// the way the planning office publishes them: average and band round up,
// the band minimum rounds down.
func Summarize(report *model.BalanceReport) model.Metrics {
	avg := math.Ceil(report.Average)
	band := math.Ceil(report.TolerancePct / 100 * avg)
	return model.Metrics{
		TotalPopulation: int(math.Round(report.TotalPopulation)),
		WardAverage:     int(avg),
		Band:            int(band),
		Min:             int(math.Floor(avg - band)),
		Max:             int(math.Ceil(avg + band)),
	}
}

// SortWards orders ward identifiers numerically when every id parses as an
// integer, lexicographically otherwise, so ward 10 follows ward 9 instead
// of ward 1.
func SortWards(wards []string) {
	numeric := true
	nums := make(map[string]int, len(wards))
	for _, w := range wards {
		n, err := strconv.Atoi(w)
		if err != nil {
			numeric = false
			break
		}
		nums[w] = n
	}
	sort.Slice(wards, func(i, j int) bool {
		if numeric {
			return nums[wards[i]] < nums[wards[j]]
		}
		return wards[i] < wards[j]
	})
}
