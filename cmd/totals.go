package main

import (
	"github.com/sells-group/redist-cli/internal/aggregate"
	"github.com/sells-group/redist-cli/internal/model"
)

// rebuildTotals recomputes ward totals for the resolved attribution; the
// aggregation is cheap enough that commands recompute rather than thread
// totals through every call path.
func rebuildTotals(in *analysisInputs, attr *model.Attribution) (*model.WardTotals, error) {
	return aggregate.WardTotals(in.store, in.est, attr, in.asOfYear)
}
