// Package scenario evaluates candidate ward-boundary assignments against
// the balance tolerance and ranks them. Scenarios never alter the baseline
// attribution; each evaluation is an independent pure computation.
package scenario

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/redist-cli/internal/aggregate"
	"github.com/sells-group/redist-cli/internal/balance"
	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/estimate"
	"github.com/sells-group/redist-cli/internal/model"
)

// BaselineName is the reserved scenario name for the resolved current
// attribution.
const BaselineName = "baseline"

// Engine holds the named candidate attributions for one analysis run.
type Engine struct {
	store *blockstore.Store
	est   *estimate.Estimator
	names []string // registration order
	attrs map[string]*model.Attribution
}

// New creates an engine seeded with the resolved attribution under
// BaselineName.
func New(st *blockstore.Store, est *estimate.Estimator, resolved *model.Attribution) *Engine {
	return &Engine{
		store: st,
		est:   est,
		names: []string{BaselineName},
		attrs: map[string]*model.Attribution{BaselineName: resolved},
	}
}

// Add registers a wholesale candidate attribution. Fails with
// model.ErrDuplicateName when the name is already taken within this run.
func (e *Engine) Add(name string, attr *model.Attribution) error {
	if name == "" {
		return eris.New("scenario: name must not be empty")
	}
	if _, exists := e.attrs[name]; exists {
		return eris.Wrapf(model.ErrDuplicateName, "scenario %q", name)
	}
	e.attrs[name] = attr
	e.names = append(e.names, name)
	return nil
}

// AddOverrides registers a scenario derived from the baseline by reassigning
// the given blocks. Unknown block ids fail with model.ErrNotFound.
func (e *Engine) AddOverrides(name string, overrides map[string]string) error {
	attr := e.attrs[BaselineName].Clone()
	for blockID, ward := range overrides {
		if _, err := e.store.Get(blockID); err != nil {
			return err
		}
		if ward == "" {
			delete(attr.Wards, blockID)
			continue
		}
		attr.Wards[blockID] = ward
	}
	return e.Add(name, attr)
}

// Names returns the registered scenario names in registration order,
// baseline first.
func (e *Engine) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Evaluate aggregates and analyzes one scenario, returning its balance
// report, ranking keys, and per-ward change against the baseline.
func (e *Engine) Evaluate(name string, asOfYear int, tolerancePct float64) (*model.ScenarioResult, error) {
	attr, ok := e.attrs[name]
	if !ok {
		return nil, eris.Wrapf(model.ErrNotFound, "scenario %q", name)
	}

	totals, err := aggregate.WardTotals(e.store, e.est, attr, asOfYear)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario %q: aggregate", name)
	}
	report, err := balance.Analyze(totals.Wards, tolerancePct)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario %q: analyze", name)
	}

	result := &model.ScenarioResult{
		Name:   name,
		Report: report,
	}
	for _, entry := range report.Entries {
		if !entry.WithinTolerance {
			result.Violations++
		}
		result.SumSquaredDeviation += entry.DeviationPct * entry.DeviationPct
	}

	if name != BaselineName {
		baseTotals, err := aggregate.WardTotals(e.store, e.est, e.attrs[BaselineName], asOfYear)
		if err != nil {
			return nil, eris.Wrap(err, "scenario: aggregate baseline")
		}
		result.Changes = wardChanges(baseTotals.Wards, totals.Wards, report.Average)
	}

	return result, nil
}

// Compare evaluates the named scenarios (all registered ones when names is
// empty) and returns them best first: fewest out-of-tolerance wards, then
// lowest sum of squared deviations, then name for a total order.
// Evaluations share no mutable state and run concurrently.
func (e *Engine) Compare(ctx context.Context, names []string, asOfYear int, tolerancePct float64) ([]*model.ScenarioResult, error) {
	if len(names) == 0 {
		names = e.names
	}

	results := make([]*model.ScenarioResult, len(names))
	g, _ := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			r, err := e.Evaluate(name, asOfYear, tolerancePct)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Violations != b.Violations {
			return a.Violations < b.Violations
		}
		if a.SumSquaredDeviation != b.SumSquaredDeviation {
			return a.SumSquaredDeviation < b.SumSquaredDeviation
		}
		return a.Name < b.Name
	})

	zap.L().Info("scenario: comparison complete",
		zap.Int("scenarios", len(results)),
		zap.String("best", results[0].Name),
		zap.Int("best_violations", results[0].Violations),
	)
	return results, nil
}

// wardChanges builds the per-ward current-vs-scenario table over the union
// of wards, ordered the same way the balance report orders them.
func wardChanges(current, scen map[string]float64, average float64) []model.WardChange {
	set := make(map[string]bool, len(current)+len(scen))
	for w := range current {
		set[w] = true
	}
	for w := range scen {
		set[w] = true
	}
	wards := make([]string, 0, len(set))
	for w := range set {
		wards = append(wards, w)
	}
	balance.SortWards(wards)

	changes := make([]model.WardChange, 0, len(wards))
	for _, w := range wards {
		cur, sp := current[w], scen[w]
		var pct float64
		if average != 0 {
			pct = (sp - average) / average * 100
		}
		changes = append(changes, model.WardChange{
			Ward:               w,
			CurrentPopulation:  cur,
			ScenarioPopulation: sp,
			Change:             sp - cur,
			FromAverage:        sp - average,
			PctFromAverage:     pct,
		})
	}
	return changes
}
