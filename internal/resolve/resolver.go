// Package resolve reconciles externally supplied block-to-ward attribution
// sources into a single authoritative assignment. Sources come from
// centroid-containment spatial joins run by the geometry collaborator; this
// package never re-derives geometry and never silently picks a winner when
// sources disagree.
package resolve

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/estimate"
	"github.com/sells-group/redist-cli/internal/model"
)

// Resolver classifies every block against its attribution sources and
// collects manual overrides for the flagged ones.
type Resolver struct {
	store     *blockstore.Store
	est       *estimate.Estimator
	overrides map[string]string
}

// New creates a resolver over the loaded block set.
func New(st *blockstore.Store, est *estimate.Estimator) *Resolver {
	return &Resolver{
		store:     st,
		est:       est,
		overrides: make(map[string]string),
	}
}

// classify returns the block's status and the sorted distinct non-null
// wards its sources proposed. Overrides are not consulted here.
func classify(b *model.Block) (model.AttributionStatus, []string) {
	set := make(map[string]bool, len(b.WardSources))
	for _, ward := range b.WardSources {
		if ward != "" {
			set[ward] = true
		}
	}
	switch len(set) {
	case 0:
		return model.StatusUnassigned, nil
	case 1:
		for ward := range set {
			return model.StatusResolved, []string{ward}
		}
	}
	candidates := make([]string, 0, len(set))
	for ward := range set {
		candidates = append(candidates, ward)
	}
	sort.Strings(candidates)
	return model.StatusConflict, candidates
}

// Issues reports the blocks needing manual review as of the given year,
// ordered by block id. Unassigned blocks with zero estimated population are
// suppressed: there is nothing to reattribute when no population is at
// stake (de-annexed areas legitimately stay unassigned). Conflicts are
// always reported since they signal disagreeing source passes. Blocks
// already overridden are omitted.
func (r *Resolver) Issues(asOfYear int) ([]model.AttributionIssue, error) {
	var issues []model.AttributionIssue
	for b := range r.store.All() {
		if _, ok := r.overrides[b.ID]; ok {
			continue
		}
		status, candidates := classify(b)
		if status == model.StatusResolved {
			continue
		}
		pop, err := r.est.CurrentPopulation(b, asOfYear)
		if err != nil {
			return nil, err
		}
		if status == model.StatusUnassigned && pop == 0 {
			continue
		}
		issues = append(issues, model.AttributionIssue{
			BlockID:             b.ID,
			Status:              status,
			Candidates:          candidates,
			EstimatedPopulation: pop,
		})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].BlockID < issues[j].BlockID })
	return issues, nil
}

// Override records a manually supplied final ward for a flagged block. It
// fails with model.ErrNotFound for an unknown block and rejects overrides
// on blocks the sources already agree about.
func (r *Resolver) Override(blockID, ward string) error {
	b, err := r.store.Get(blockID)
	if err != nil {
		return err
	}
	if ward == "" {
		return eris.Errorf("resolve: empty ward in override for block %s", blockID)
	}
	if status, _ := classify(b); status == model.StatusResolved {
		return eris.Errorf("resolve: block %s is not flagged; refusing to override a unanimous attribution", blockID)
	}
	r.overrides[blockID] = ward
	return nil
}

// Finalize produces the resolved attribution. It fails with
// model.ErrUnresolvedConflict while any nonzero-population block remains
// unassigned or conflicted without an override; the caller supplies more
// overrides and retries. Zero-population stragglers are omitted from the
// attribution, which costs every ward total exactly nothing.
func (r *Resolver) Finalize(asOfYear int) (*model.Attribution, error) {
	issues, err := r.Issues(asOfYear)
	if err != nil {
		return nil, err
	}
	var blocking int
	for _, is := range issues {
		if is.EstimatedPopulation > 0 {
			blocking++
		}
	}
	if blocking > 0 {
		return nil, eris.Wrapf(model.ErrUnresolvedConflict,
			"%d nonzero-population blocks remain unresolved", blocking)
	}

	attr := &model.Attribution{
		Wards:  make(map[string]string, r.store.Len()),
		Nhoods: make(map[string]string),
	}
	var resolved, overridden int
	for b := range r.store.All() {
		if ward, ok := r.overrides[b.ID]; ok {
			attr.Wards[b.ID] = ward
			overridden++
		} else if status, candidates := classify(b); status == model.StatusResolved {
			attr.Wards[b.ID] = candidates[0]
			resolved++
		}
		if nhood, ok := unanimousNhood(b); ok {
			attr.Nhoods[b.ID] = nhood
		}
	}

	zap.L().Info("resolve: attribution finalized",
		zap.Int("blocks", r.store.Len()),
		zap.Int("resolved", resolved),
		zap.Int("overridden", overridden),
		zap.Int("unattributed", r.store.Len()-resolved-overridden),
		zap.Strings("sources", r.store.Sources()),
	)
	return attr, nil
}

// unanimousNhood returns the single neighborhood district all sources agree
// on. Disagreements are left unassigned; the district is informational and
// never worth blocking a run over.
func unanimousNhood(b *model.Block) (string, bool) {
	var found string
	for _, nhood := range b.NhoodSources {
		if nhood == "" {
			continue
		}
		if found != "" && found != nhood {
			return "", false
		}
		found = nhood
	}
	return found, found != ""
}
