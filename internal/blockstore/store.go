// Package blockstore holds the per-run snapshot of census blocks: baseline
// metrics plus per-year permit increments, normalized at load time.
package blockstore

import (
	"iter"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/redist-cli/internal/model"
)

// BaselineRow is one raw row of the decennial baseline table. Nil numeric
// fields are normalized to zero on load; anything multiplied by zero is zero.
type BaselineRow struct {
	BlockID          string
	CensusPopulation *int
	OccupancyRate    *float64
	AvgHouseholdSize *float64
}

// PermitRow is one raw row of a yearly building-permit table.
type PermitRow struct {
	BlockID  string
	NewUnits *int
}

// PermitTable is one year of permit data.
type PermitTable struct {
	Year int
	Rows []PermitRow
}

// Store is the immutable in-memory block set for a single analysis run.
type Store struct {
	censusYear int
	blocks     map[string]*model.Block
	order      []string // baseline insertion order
	sources    []string // attribution source names, in apply order
}

// Load builds the store from the baseline table and zero or more permit
// tables. Permit tables are applied in ascending year order regardless of
// the order supplied. It fails with model.ErrDataIntegrity when a baseline
// row lacks a block identifier, when a block appears twice in the baseline,
// or when two permit tables claim the same year.
func Load(censusYear int, baseline []BaselineRow, permits []PermitTable) (*Store, error) {
	s := &Store{
		censusYear: censusYear,
		blocks:     make(map[string]*model.Block, len(baseline)),
		order:      make([]string, 0, len(baseline)),
	}

	for i, row := range baseline {
		if row.BlockID == "" {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "baseline row %d has no block identifier", i)
		}
		if _, exists := s.blocks[row.BlockID]; exists {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "duplicate baseline row for block %s", row.BlockID)
		}
		b := &model.Block{
			ID:               row.BlockID,
			CensusPopulation: intOrZero(row.CensusPopulation),
			OccupancyRate:    floatOrZero(row.OccupancyRate),
			AvgHouseholdSize: floatOrZero(row.AvgHouseholdSize),
		}
		if b.CensusPopulation < 0 {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "block %s has negative census population %d", row.BlockID, b.CensusPopulation)
		}
		s.blocks[row.BlockID] = b
		s.order = append(s.order, row.BlockID)
	}

	sorted := make([]PermitTable, len(permits))
	copy(sorted, permits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	seen := make(map[int]bool, len(sorted))
	for _, tbl := range sorted {
		if seen[tbl.Year] {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "permit table for year %d supplied twice", tbl.Year)
		}
		seen[tbl.Year] = true
		s.applyPermits(tbl)
	}

	zap.L().Info("blockstore: loaded",
		zap.Int("blocks", len(s.order)),
		zap.Int("permit_years", len(sorted)),
		zap.Int("census_year", censusYear),
	)

	return s, nil
}

// applyPermits folds one year of permit rows into the blocks. Rows for
// blocks missing from the baseline are skipped with a warning: permits are
// issued against parcels, and a parcel outside the baseline (de-annexed or
// mis-keyed) cannot carry estimated population anyway.
func (s *Store) applyPermits(tbl PermitTable) {
	var skipped int
	for _, row := range tbl.Rows {
		b, ok := s.blocks[row.BlockID]
		if !ok {
			skipped++
			continue
		}
		units := intOrZero(row.NewUnits)
		if units == 0 {
			continue
		}
		if b.PermitIncrements == nil {
			b.PermitIncrements = make(map[int]int)
		}
		b.PermitIncrements[tbl.Year] += units
	}
	if skipped > 0 {
		zap.L().Warn("blockstore: permit rows for unknown blocks skipped",
			zap.Int("year", tbl.Year),
			zap.Int("skipped", skipped),
		)
	}
}

// AddSource records one attribution source's assignments onto the blocks.
// Assignments for unknown blocks are skipped with a warning; the spatial
// collaborator may cover de-annexed territory the baseline excludes.
func (s *Store) AddSource(src model.AttributionSource) {
	var skipped int
	for id, ward := range src.Wards {
		b, ok := s.blocks[id]
		if !ok {
			skipped++
			continue
		}
		if b.WardSources == nil {
			b.WardSources = make(map[string]string)
		}
		b.WardSources[src.Name] = ward
	}
	for id, nhood := range src.Nhoods {
		b, ok := s.blocks[id]
		if !ok {
			continue
		}
		if b.NhoodSources == nil {
			b.NhoodSources = make(map[string]string)
		}
		b.NhoodSources[src.Name] = nhood
	}
	s.sources = append(s.sources, src.Name)
	if skipped > 0 {
		zap.L().Warn("blockstore: source assignments for unknown blocks skipped",
			zap.String("source", src.Name),
			zap.Int("skipped", skipped),
		)
	}
}

// Get returns the block or fails with model.ErrNotFound.
func (s *Store) Get(blockID string) (*model.Block, error) {
	b, ok := s.blocks[blockID]
	if !ok {
		return nil, eris.Wrapf(model.ErrNotFound, "block %s", blockID)
	}
	return b, nil
}

// All returns a restartable sequence over every block in baseline insertion
// order. The order is stable across calls.
func (s *Store) All() iter.Seq[*model.Block] {
	return func(yield func(*model.Block) bool) {
		for _, id := range s.order {
			if !yield(s.blocks[id]) {
				return
			}
		}
	}
}

// Len returns the number of blocks loaded.
func (s *Store) Len() int { return len(s.order) }

// CensusYear returns the decennial baseline year.
func (s *Store) CensusYear() int { return s.censusYear }

// Sources returns the attribution source names in the order applied.
func (s *Store) Sources() []string {
	out := make([]string, len(s.sources))
	copy(out, s.sources)
	return out
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
