// Package model defines the domain types shared across the redistricting
// analysis engine: census blocks, ward attributions, and balance reports.
package model

// Block is the smallest census geographic unit and the atomic unit of
// population estimation. Blocks are immutable once loaded; a new analysis
// run ingests a fresh load.
type Block struct {
	ID               string  `json:"id"`                 // stable block identifier (GEOID)
	CensusPopulation int     `json:"census_population"`  // decennial baseline, never negative
	OccupancyRate    float64 `json:"occupancy_rate"`     // fraction in [0,1]
	AvgHouseholdSize float64 `json:"avg_household_size"` // persons per dwelling unit

	// PermitIncrements maps permit year to new dwelling units recorded for
	// that year. Absent years contribute zero. A recorded year is never
	// revised; new years are appended by later permit tables.
	PermitIncrements map[int]int `json:"permit_increments,omitempty"`

	// WardSources maps attribution-source name to the ward that source
	// assigned this block. A source that did not cover the block has no
	// entry; an empty value means the source explicitly left it NULL.
	WardSources map[string]string `json:"ward_sources,omitempty"`

	// NhoodSources is the analogous mapping for neighborhood-council
	// districts. Informational only; never used in balance math.
	NhoodSources map[string]string `json:"nhood_sources,omitempty"`
}

// NewUnits returns the dwelling units permitted in the given year, zero when
// no increment was recorded.
func (b *Block) NewUnits(year int) int {
	if b.PermitIncrements == nil {
		return 0
	}
	return b.PermitIncrements[year]
}

// AttributionSource is one externally computed block assignment pass,
// typically the output of a centroid-containment spatial join. Sources may
// be partial and may disagree with each other; the resolver reconciles them.
type AttributionSource struct {
	Name   string            `json:"name"`
	Wards  map[string]string `json:"wards"`            // block id -> ward
	Nhoods map[string]string `json:"nhoods,omitempty"` // block id -> neighborhood district
}

// Attribution is a complete assignment of blocks to wards. Blocks absent
// from Wards are unattributed and excluded from every ward total.
type Attribution struct {
	Wards  map[string]string `json:"wards"`
	Nhoods map[string]string `json:"nhoods,omitempty"`
}

// Clone returns a deep copy, used to derive scenario attributions from the
// resolved baseline without aliasing its maps.
func (a *Attribution) Clone() *Attribution {
	c := &Attribution{Wards: make(map[string]string, len(a.Wards))}
	for k, v := range a.Wards {
		c.Wards[k] = v
	}
	if a.Nhoods != nil {
		c.Nhoods = make(map[string]string, len(a.Nhoods))
		for k, v := range a.Nhoods {
			c.Nhoods[k] = v
		}
	}
	return c
}

// AttributionStatus classifies a block's reconciliation outcome.
type AttributionStatus string

const (
	StatusResolved   AttributionStatus = "resolved"
	StatusUnassigned AttributionStatus = "unassigned"
	StatusConflict   AttributionStatus = "conflict"
)

// AttributionIssue is one block flagged for manual review: either no source
// assigned it a ward, or sources disagree. Zero-population unassigned blocks
// are suppressed upstream and never appear here.
type AttributionIssue struct {
	BlockID             string            `json:"block_id"`
	Status              AttributionStatus `json:"status"`
	Candidates          []string          `json:"candidates,omitempty"` // distinct wards proposed, sorted
	EstimatedPopulation float64           `json:"estimated_population"`
}
