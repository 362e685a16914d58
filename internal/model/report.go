package model

import "time"

// WardTotals is the rollup of estimated population under one attribution.
// The partition invariant holds for any attribution:
// sum(Wards) + Unattributed == Citywide.
type WardTotals struct {
	Wards        map[string]float64 `json:"wards"`
	Nhoods       map[string]float64 `json:"nhoods,omitempty"` // informational rollup
	Unattributed float64            `json:"unattributed"`
	Citywide     float64            `json:"citywide"`
	AsOfYear     int                `json:"as_of_year"`
}

// BalanceEntry is one ward's deviation from the citywide average.
type BalanceEntry struct {
	Ward            string  `json:"ward"`
	Population      float64 `json:"population"`
	DeviationPct    float64 `json:"deviation_pct"`
	WithinTolerance bool    `json:"within_tolerance"`
}

// BalanceReport is the derived per-ward imbalance report. It is recomputed
// on demand and never mutated.
type BalanceReport struct {
	Entries            []BalanceEntry `json:"entries"` // ordered by ward
	Average            float64        `json:"average"`
	TotalPopulation    float64        `json:"total_population"`
	TolerancePct       float64        `json:"tolerance_pct"`
	AllWithinTolerance bool           `json:"all_within_tolerance"`
}

// Metrics is the presentation-rounded summary block carried on the exported
// workbook: total, ward average, the tolerance band, and its bounds.
type Metrics struct {
	TotalPopulation int `json:"total_population"`
	WardAverage     int `json:"ward_average"`
	Band            int `json:"band"` // tolerance_pct of the average, rounded up
	Min             int `json:"min"`
	Max             int `json:"max"`
}

// WardChange compares one ward between the baseline attribution and a
// scenario.
type WardChange struct {
	Ward               string  `json:"ward"`
	CurrentPopulation  float64 `json:"current_population"`
	ScenarioPopulation float64 `json:"scenario_population"`
	Change             float64 `json:"change"`
	FromAverage        float64 `json:"from_average"`
	PctFromAverage     float64 `json:"pct_from_average"`
}

// ScenarioResult is one scenario's evaluated balance outcome plus the
// ranking keys used by Compare.
type ScenarioResult struct {
	Name                string         `json:"name"`
	Report              *BalanceReport `json:"report"`
	Violations          int            `json:"violations"`            // wards out of tolerance
	SumSquaredDeviation float64        `json:"sum_squared_deviation"` // secondary ranking key
	Changes             []WardChange   `json:"changes,omitempty"`     // vs baseline, ordered by ward
}

// RunStatus tracks the lifecycle of a persisted analysis run.
type RunStatus string

const (
	RunStatusPending  RunStatus = "pending"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunReport is the persisted payload of a completed analysis run.
type RunReport struct {
	Totals    *WardTotals        `json:"totals"`
	Balance   *BalanceReport     `json:"balance"`
	Issues    []AttributionIssue `json:"issues,omitempty"`
	Scenarios []ScenarioResult   `json:"scenarios,omitempty"`
}

// AnalysisRun records one biennial analysis execution for the audit trail.
type AnalysisRun struct {
	ID           string     `json:"id"`
	AsOfYear     int        `json:"as_of_year"`
	TolerancePct float64    `json:"tolerance_pct"`
	Status       RunStatus  `json:"status"`
	Report       *RunReport `json:"report,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
