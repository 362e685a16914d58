package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/redist-cli/internal/balance"
	"github.com/sells-group/redist-cli/internal/model"
)

func newTestSummary(t *testing.T) Summary {
	t.Helper()
	totals := &model.WardTotals{
		Wards:        map[string]float64{"A": 322.5, "B": 300},
		Nhoods:       map[string]float64{"Downtown": 322.5, "Riverside": 300},
		Unattributed: 12.5,
		Citywide:     635,
		AsOfYear:     2011,
	}
	report, err := balance.Analyze(totals.Wards, 3.0)
	require.NoError(t, err)

	return Summary{
		Totals:  totals,
		Balance: report,
		Issues: []model.AttributionIssue{
			{BlockID: "b9", Status: model.StatusConflict, Candidates: []string{"1", "2"}, EstimatedPopulation: 42.25},
		},
		Scenarios: []model.ScenarioResult{
			{
				Name:   "swap",
				Report: report,
				Changes: []model.WardChange{
					{Ward: "A", CurrentPopulation: 322.5, ScenarioPopulation: 300, Change: -22.5, FromAverage: -11.25, PctFromAverage: -3.61},
				},
			},
		},
	}
}

func TestWriteSummary_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteSummary(path, newTestSummary(t)))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"by_ward", "by_nc", "issues", "metrics", "scenario_swap"}, names)

	byWard := f.Sheet["by_ward"]
	require.NotNil(t, byWard)
	// Header, two wards, and the unattributed remainder line.
	require.Len(t, byWard.Rows, 4)
	assert.Equal(t, "A", byWard.Rows[1].Cells[0].Value)
	assert.Equal(t, "323", byWard.Rows[1].Cells[1].Value)
	assert.Equal(t, "(unattributed)", byWard.Rows[3].Cells[0].Value)
	assert.Equal(t, "13", byWard.Rows[3].Cells[1].Value)

	issues := f.Sheet["issues"]
	require.NotNil(t, issues)
	require.Len(t, issues.Rows, 2)
	assert.Equal(t, "b9", issues.Rows[1].Cells[0].Value)
	assert.Equal(t, "conflict", issues.Rows[1].Cells[1].Value)
	assert.Equal(t, "1; 2", issues.Rows[1].Cells[2].Value)

	metrics := f.Sheet["metrics"]
	require.NotNil(t, metrics)
	require.Len(t, metrics.Rows, 2)
	assert.Equal(t, "+/- 3%", metrics.Rows[0].Cells[2].Value)
}

func TestWriteSummary_RequiresTotalsAndBalance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	err := WriteSummary(path, Summary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires totals and balance")
}

func TestSheetName_Clamped(t *testing.T) {
	long := "scenario_abcdefghijklmnopqrstuvwxyz0123456789"
	assert.Len(t, sheetName(long), 31)
	assert.Equal(t, "short", sheetName("short"))
}
