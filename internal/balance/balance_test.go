package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/redist-cli/internal/model"
)

func TestAnalyze_Empty(t *testing.T) {
	_, err := Analyze(nil, 3.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestAnalyze_NegativeTolerance(t *testing.T) {
	_, err := Analyze(map[string]float64{"1": 100}, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestAnalyze_BoundaryInclusive(t *testing.T) {
	// 1030 and 970 against average 1000 sit exactly on the 3% boundary.
	report, err := Analyze(map[string]float64{"1": 1030, "2": 970}, 3.0)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, report.Average)
	assert.True(t, report.AllWithinTolerance)
	require.Len(t, report.Entries, 2)
	assert.InDelta(t, 3.0, report.Entries[0].DeviationPct, 1e-9)
	assert.True(t, report.Entries[0].WithinTolerance)
	assert.InDelta(t, -3.0, report.Entries[1].DeviationPct, 1e-9)
	assert.True(t, report.Entries[1].WithinTolerance)
}

func TestAnalyze_OutOfTolerance(t *testing.T) {
	report, err := Analyze(map[string]float64{"1": 1040, "2": 960}, 3.0)
	require.NoError(t, err)

	assert.False(t, report.AllWithinTolerance)
	assert.InDelta(t, 4.0, report.Entries[0].DeviationPct, 1e-9)
	assert.False(t, report.Entries[0].WithinTolerance)
	assert.InDelta(t, -4.0, report.Entries[1].DeviationPct, 1e-9)
	assert.False(t, report.Entries[1].WithinTolerance)
}

func TestAnalyze_EqualWardsAtZeroTolerance(t *testing.T) {
	report, err := Analyze(map[string]float64{"1": 500, "2": 500, "3": 500}, 0)
	require.NoError(t, err)

	assert.True(t, report.AllWithinTolerance)
	for _, e := range report.Entries {
		assert.Equal(t, 0.0, e.DeviationPct)
		assert.True(t, e.WithinTolerance)
	}
}

func TestAnalyze_AllZeroWards(t *testing.T) {
	report, err := Analyze(map[string]float64{"1": 0, "2": 0}, 3.0)
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.Average)
	assert.True(t, report.AllWithinTolerance)
	for _, e := range report.Entries {
		assert.Equal(t, 0.0, e.DeviationPct)
	}
}

func TestAnalyze_EntriesInNumericWardOrder(t *testing.T) {
	report, err := Analyze(map[string]float64{"10": 1, "2": 1, "1": 1}, 3.0)
	require.NoError(t, err)

	wards := make([]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		wards = append(wards, e.Ward)
	}
	assert.Equal(t, []string{"1", "2", "10"}, wards)
}

func TestSummarize_Rounding(t *testing.T) {
	report, err := Analyze(map[string]float64{"A": 322.5, "B": 300}, 3.0)
	require.NoError(t, err)

	m := Summarize(report)
	assert.Equal(t, 623, m.TotalPopulation) // 622.5 rounded
	assert.Equal(t, 312, m.WardAverage)     // ceil(311.25)
	assert.Equal(t, 10, m.Band)             // ceil(0.03 * 312)
	assert.Equal(t, 302, m.Min)
	assert.Equal(t, 322, m.Max)
}

func TestSortWards_FallsBackToLexicographic(t *testing.T) {
	wards := []string{"C", "A", "10", "B"}
	SortWards(wards)
	assert.Equal(t, []string{"10", "A", "B", "C"}, wards)
}
