package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/redist-cli/internal/config"
)

func TestSplitPair(t *testing.T) {
	tests := []struct {
		spec    string
		key     string
		value   string
		wantErr bool
	}{
		{spec: "2012=permits.csv", key: "2012", value: "permits.csv"},
		{spec: "join=a=b.csv", key: "join", value: "a=b.csv"},
		{spec: "noequals", wantErr: true},
		{spec: "=path", wantErr: true},
		{spec: "key=", wantErr: true},
	}
	for _, tt := range tests {
		key, value, err := splitPair(tt.spec)
		if tt.wantErr {
			assert.Error(t, err, tt.spec)
			continue
		}
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.key, key)
		assert.Equal(t, tt.value, value)
	}
}

func writeTestTable(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInputs(t *testing.T) {
	cfg = &config.Config{}
	cfg.Analysis.CensusYear = 2010
	dir := t.TempDir()

	baseline := writeTestTable(t, dir, "baseline.csv",
		"block_id,census_population,occupancy_rate,avg_household_size\n"+
			"b1,100,0.9,2.5\n"+
			"b2,200,0.9,2.5\n")
	permits := writeTestTable(t, dir, "permits.csv",
		"block_id,new_dwelling_units\nb2,10\n")
	source := writeTestTable(t, dir, "join.csv",
		"block_id,ward\nb1,1\nb2,2\n")

	in, err := loadInputs(inputFlags{
		baselinePath: baseline,
		permitPaths:  []string{"2012=" + permits},
		sourcePaths:  []string{"join=" + source},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, in.store.Len())
	assert.Equal(t, 2010, in.store.CensusYear())
	assert.Equal(t, []string{"join"}, in.store.Sources())
	// With no explicit year, the most recent permit year wins.
	assert.Equal(t, 2012, in.asOfYear)

	issues, err := in.resolver.Issues(in.asOfYear)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestLoadInputs_RequiresBaseline(t *testing.T) {
	cfg = &config.Config{}
	_, err := loadInputs(inputFlags{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--baseline")
}

func TestLoadInputs_BadPermitSpec(t *testing.T) {
	cfg = &config.Config{}
	cfg.Analysis.CensusYear = 2010
	dir := t.TempDir()
	baseline := writeTestTable(t, dir, "baseline.csv",
		"block_id,census_population,occupancy_rate,avg_household_size\nb1,1,1,1\n")

	_, err := loadInputs(inputFlags{
		baselinePath: baseline,
		permitPaths:  []string{"notayear=permits.csv"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}

func TestLoadInputs_AsOfYearFallsBackToCensusYear(t *testing.T) {
	cfg = &config.Config{}
	cfg.Analysis.CensusYear = 2010
	dir := t.TempDir()
	baseline := writeTestTable(t, dir, "baseline.csv",
		"block_id,census_population,occupancy_rate,avg_household_size\nb1,1,1,1\n")

	in, err := loadInputs(inputFlags{baselinePath: baseline})
	require.NoError(t, err)
	assert.Equal(t, 2010, in.asOfYear)
}

func TestLoadInputs_AppliesOverrides(t *testing.T) {
	cfg = &config.Config{}
	cfg.Analysis.CensusYear = 2010
	dir := t.TempDir()

	baseline := writeTestTable(t, dir, "baseline.csv",
		"block_id,census_population,occupancy_rate,avg_household_size\nb1,100,0.9,2.5\n")
	source := writeTestTable(t, dir, "join.csv", "block_id,ward\nb1,\n")
	overrides := writeTestTable(t, dir, "overrides.yaml", `"b1": "4"`)

	in, err := loadInputs(inputFlags{
		baselinePath: baseline,
		sourcePaths:  []string{"join=" + source},
		overrides:    overrides,
	})
	require.NoError(t, err)

	attr, err := in.resolver.Finalize(in.asOfYear)
	require.NoError(t, err)
	assert.Equal(t, "4", attr.Wards["b1"])
}
