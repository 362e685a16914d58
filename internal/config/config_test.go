package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "redist.db", cfg.Store.Path)
	assert.Equal(t, 2010, cfg.Analysis.CensusYear)
	assert.Equal(t, 3.0, cfg.Analysis.TolerancePct)
	assert.Equal(t, "geoid10", cfg.Spatial.BlockIDField)
	assert.Equal(t, "intptlat10", cfg.Spatial.LatField)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REDIST_STORE_DRIVER", "postgres")
	t.Setenv("REDIST_ANALYSIS_CENSUS_YEAR", "2020")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 2020, cfg.Analysis.CensusYear)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
