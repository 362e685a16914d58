package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Spatial  SpatialConfig  `yaml:"spatial" mapstructure:"spatial"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`             // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"` // postgres conn string
	Path        string `yaml:"path" mapstructure:"path"`                 // sqlite file path
}

// AnalysisConfig configures the population model.
type AnalysisConfig struct {
	CensusYear   int     `yaml:"census_year" mapstructure:"census_year"`
	AsOfYear     int     `yaml:"as_of_year" mapstructure:"as_of_year"`
	TolerancePct float64 `yaml:"tolerance_pct" mapstructure:"tolerance_pct"`
}

// SpatialConfig names the shapefile fields the spatial join reads.
type SpatialConfig struct {
	BlockIDField string `yaml:"block_id_field" mapstructure:"block_id_field"`
	LatField     string `yaml:"lat_field" mapstructure:"lat_field"`
	LonField     string `yaml:"lon_field" mapstructure:"lon_field"`
	WardField    string `yaml:"ward_field" mapstructure:"ward_field"`
	NhoodField   string `yaml:"nhood_field" mapstructure:"nhood_field"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REDIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "redist.db")
	v.SetDefault("analysis.census_year", 2010)
	v.SetDefault("analysis.tolerance_pct", 3.0)
	v.SetDefault("spatial.block_id_field", "geoid10")
	v.SetDefault("spatial.lat_field", "intptlat10")
	v.SetDefault("spatial.lon_field", "intptlon10")
	v.SetDefault("spatial.ward_field", "ward")
	v.SetDefault("spatial.nhood_field", "name")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
