package appconf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all the settings for a pipeline run. Values come from an
// optional YAML file and may be overridden by command-line flags.
type Config struct {
	Env string `yaml:"env"`

	DataDir           string `yaml:"data_dir"`
	IncidentsPath     string `yaml:"incidents_path"`
	ConflictIndexPath string `yaml:"conflict_index_path"`
	RootsOutput       string `yaml:"roots_output"`
	GeoOutput         string `yaml:"geo_output"`
	NarrativeOutput   string `yaml:"narrative_output"`

	// TablesPath optionally replaces the embedded country tables.
	TablesPath string `yaml:"tables_path"`

	// Incidents dated outside [YearFrom, YearTo] are dropped before counting.
	YearFrom int `yaml:"year_from"`
	YearTo   int `yaml:"year_to"`

	// DeepDiveCountries have dedicated treatment elsewhere and are left out
	// of the shadow gap ranking.
	DeepDiveCountries []string `yaml:"deep_dive_countries"`
	TextureCountries  []string `yaml:"texture_countries"`
	ShadowGapSize     int      `yaml:"shadow_gap_size"`

	LogLevel string `yaml:"log_level"`

	// LogFormat is json or text. Empty picks one from the environment.
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{Env: "development"}
	cfg.applyDefaults()
	return cfg
}

// LoadConfigFromFile reads a YAML config file and fills unset fields with defaults.
func LoadConfigFromFile(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.IncidentsPath == "" {
		c.IncidentsPath = filepath.Join(c.DataDir, "raw_incidents.csv")
	}
	if c.ConflictIndexPath == "" {
		c.ConflictIndexPath = filepath.Join(c.DataDir, "acled_conflict_index.csv")
	}
	if c.RootsOutput == "" {
		c.RootsOutput = filepath.Join(c.DataDir, "roots_data.json")
	}
	if c.GeoOutput == "" {
		c.GeoOutput = filepath.Join(c.DataDir, "geo_impunity_data.json")
	}
	if c.NarrativeOutput == "" {
		c.NarrativeOutput = filepath.Join(c.DataDir, "narrative_data.json")
	}
	if c.YearFrom == 0 {
		c.YearFrom = 2020
	}
	if c.YearTo == 0 {
		c.YearTo = 2025
	}
	if c.DeepDiveCountries == nil {
		c.DeepDiveCountries = []string{"Sudan", "Ethiopia"}
	}
	if c.TextureCountries == nil {
		c.TextureCountries = []string{"Democratic Republic of Congo", "Nigeria", "Myanmar"}
	}
	if c.ShadowGapSize <= 0 {
		c.ShadowGapSize = 8
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// WithDataDir returns a copy of c with dir as the data directory. File paths
// located directly in the previous data directory move with it; paths
// elsewhere are kept.
func (c Config) WithDataDir(dir string) Config {
	old := filepath.Clean(c.DataDir)
	move := func(p string) string {
		if filepath.Dir(p) == old {
			return filepath.Join(dir, filepath.Base(p))
		}
		return p
	}

	c.IncidentsPath = move(c.IncidentsPath)
	c.ConflictIndexPath = move(c.ConflictIndexPath)
	c.RootsOutput = move(c.RootsOutput)
	c.GeoOutput = move(c.GeoOutput)
	c.NarrativeOutput = move(c.NarrativeOutput)
	c.DataDir = dir
	return c
}

// Validate reports settings that cannot produce a meaningful run.
func (c Config) Validate() error {
	if c.YearFrom > c.YearTo {
		return fmt.Errorf("year_from (%d) must not be after year_to (%d)", c.YearFrom, c.YearTo)
	}
	switch c.LogFormat {
	case "", "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Environment returns the parsed Env setting.
func (c Config) Environment() Environment {
	return EnvFlagToEnvironment(c.Env)
}

// ResolvedLogFormat returns LogFormat, or text in development and json
// elsewhere when it is unset.
func (c Config) ResolvedLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	if c.Environment() == Development {
		return "text"
	}
	return "json"
}
