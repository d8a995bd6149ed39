package appconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	tests := []struct {
		flag string
		want Environment
	}{
		{"test", Test},
		{"TEST", Test},
		{"production", Production},
		{"prod", Production},
		{"development", Development},
		{"", Development},
		{"staging", Development},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvFlagToEnvironment(tt.flag))
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, Development, cfg.Environment())
	assert.Equal(t, filepath.Join("data", "raw_incidents.csv"), cfg.IncidentsPath)
	assert.Equal(t, filepath.Join("data", "roots_data.json"), cfg.RootsOutput)
	assert.Equal(t, 2020, cfg.YearFrom)
	assert.Equal(t, 2025, cfg.YearTo)
	assert.Equal(t, []string{"Sudan", "Ethiopia"}, cfg.DeepDiveCountries)
	assert.Equal(t, 8, cfg.ShadowGapSize)
	assert.Empty(t, cfg.LogFormat)
	assert.Equal(t, "text", cfg.ResolvedLogFormat())
	assert.NoError(t, cfg.Validate())
}

func TestResolvedLogFormat(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		format string
		want   string
	}{
		{"development defaults to text", "development", "", "text"},
		{"unknown env is development", "staging", "", "text"},
		{"test defaults to json", "test", "", "json"},
		{"production defaults to json", "production", "", "json"},
		{"explicit format wins", "production", "text", "text"},
		{"explicit json in development", "development", "json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Env: tt.env, LogFormat: tt.format}
			assert.Equal(t, tt.want, cfg.ResolvedLogFormat())
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := LoadConfigFromFile("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "shadowgap.yaml")
		content := `
env: test
data_dir: /srv/data
year_from: 2021
shadow_gap_size: 5
deep_dive_countries: []
log_format: text
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadConfigFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, Test, cfg.Environment())
		assert.Equal(t, filepath.Join("/srv/data", "raw_incidents.csv"), cfg.IncidentsPath)
		assert.Equal(t, 2021, cfg.YearFrom)
		assert.Equal(t, 2025, cfg.YearTo)
		assert.Equal(t, 5, cfg.ShadowGapSize)
		assert.Empty(t, cfg.DeepDiveCountries)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("inverted year window is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("year_from: 2025\nyear_to: 2020\n"), 0o600))

		_, err := LoadConfigFromFile(path)
		assert.ErrorContains(t, err, "year_from")
	})

	t.Run("unknown log format is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_format: xml\n"), 0o600))

		_, err := LoadConfigFromFile(path)
		assert.ErrorContains(t, err, "log_format")
	})
}

func TestWithDataDir(t *testing.T) {
	cfg := Default()
	cfg.GeoOutput = filepath.Join("/srv", "published", "geo.json")

	moved := cfg.WithDataDir("/tmp/run")

	assert.Equal(t, "/tmp/run", moved.DataDir)
	assert.Equal(t, filepath.Join("/tmp/run", "raw_incidents.csv"), moved.IncidentsPath)
	assert.Equal(t, filepath.Join("/tmp/run", "acled_conflict_index.csv"), moved.ConflictIndexPath)
	assert.Equal(t, filepath.Join("/tmp/run", "narrative_data.json"), moved.NarrativeOutput)
	assert.Equal(t, cfg.GeoOutput, moved.GeoOutput, "paths outside the data directory stay put")
	assert.Equal(t, "data", cfg.DataDir, "receiver is not modified")
}
