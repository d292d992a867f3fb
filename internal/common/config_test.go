package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 50, config.Search.RadiusMiles)
	assert.Equal(t, "./data", config.Search.DataDir)
	assert.Equal(t, 10, config.API.BatchSize)
	assert.False(t, config.API.DropTrailingBatch)
	assert.Equal(t, 6*time.Second, config.API.RequestInterval)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadFromFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pharmscan.toml")
	content := `
[api]
batch_size = 5
drop_trailing_batch = true

[search]
radius_miles = 25
data_dir = "/tmp/pharmscan-test"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, config.API.BatchSize)
	assert.True(t, config.API.DropTrailingBatch)
	assert.Equal(t, 25, config.Search.RadiusMiles)
	assert.Equal(t, "/tmp/pharmscan-test", config.Search.DataDir)
	assert.Equal(t, "debug", config.Logging.Level)

	// Untouched settings keep their defaults
	assert.Equal(t, NewDefaultConfig().API.StockURL, config.API.StockURL)
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pharmscan.yaml")
	content := `
search:
  radius_miles: 10
  data_dir: ./cache
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10, config.Search.RadiusMiles)
	assert.Equal(t, "./cache", config.Search.DataDir)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("PHARMSCAN_RADIUS_MILES", "15")
	t.Setenv("PHARMSCAN_BATCH_SIZE", "20")
	t.Setenv("PHARMSCAN_REQUEST_INTERVAL", "2s")
	t.Setenv("PHARMSCAN_LOG_OUTPUT", "stdout, file")

	config, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, 15, config.Search.RadiusMiles)
	assert.Equal(t, 20, config.API.BatchSize)
	assert.Equal(t, 2*time.Second, config.API.RequestInterval)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadFromFile_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pharmscan.toml")
	content := `
[api]
batch_size = -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestNormalizePostcode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SW1A 1AA", "SW1A1AA"},
		{"sw1a 1aa", "SW1A1AA"},
		{"  EC1A \t 1BB ", "EC1A1BB"},
		{"M11AE", "M11AE"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePostcode(tt.input))
		})
	}
}

func TestIsProduction(t *testing.T) {
	config := NewDefaultConfig()
	assert.False(t, config.IsProduction())

	config.Environment = "production"
	assert.True(t, config.IsProduction())

	config.Environment = " Prod "
	assert.True(t, config.IsProduction())
}
