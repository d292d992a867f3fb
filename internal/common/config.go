package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment" yaml:"environment"` // "development" or "production"
	API         APIConfig     `toml:"api" yaml:"api"`
	Search      SearchConfig  `toml:"search" yaml:"search"`
	Logging     LoggingConfig `toml:"logging" yaml:"logging"`
}

// APIConfig contains the retailer endpoint configuration.
// The endpoints are undocumented and may change without notice; they are
// configurable so a breakage can be patched without a rebuild.
type APIConfig struct {
	GeocoderURL       string        `toml:"geocoder_url" yaml:"geocoder_url" validate:"required,url"`
	StoreSearchURL    string        `toml:"store_search_url" yaml:"store_search_url" validate:"required,url"`
	StockURL          string        `toml:"stock_url" yaml:"stock_url" validate:"required,url"`
	RequestTimeout    time.Duration `toml:"request_timeout" yaml:"request_timeout"`
	RequestInterval   time.Duration `toml:"request_interval" yaml:"request_interval"` // Minimum spacing between requests (assumed remote rate limit)
	BatchSize         int           `toml:"batch_size" yaml:"batch_size" validate:"gt=0"`
	DropTrailingBatch bool          `toml:"drop_trailing_batch" yaml:"drop_trailing_batch"` // Legacy behavior: skip the final partial batch of store ids
}

// SearchConfig contains the sweep parameters.
type SearchConfig struct {
	RadiusMiles int    `toml:"radius_miles" yaml:"radius_miles" validate:"gt=0"`
	DataDir     string `toml:"data_dir" yaml:"data_dir" validate:"required"` // Store cache and report output location
}

type LoggingConfig struct {
	Level  string   `toml:"level" yaml:"level"`   // "debug", "info", "warn", "error"
	Output []string `toml:"output" yaml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Endpoint URLs and the 6 second request interval match the observed
// behavior of the retailer's public site.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		API: APIConfig{
			GeocoderURL:       "https://www.boots.com/online/psc/geocoder/postalcode",
			StoreSearchURL:    "https://www.boots.com/online/psc/search/store",
			StockURL:          "https://www.boots.com/online/psc/itemStock",
			RequestTimeout:    30 * time.Second,
			RequestInterval:   6 * time.Second,
			BatchSize:         10,
			DropTrailingBatch: false,
		},
		Search: SearchConfig{
			RadiusMiles: 50,
			DataDir:     "./data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path skips the file stage. TOML and YAML files are supported,
// selected by extension.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, config)
		default:
			err = toml.Unmarshal(data, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PHARMSCAN_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// API configuration
	if u := os.Getenv("PHARMSCAN_GEOCODER_URL"); u != "" {
		config.API.GeocoderURL = u
	}
	if u := os.Getenv("PHARMSCAN_STORE_SEARCH_URL"); u != "" {
		config.API.StoreSearchURL = u
	}
	if u := os.Getenv("PHARMSCAN_STOCK_URL"); u != "" {
		config.API.StockURL = u
	}
	if timeout := os.Getenv("PHARMSCAN_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.API.RequestTimeout = d
		}
	}
	if interval := os.Getenv("PHARMSCAN_REQUEST_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.API.RequestInterval = d
		}
	}
	if batchSize := os.Getenv("PHARMSCAN_BATCH_SIZE"); batchSize != "" {
		if bs, err := strconv.Atoi(batchSize); err == nil {
			config.API.BatchSize = bs
		}
	}
	if drop := os.Getenv("PHARMSCAN_DROP_TRAILING_BATCH"); drop != "" {
		if d, err := strconv.ParseBool(drop); err == nil {
			config.API.DropTrailingBatch = d
		}
	}

	// Search configuration
	if radius := os.Getenv("PHARMSCAN_RADIUS_MILES"); radius != "" {
		if r, err := strconv.Atoi(radius); err == nil {
			config.Search.RadiusMiles = r
		}
	}
	if dataDir := os.Getenv("PHARMSCAN_DATA_DIR"); dataDir != "" {
		config.Search.DataDir = dataDir
	}

	// Logging configuration
	if level := os.Getenv("PHARMSCAN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PHARMSCAN_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// NormalizePostcode strips all whitespace and upper-cases a postcode.
// The normalized form is used for cache keys and output filenames.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
