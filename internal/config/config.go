// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	terrors "tou-cost/internal/errors"
	"tou-cost/internal/logging"
)

// Error policy names accepted in BatchConfig.ErrorPolicy
const (
	ErrorPolicyAbort = "abort"
	ErrorPolicySkip  = "skip"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TOU_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Tariff selects the tariff file
	Tariff TariffConfig `json:"tariff"`

	// Batch controls how interval sources are processed
	Batch BatchConfig `json:"batch"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`

	// Metrics contains metrics configuration
	Metrics MetricsConfig `json:"metrics"`
}

// TariffConfig points at a tariff file
type TariffConfig struct {
	// Path is the tariff file. Empty selects the built-in SDG&E TOU-DR tariff.
	Path string `json:"path,omitempty"`

	// Format is json, yaml or hcl. Empty infers it from the extension.
	Format string `json:"format,omitempty"`
}

// BatchConfig contains batch processing settings
type BatchConfig struct {
	// Workers is how many sources are priced concurrently
	Workers int `json:"workers"`

	// ErrorPolicy is "abort" (stop the run on the first bad row) or
	// "skip" (record the row and carry on)
	ErrorPolicy string `json:"error_policy"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DisplayPlaces is the number of decimal places used when totals are shown
	DisplayPlaces int32 `json:"display_places"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	// Enabled registers the Prometheus collectors
	Enabled bool `json:"enabled"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Batch: BatchConfig{
			Workers:     4,
			ErrorPolicy: ErrorPolicyAbort,
		},
		Output: OutputConfig{
			DisplayPlaces: 2,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, terrors.Config("cannot read config file", err).WithContext("path", path)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, terrors.Parsing("invalid config file", err).WithContext("path", path)
	}

	return config, nil
}

// LoadWithEnv loads the config file, then the given .env files (".env" when
// none are named), then applies TOU_* environment overrides and validates
// the result. Variables already in the environment win over .env entries.
func LoadWithEnv(path string, envFiles ...string) (*Config, error) {
	config, err := Load(path)
	if err != nil {
		return nil, err
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, terrors.Config("cannot load env file", err).WithContext("path", f)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from TOU_* environment variables. Unset or
// empty variables leave the field alone.
func (c *Config) ApplyEnv() error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}
	integer := func(name string, set func(int)) error {
		v := strings.TrimSpace(os.Getenv(EnvPrefix + name))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return terrors.Config("invalid integer in "+EnvPrefix+name, err)
		}
		set(n)
		return nil
	}
	boolean := func(name string, dst *bool) error {
		v := strings.TrimSpace(os.Getenv(EnvPrefix + name))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return terrors.Config("invalid boolean in "+EnvPrefix+name, err)
		}
		*dst = b
		return nil
	}

	str("TARIFF_PATH", &c.Tariff.Path)
	str("TARIFF_FORMAT", &c.Tariff.Format)
	str("ERROR_POLICY", &c.Batch.ErrorPolicy)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("LOG_OUTPUT", &c.Logging.Output)

	if err := integer("WORKERS", func(n int) { c.Batch.Workers = n }); err != nil {
		return err
	}
	if err := integer("DISPLAY_PLACES", func(n int) { c.Output.DisplayPlaces = int32(n) }); err != nil {
		return err
	}
	return boolean("METRICS_ENABLED", &c.Metrics.Enabled)
}

// Validate checks the configuration for values the engine cannot run with
func (c *Config) Validate() error {
	if c.Batch.Workers < 1 {
		return terrors.Newf(terrors.TypeConfig, "batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	switch strings.ToLower(c.Batch.ErrorPolicy) {
	case ErrorPolicyAbort, ErrorPolicySkip:
	default:
		return terrors.Newf(terrors.TypeConfig, "unknown batch.error_policy %q", c.Batch.ErrorPolicy)
	}
	if c.Output.DisplayPlaces < 0 || c.Output.DisplayPlaces > 10 {
		return terrors.Newf(terrors.TypeConfig, "output.display_places must be between 0 and 10, got %d", c.Output.DisplayPlaces)
	}
	switch strings.ToLower(c.Tariff.Format) {
	case "", "json", "yaml", "yml", "hcl":
	default:
		return terrors.Newf(terrors.TypeConfig, "unknown tariff.format %q", c.Tariff.Format)
	}
	return c.Logging.Validate()
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
