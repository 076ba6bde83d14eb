package config

import (
	"os"
	"path/filepath"
	"testing"

	terrors "tou-cost/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Batch.Workers != Default().Batch.Workers {
		t.Errorf("workers = %d, want default", cfg.Batch.Workers)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Tariff.Path = "rates/tou-dr.hcl"
	cfg.Batch.Workers = 8
	cfg.Batch.ErrorPolicy = ErrorPolicySkip
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Tariff.Path != "rates/tou-dr.hcl" || got.Batch.Workers != 8 || got.Batch.ErrorPolicy != ErrorPolicySkip {
		t.Errorf("loaded config = %+v", got)
	}
	if got.Output.DisplayPlaces != 2 {
		t.Errorf("display places = %d, want default 2", got.Output.DisplayPlaces)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !terrors.IsType(err, terrors.TypeParsing) {
		t.Errorf("expected PARSING_ERROR, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TOU_WORKERS", "2")
	t.Setenv("TOU_ERROR_POLICY", "skip")
	t.Setenv("TOU_TARIFF_PATH", "/etc/tou/rates.yaml")
	t.Setenv("TOU_METRICS_ENABLED", "true")
	t.Setenv("TOU_DISPLAY_PLACES", "")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("workers = %d, want 2", cfg.Batch.Workers)
	}
	if cfg.Batch.ErrorPolicy != ErrorPolicySkip {
		t.Errorf("error policy = %q, want skip", cfg.Batch.ErrorPolicy)
	}
	if cfg.Tariff.Path != "/etc/tou/rates.yaml" {
		t.Errorf("tariff path = %q", cfg.Tariff.Path)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled")
	}
	if cfg.Output.DisplayPlaces != 2 {
		t.Errorf("empty override changed display places to %d", cfg.Output.DisplayPlaces)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("TOU_WORKERS", "many")
	if err := Default().ApplyEnv(); !terrors.IsType(err, terrors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("TOU_TARIFF_FORMAT=hcl\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TOU_TARIFF_FORMAT") })

	cfg, err := LoadWithEnv(filepath.Join(dir, "config.json"), envFile)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Tariff.Format != "hcl" {
		t.Errorf("tariff format = %q, want hcl from env file", cfg.Tariff.Format)
	}

	// A missing env file is not an error.
	if _, err := LoadWithEnv(filepath.Join(dir, "config.json"), filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing env file: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"unknown policy", func(c *Config) { c.Batch.ErrorPolicy = "retry" }},
		{"negative places", func(c *Config) { c.Output.DisplayPlaces = -1 }},
		{"unknown format", func(c *Config) { c.Tariff.Format = "toml" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !terrors.IsType(err, terrors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}
