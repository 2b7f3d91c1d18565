package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Compare.ChunkSize != 262144 {
		t.Errorf("ChunkSize = %d, want 262144", cfg.Compare.ChunkSize)
	}
	if cfg.Compare.FloatTolerance != 1e-16 {
		t.Errorf("FloatTolerance = %v, want 1e-16", cfg.Compare.FloatTolerance)
	}
	if !cfg.Compare.ContinueOnError {
		t.Error("ContinueOnError = false, want true")
	}
	if cfg.Performance.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.Performance.MaxWorkers)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Format = %q, want human", cfg.Output.Format)
	}
	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled = true, want false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "ChunkSizeTooSmall",
			mutate:    func(c *Config) { c.Compare.ChunkSize = 1024 },
			wantField: "compare.chunk_size",
		},
		{
			name:      "NonPositiveTolerance",
			mutate:    func(c *Config) { c.Compare.FloatTolerance = 0 },
			wantField: "compare.float_tolerance",
		},
		{
			name:      "ZeroWorkers",
			mutate:    func(c *Config) { c.Performance.MaxWorkers = 0 },
			wantField: "performance.max_workers",
		},
		{
			name:      "BadOutputFormat",
			mutate:    func(c *Config) { c.Output.Format = "xml" },
			wantField: "output.format",
		},
		{
			name:      "BadLogFormat",
			mutate:    func(c *Config) { c.Logging.Format = "csv" },
			wantField: "logging.format",
		},
		{
			name:      "BadLogLevel",
			mutate:    func(c *Config) { c.Logging.Level = "trace" },
			wantField: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %T, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Compare.ChunkSize = 8192
	cfg.Performance.MaxWorkers = 2
	cfg.Exclude = []string{"*.tmp", ".git/"}

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if loaded.Compare.ChunkSize != 8192 {
		t.Errorf("ChunkSize = %d, want 8192", loaded.Compare.ChunkSize)
	}
	if loaded.Performance.MaxWorkers != 2 {
		t.Errorf("MaxWorkers = %d, want 2", loaded.Performance.MaxWorkers)
	}
	if len(loaded.Exclude) != 2 || loaded.Exclude[0] != "*.tmp" {
		t.Errorf("Exclude = %v, want [*.tmp .git/]", loaded.Exclude)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Run("PartialFileKeepsDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "performance:\n  max_workers: 8\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadFromFile(path)
		if err != nil {
			t.Fatalf("LoadFromFile() error = %v", err)
		}
		if cfg.Performance.MaxWorkers != 8 {
			t.Errorf("MaxWorkers = %d, want 8", cfg.Performance.MaxWorkers)
		}
		// Untouched sections keep their defaults
		if cfg.Compare.ChunkSize != 262144 {
			t.Errorf("ChunkSize = %d, want default 262144", cfg.Compare.ChunkSize)
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "output:\n  format: xml\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadFromFile(path); err == nil {
			t.Error("LoadFromFile() expected validation error")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadFromFile(path); err == nil {
			t.Error("LoadFromFile() expected parse error")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadFromFile() expected error")
		}
	})
}
