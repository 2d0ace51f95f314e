package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Endpoint == "" {
		t.Error("endpoint should have a default")
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		t.Errorf("smoothing %v out of range", cfg.Smoothing)
	}
	if cfg.PollInterval != 60*time.Second {
		t.Errorf("poll interval %v, want 60s", cfg.PollInterval)
	}
	if cfg.FetchTimeout != 8*time.Second {
		t.Errorf("fetch timeout %v, want 8s", cfg.FetchTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero smoothing", func(c *Config) { c.Smoothing = 0 }, false},
		{"smoothing above 1", func(c *Config) { c.Smoothing = 1.5 }, false},
		{"zero fps", func(c *Config) { c.FPS = 0 }, false},
		{"sub-second poll", func(c *Config) { c.PollInterval = 100 * time.Millisecond }, false},
		{"unknown scene", func(c *Config) { c.Scene = "volcano" }, false},
		{"pulse scene", func(c *Config) { c.Scene = "pulse" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nervescope.yaml")

	cfg := DefaultConfig()
	cfg.Scene = "fracture"
	cfg.Seed = 42
	cfg.PollInterval = 30 * time.Second

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Scene != "fracture" || loaded.Seed != 42 || loaded.PollInterval != 30*time.Second {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("scene: clock\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scene != "clock" {
		t.Errorf("scene = %q, want clock", cfg.Scene)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Error("unset fields should keep defaults")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scene: volcano\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation failure for unknown scene")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
