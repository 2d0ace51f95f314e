package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint     = "https://nerve.ravlen.dev/api/v1/risk"
	DefaultPollInterval = 60 * time.Second
	DefaultFetchTimeout = 8 * time.Second
	DefaultSmoothing    = 0.02
	DefaultFPS          = 60
	DefaultWidth        = 1280
	DefaultHeight       = 720
	DefaultScene        = "ocean"
)

// Config is the file-level configuration. CLI flags override these values.
type Config struct {
	Endpoint     string        `yaml:"endpoint"`
	PollInterval time.Duration `yaml:"poll_interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Smoothing    float64       `yaml:"smoothing"`
	Scene        string        `yaml:"scene"`
	FPS          int           `yaml:"fps"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Seed         int64         `yaml:"seed"`
	Verbose      bool          `yaml:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		Endpoint:     DefaultEndpoint,
		PollInterval: DefaultPollInterval,
		FetchTimeout: DefaultFetchTimeout,
		Smoothing:    DefaultSmoothing,
		Scene:        DefaultScene,
		FPS:          DefaultFPS,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
	}
}

// Validate rejects values the render loop cannot work with.
func (c *Config) Validate() error {
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing must be in (0, 1], got %v", c.Smoothing)
	}
	if c.FPS < 1 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s, got %v", c.PollInterval)
	}
	switch c.Scene {
	case "ocean", "clock", "fracture", "pulse":
	default:
		return fmt.Errorf("unknown scene %q", c.Scene)
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
