package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fixedloop"
	"github.com/comalice/fixedloop/internal/logging"
)

// Config holds configuration for the fixedloop host.
// Fields may be loaded from a YAML file and overridden by command-line flags.
type Config struct {
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json

	// Loop pacing
	TargetFPS   uint32        `yaml:"target_fps"`
	Capped      bool          `yaml:"capped"`
	Wait        string        `yaml:"wait"`         // spin, hybrid
	HybridSlack time.Duration `yaml:"hybrid_slack"` // eg. "2ms"

	// Demo run limits; 0 runs until interrupted.
	Frames   uint64 `yaml:"frames"`
	Restarts uint32 `yaml:"restarts"`

	// Telemetry and control; empty disables.
	DBPath     string `yaml:"db_path"`
	HTTPAddr   string `yaml:"http_addr"`
	SummaryDir string `yaml:"summary_dir"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		TargetFPS:   fixedloop.DefaultTargetFPS,
		Capped:      fixedloop.DefaultCappedFPS,
		Wait:        fixedloop.WaitSpin.String(),
		HybridSlack: fixedloop.DefaultHybridSlack,
	}
}

// Validate normalizes values to the ranges the loop accepts and rejects
// values it cannot interpret.
func (c *Config) Validate() error {
	if c.TargetFPS == 0 {
		c.TargetFPS = 1
	}
	if c.HybridSlack < 0 {
		return fmt.Errorf("hybrid_slack must not be negative, got %v", c.HybridSlack)
	}
	if _, err := fixedloop.ParseWaitStrategy(c.Wait); err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("log_format: %w", err)
	}
	return nil
}

// LoopOptions converts the pacing fields to loop options. Validate must have
// succeeded first.
func (c *Config) LoopOptions() []fixedloop.Option {
	wait, _ := fixedloop.ParseWaitStrategy(c.Wait)
	return []fixedloop.Option{
		fixedloop.WithTargetFPS(c.TargetFPS),
		fixedloop.WithCappedFPS(c.Capped),
		fixedloop.WithWaitStrategy(wait),
		fixedloop.WithHybridSlack(c.HybridSlack),
	}
}

// Load reads configuration from the YAML file at path over the defaults.
// A missing file yields DefaultConfig().
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path in YAML format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
