package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/comalice/fixedloop"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixedloop.yaml")
	data := []byte("target_fps: 144\ncapped: false\nwait: hybrid\nhybrid_slack: 500us\nhttp_addr: \":9090\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetFPS != 144 || cfg.Capped || cfg.Wait != "hybrid" {
		t.Errorf("Pacing fields not loaded: %+v", cfg)
	}
	if cfg.HybridSlack != 500*time.Microsecond {
		t.Errorf("Expected 500us slack, got %v", cfg.HybridSlack)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("Expected :9090, got %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Unset fields should keep defaults, got log level %q", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		wantFPS uint32
	}{
		{"Defaults", func(*Config) {}, false, fixedloop.DefaultTargetFPS},
		{"ZeroFPS", func(c *Config) { c.TargetFPS = 0 }, false, 1},
		{"EmptyWait", func(c *Config) { c.Wait = "" }, false, fixedloop.DefaultTargetFPS},
		{"UnknownWait", func(c *Config) { c.Wait = "yield" }, true, 0},
		{"JSONLogs", func(c *Config) { c.LogFormat = "JSON" }, false, fixedloop.DefaultTargetFPS},
		{"UnknownLogFormat", func(c *Config) { c.LogFormat = "logfmt" }, true, 0},
		{"NegativeSlack", func(c *Config) { c.HybridSlack = -time.Millisecond }, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.TargetFPS != tt.wantFPS {
				t.Errorf("TargetFPS = %d, want %d", cfg.TargetFPS, tt.wantFPS)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("wait: sleep\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected an error for an unknown wait strategy")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.TargetFPS = 30
	cfg.Restarts = 2
	cfg.DBPath = "frames.db"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoopOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetFPS = 25
	cfg.Capped = false
	l := fixedloop.New(nil, cfg.LoopOptions()...)
	if l.GetTargetFPS() != 25 || l.GetCappedFPS() {
		t.Errorf("Options not applied: target %d capped %v", l.GetTargetFPS(), l.GetCappedFPS())
	}
}
