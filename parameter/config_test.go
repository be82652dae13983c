package parameter

import (
	"errors"
	"log/slog"
	"math"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
	if cfg.Bounded() {
		t.Error("default grid should be unbounded")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HITGRID_CHUNK_WIDTH", "32")
	t.Setenv("HITGRID_EXTENT_COLS", "10")
	t.Setenv("HITGRID_EXTENT_ROWS", "8")
	t.Setenv("HITGRID_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ChunkWidth != 32 {
		t.Errorf("ChunkWidth = %v, want 32", cfg.ChunkWidth)
	}
	if cfg.ChunkHeight != DefaultChunkHeight {
		t.Errorf("ChunkHeight = %v, want %v", cfg.ChunkHeight, DefaultChunkHeight)
	}
	if !cfg.Bounded() {
		t.Error("expected bounded grid with both extents set")
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	t.Setenv("HITGRID_CHUNK_WIDTH", "wide")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric chunk width")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bounded", func(c *Config) { c.ExtentCols, c.ExtentRows = 10, 8 }, true},
		{"zero width", func(c *Config) { c.ChunkWidth = 0 }, false},
		{"negative height", func(c *Config) { c.ChunkHeight = -4 }, false},
		{"infinite width", func(c *Config) { c.ChunkWidth = math.Inf(1) }, false},
		{"nan height", func(c *Config) { c.ChunkHeight = math.NaN() }, false},
		{"negative extent", func(c *Config) { c.ExtentRows = -1 }, false},
		{"no workers", func(c *Config) { c.BenchWorkers = 0 }, false},
		{"negative steps", func(c *Config) { c.BenchSteps = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HITGRID_CHUNK_WIDTH", "0")
	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() err = %v, want ErrInvalidConfig", err)
	}
}
