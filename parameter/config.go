package parameter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every configuration variable, e.g. HITGRID_CHUNK_WIDTH
const EnvPrefix = "HITGRID"

// ErrInvalidConfig wraps every Validate failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime-tunable settings for a simulation container and the commands
type Config struct {
	ChunkWidth  float64 `envconfig:"CHUNK_WIDTH" default:"64"`
	ChunkHeight float64 `envconfig:"CHUNK_HEIGHT" default:"64"`

	// ExtentCols and ExtentRows bound the grid to [0,cols)x[0,rows) when both are positive
	ExtentCols int `envconfig:"EXTENT_COLS" default:"0"`
	ExtentRows int `envconfig:"EXTENT_ROWS" default:"0"`

	// EvictEmpty drops chunks with no members at each step boundary
	EvictEmpty bool `envconfig:"EVICT_EMPTY" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFile receives logs from full-screen commands; empty discards them there
	LogFile string `envconfig:"LOG_FILE"`
	Audio   bool   `envconfig:"AUDIO" default:"true"`

	BenchWorkers int   `envconfig:"BENCH_WORKERS" default:"4"`
	BenchObjects int   `envconfig:"BENCH_OBJECTS" default:"200"`
	BenchSteps   int   `envconfig:"BENCH_STEPS" default:"500"`
	BenchSeed    int64 `envconfig:"BENCH_SEED" default:"1"`
}

// Default returns the configuration used when no environment overrides exist
func Default() Config {
	return Config{
		ChunkWidth:   DefaultChunkWidth,
		ChunkHeight:  DefaultChunkHeight,
		LogLevel:     "info",
		Audio:        true,
		BenchWorkers: 4,
		BenchObjects: 200,
		BenchSteps:   500,
		BenchSeed:    1,
	}
}

// Load reads the configuration from HITGRID_* environment variables
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings no container or command can run with
func (c Config) Validate() error {
	switch {
	case !(c.ChunkWidth > 0) || !(c.ChunkHeight > 0) || math.IsInf(c.ChunkWidth, 0) || math.IsInf(c.ChunkHeight, 0):
		return fmt.Errorf("%w: chunk size %vx%v must be positive and finite", ErrInvalidConfig, c.ChunkWidth, c.ChunkHeight)
	case c.ExtentCols < 0 || c.ExtentRows < 0:
		return fmt.Errorf("%w: negative extent %dx%d", ErrInvalidConfig, c.ExtentCols, c.ExtentRows)
	case c.BenchWorkers < 1:
		return fmt.Errorf("%w: bench workers %d", ErrInvalidConfig, c.BenchWorkers)
	case c.BenchObjects < 0 || c.BenchSteps < 0:
		return fmt.Errorf("%w: negative bench size", ErrInvalidConfig)
	}
	return nil
}

// Bounded reports whether the grid has a fixed extent
func (c Config) Bounded() bool {
	return c.ExtentCols > 0 && c.ExtentRows > 0
}

// Level maps LogLevel onto slog levels, unknown values fall back to info
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a text logger at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
