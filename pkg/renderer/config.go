package renderer

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidConfig is returned when a renderer configuration cannot be used
var ErrInvalidConfig = errors.New("invalid renderer config")

// Config contains configuration for tiled rendering
type Config struct {
	TileSize       int // Side of each square tile in pixels
	SamplesPerAxis int // Sub-pixel grid is SamplesPerAxis x SamplesPerAxis
	NumWorkers     int // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:       20,
		SamplesPerAxis: 1,
		NumWorkers:     runtime.NumCPU(),
	}
}

// MergeConfig returns base with every non-zero field of override applied
func MergeConfig(base, override Config) Config {
	result := base
	if override.TileSize != 0 {
		result.TileSize = override.TileSize
	}
	if override.SamplesPerAxis != 0 {
		result.SamplesPerAxis = override.SamplesPerAxis
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	return result
}

// Validate reports whether the configuration can be used for rendering
func (c Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	}
	if c.SamplesPerAxis <= 0 {
		return fmt.Errorf("%w: samples per axis must be positive, got %d", ErrInvalidConfig, c.SamplesPerAxis)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

// workers returns the effective number of workers
func (c Config) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}
