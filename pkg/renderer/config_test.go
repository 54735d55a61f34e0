package renderer

import (
	"errors"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.TileSize != 20 || config.SamplesPerAxis != 1 || config.NumWorkers != runtime.NumCPU() {
		t.Errorf("Unexpected defaults: %+v", config)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		valid  bool
	}{
		{"zero workers means cpu count", Config{TileSize: 8, SamplesPerAxis: 2, NumWorkers: 0}, true},
		{"zero tile size", Config{TileSize: 0, SamplesPerAxis: 1, NumWorkers: 1}, false},
		{"negative samples", Config{TileSize: 8, SamplesPerAxis: -1, NumWorkers: 1}, false},
		{"negative workers", Config{TileSize: 8, SamplesPerAxis: 1, NumWorkers: -2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMergeConfig(t *testing.T) {
	base := Config{TileSize: 20, SamplesPerAxis: 1, NumWorkers: 4}

	merged := MergeConfig(base, Config{SamplesPerAxis: 3})
	expected := Config{TileSize: 20, SamplesPerAxis: 3, NumWorkers: 4}
	if merged != expected {
		t.Errorf("Expected %+v, got %+v", expected, merged)
	}

	if merged := MergeConfig(base, Config{}); merged != base {
		t.Errorf("Expected empty override to keep base, got %+v", merged)
	}
}

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		tileSize       int
		expectedTiles  int
		lastTileWidth  int
		lastTileHeight int
	}{
		{"exact fit", 40, 20, 20, 2, 20, 20},
		{"partial edge tiles", 45, 23, 20, 6, 5, 3},
		{"single tile", 7, 5, 20, 1, 7, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			last := tiles[len(tiles)-1]
			if last.Bounds.Dx() != tt.lastTileWidth || last.Bounds.Dy() != tt.lastTileHeight {
				t.Errorf("Expected last tile %dx%d, got %dx%d", tt.lastTileWidth, tt.lastTileHeight, last.Bounds.Dx(), last.Bounds.Dy())
			}

			// Tiles cover every pixel exactly once
			covered := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}
			for i, count := range covered {
				if count != 1 {
					t.Fatalf("Pixel %d covered %d times", i, count)
				}
			}
		})
	}
}
