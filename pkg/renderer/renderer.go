package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Renderer renders a scene into pixel buffers tile by tile on a pool of
// workers. The scene must not be modified while a pass is running.
type Renderer struct {
	scene         *scene.Scene
	width, height int
	config        Config
	tiles         []*Tile
}

// NewRenderer creates a renderer for width x height images of a scene
func NewRenderer(s *scene.Scene, width, height int, config Config) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}

	return &Renderer{
		scene:  s,
		width:  width,
		height: height,
		config: config,
		tiles:  NewTileGrid(width, height, config.TileSize),
	}, nil
}

// Width returns the image width in pixels
func (r *Renderer) Width() int { return r.width }

// Height returns the image height in pixels
func (r *Renderer) Height() int { return r.height }

// Tiles returns the tile grid
func (r *Renderer) Tiles() []*Tile { return r.tiles }

// Render renders one complete pass into a new pixel buffer
func (r *Renderer) Render(ctx context.Context, camera *geometry.PerspectiveCamera) (*PixelBuffer, RenderStats) {
	buffer := NewPixelBuffer(r.width, r.height)
	stats := r.RenderPass(ctx, camera, buffer, 1, nil)
	return buffer, stats
}

// RenderPass renders every tile of the image into buffer. Canceling ctx stops
// the pass cooperatively: tiles that were not committed before cancellation
// are left untouched. onTile, if not nil, is called from worker goroutines
// after each committed tile.
func (r *Renderer) RenderPass(ctx context.Context, camera *geometry.PerspectiveCamera, buffer *PixelBuffer, passNumber int, onTile func(TileCompletion)) RenderStats {
	startTime := time.Now()
	numWorkers := r.config.workers()
	logger := core.Logger()

	logger.Info("render pass started",
		"pass", passNumber, "width", r.width, "height", r.height,
		"tiles", len(r.tiles), "workers", numWorkers)

	tileRenderer := NewTileRenderer(r.scene, camera, r.width, r.height, r.config.SamplesPerAxis)
	pool := NewWorkerPool(ctx, tileRenderer, buffer, numWorkers, len(r.tiles), passNumber, onTile)
	pool.Start()

	for i, tile := range r.tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}
	pool.Stop()

	stats := RenderStats{
		PassNumber:      passNumber,
		TotalTiles:      len(r.tiles),
		TotalPixels:     r.width * r.height,
		SamplesPerPixel: r.config.SamplesPerAxis * r.config.SamplesPerAxis,
		Workers:         pool.GetNumWorkers(),
	}
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Committed {
			stats.CompletedTiles++
			stats.RenderedPixels += result.Pixels
		}
	}

	stats.Duration = time.Since(startTime)
	stats.Canceled = !stats.Complete()

	if stats.Canceled {
		logger.Info("render pass canceled",
			"pass", passNumber, "completed_tiles", stats.CompletedTiles,
			"total_tiles", stats.TotalTiles, "duration", stats.Duration)
	} else {
		stats.AverageLuminance = CalculateAverageLuminance(buffer.Image())
		logger.Info("render pass completed", "pass", passNumber, "duration", stats.Duration,
			"average_luminance", stats.AverageLuminance)
	}

	return stats
}
