package renderer

import (
	"context"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// TileRenderer computes the pixel colors of individual tiles
type TileRenderer struct {
	scene          *scene.Scene
	camera         *geometry.PerspectiveCamera
	width, height  int
	samplesPerAxis int
}

// NewTileRenderer creates a new tile renderer for one camera view of a scene
func NewTileRenderer(s *scene.Scene, camera *geometry.PerspectiveCamera, width, height, samplesPerAxis int) *TileRenderer {
	return &TileRenderer{
		scene:          s,
		camera:         camera,
		width:          width,
		height:         height,
		samplesPerAxis: samplesPerAxis,
	}
}

// RenderTile renders the pixels of a tile in row-major order. Cancellation is
// checked between rows; the second result is false if the tile was abandoned.
func (tr *TileRenderer) RenderTile(ctx context.Context, tile *Tile) ([]core.Vec3, bool) {
	bounds := tile.Bounds
	colors := make([]core.Vec3, 0, bounds.Dx()*bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if ctx.Err() != nil {
			return nil, false
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			colors = append(colors, tr.scene.PixelColor(tr.camera, x, y, tr.width, tr.height, tr.samplesPerAxis))
		}
	}

	return colors, true
}
