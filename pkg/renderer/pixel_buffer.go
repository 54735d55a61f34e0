package renderer

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// writtenBit marks pixels that have been committed by a render pass
const writtenBit = 1 << 24

// PixelBuffer is an 8-bit RGB image shared between render workers and
// readers. Each pixel is a single 32-bit word holding all three channels, so
// a reader never observes a partially written pixel. Workers publish whole
// tiles through CommitTile.
type PixelBuffer struct {
	width, height int
	pixels        []atomic.Uint32 // written bit | r<<16 | g<<8 | b

	commitMu       sync.Mutex // Orders tile commits against cancellation
	completedTiles int
}

// NewPixelBuffer creates an empty (all unwritten) buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		pixels: make([]atomic.Uint32, width*height),
	}
}

// Width returns the buffer width in pixels
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels
func (b *PixelBuffer) Height() int { return b.height }

// CommitTile writes the colors of a finished tile, in row-major order, if ctx
// has not been canceled. It reports whether the tile was written. Once ctx is
// canceled and any commit in progress has returned, the buffer no longer
// changes.
func (b *PixelBuffer) CommitTile(ctx context.Context, bounds image.Rectangle, colors []core.Vec3) bool {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()

	if ctx.Err() != nil {
		return false
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := y * b.width
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			b.pixels[row+x].Store(packRGB(colors[i]))
			i++
		}
	}

	b.completedTiles++
	return true
}

// CompletedTiles returns the number of tiles committed so far
func (b *PixelBuffer) CompletedTiles() int {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()
	return b.completedTiles
}

// At returns the color of a pixel and whether it has been written
func (b *PixelBuffer) At(x, y int) (color.RGBA, bool) {
	v := b.pixels[y*b.width+x].Load()
	return unpackRGB(v), v&writtenBit != 0
}

// Bytes returns the image as tightly packed RGB24 rows. Unwritten pixels are black.
func (b *PixelBuffer) Bytes() []byte {
	out := make([]byte, 0, len(b.pixels)*3)
	for i := range b.pixels {
		v := b.pixels[i].Load()
		out = append(out, byte(v>>16), byte(v>>8), byte(v))
	}
	return out
}

// Image returns an opaque snapshot of the buffer. Unwritten pixels are black.
func (b *PixelBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c, _ := b.At(x, y)
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// packRGB converts a display color in [0,1] to a written pixel word
func packRGB(c core.Vec3) uint32 {
	c = c.Clamp(0, 1)
	r := uint32(255 * c.X)
	g := uint32(255 * c.Y)
	bl := uint32(255 * c.Z)
	return writtenBit | r<<16 | g<<8 | bl
}

func unpackRGB(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
