package material

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/bits"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// Texture is a 2D color image with a precomputed mipmap pyramid.
//
// All levels live in one packed buffer of dimension*(dimension*3/2) texels,
// where dimension is the next power of two of max(width, height). Level 0
// occupies the top-left corner; every further level is stacked in the right
// hand column of width dimension/2:
//
//	+-----------------+--------+
//	|                 | lvl 1  |
//	|     level 0     +----+---+
//	|                 | 2  |
//	|                 +--+-+
//	|                 |3 |
//	+-----------------+--+
//
// A Texture is immutable after construction and safe for concurrent reads.
type Texture struct {
	width     int
	height    int
	dimension int         // Power-of-two side of the level 0 region
	fullWidth int         // dimension + dimension/2
	levels    int         // Number of mip levels including level 0
	pixels    []core.Vec3 // Row-major: pixels[y*fullWidth + x]
}

// Window is the rectangle of the packed buffer that holds one mip level.
// Start is inclusive, end is exclusive.
type Window struct {
	XStart, XEnd int
	YStart, YEnd int
}

// Width returns the window width in texels
func (w Window) Width() int { return w.XEnd - w.XStart }

// Height returns the window height in texels
func (w Window) Height() int { return w.YEnd - w.YStart }

// newTexture allocates an empty packed buffer for a width x height image
func newTexture(width, height int) *Texture {
	dimension := nextPow2(max(width, height))
	return &Texture{
		width:     width,
		height:    height,
		dimension: dimension,
		fullWidth: dimension + dimension/2,
		levels:    1 + bits.TrailingZeros(uint(dimension)),
		pixels:    make([]core.Vec3, dimension*(dimension+dimension/2)),
	}
}

// NewTexture creates a texture from a row-major width x height color buffer
// and builds its mipmap pyramid.
func NewTexture(width, height int, pixels []core.Vec3) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("texture %dx%d needs %d pixels, got %d", width, height, width*height, len(pixels))
	}

	t := newTexture(width, height)

	// Copy the source image into level 0
	for y := 0; y < height; y++ {
		copy(t.pixels[y*t.fullWidth:y*t.fullWidth+width], pixels[y*width:(y+1)*width])
	}

	t.createMipmap()
	return t, nil
}

// NewTextureFromImage loads an image file and creates a texture from it
func NewTextureFromImage(filename string) (*Texture, error) {
	data, err := loaders.LoadImage(filename)
	if err != nil {
		return nil, err
	}

	texture, err := NewTexture(data.Width, data.Height, data.Pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture from %s: %w", filename, err)
	}

	core.Logger().Debug("texture loaded",
		"file", filename, "width", data.Width, "height", data.Height, "levels", texture.levels)
	return texture, nil
}

// Width returns the width of the level 0 image
func (t *Texture) Width() int { return t.width }

// Height returns the height of the level 0 image
func (t *Texture) Height() int { return t.height }

// Levels returns the number of mip levels, including level 0
func (t *Texture) Levels() int { return t.levels }

// createMipmap derives every level from the one above it
func (t *Texture) createMipmap() {
	for level := 1; level < t.levels; level++ {
		t.createLevel(level)
	}
}

// LevelWindow returns the region of the packed buffer that holds the given
// mip level. Level sizes halve (rounding down, minimum one texel) until 1x1.
func (t *Texture) LevelWindow(level int) Window {
	window := Window{XStart: 0, XEnd: t.width, YStart: 0, YEnd: t.height}
	for k := 1; k <= level; k++ {
		yStart := t.dimension - t.dimension>>(k-1)
		window = Window{
			XStart: t.dimension,
			XEnd:   t.dimension + max(1, window.Width()/2),
			YStart: yStart,
			YEnd:   yStart + max(1, window.Height()/2),
		}
	}
	return window
}

// createLevel fills a mip level by 2x2 box filtering the previous level.
// Neighbours are clamped to the previous window so odd-sized levels never
// read outside their own region.
func (t *Texture) createLevel(level int) {
	prev := t.LevelWindow(level - 1)
	curr := t.LevelWindow(level)

	for v := 0; v < curr.Height(); v++ {
		y := curr.YStart + v
		py0 := prev.YStart + min(2*v, prev.Height()-1)
		py1 := prev.YStart + min(2*v+1, prev.Height()-1)

		for h := 0; h < curr.Width(); h++ {
			x := curr.XStart + h
			px0 := prev.XStart + min(2*h, prev.Width()-1)
			px1 := prev.XStart + min(2*h+1, prev.Width()-1)

			sum := t.pixels[py0*t.fullWidth+px0].
				Add(t.pixels[py0*t.fullWidth+px1]).
				Add(t.pixels[py1*t.fullWidth+px0]).
				Add(t.pixels[py1*t.fullWidth+px1])
			t.pixels[y*t.fullWidth+x] = sum.Multiply(0.25)
		}
	}
}

// Color returns the nearest level 0 texel for the tiled UV coordinates
func (t *Texture) Color(uv, tile core.Vec2) core.Vec3 {
	px, py := t.texelCoordinates(uv, tile, t.width, t.height)
	x := int(px) % t.width
	y := int(py) % t.height
	return t.pixels[y*t.fullWidth+x]
}

// BilinearFilteredColor returns the bilinear interpolation of the four level 0
// texels surrounding the tiled UV coordinates, wrapping at the texture edges.
func (t *Texture) BilinearFilteredColor(uv, tile core.Vec2) core.Vec3 {
	return t.bilinear(t.LevelWindow(0), uv, tile)
}

// SampleLevel returns a bilinear filtered sample from the given mip level.
// Levels outside [0, Levels()) are clamped.
func (t *Texture) SampleLevel(uv, tile core.Vec2, level int) core.Vec3 {
	level = max(0, min(t.levels-1, level))
	return t.bilinear(t.LevelWindow(level), uv, tile)
}

// bilinear filters within a single mip window
func (t *Texture) bilinear(window Window, uv, tile core.Vec2) core.Vec3 {
	w, h := window.Width(), window.Height()
	px, py := t.texelCoordinates(uv, tile, w, h)

	px0 := int(px) % w
	px1 := (px0 + 1) % w
	py0 := int(py) % h
	py1 := (py0 + 1) % h

	row0 := (window.YStart + py0) * t.fullWidth
	row1 := (window.YStart + py1) * t.fullWidth

	c00 := t.pixels[row0+window.XStart+px0]
	c10 := t.pixels[row0+window.XStart+px1]
	c01 := t.pixels[row1+window.XStart+px0]
	c11 := t.pixels[row1+window.XStart+px1]

	tx := px - math.Floor(px)
	ty := py - math.Floor(py)
	return bilinearInterpolate(tx, ty, c00, c10, c01, c11)
}

// texelCoordinates applies tiling, wraps to [0, 1) and scales to texel space
func (t *Texture) texelCoordinates(uv, tile core.Vec2, width, height int) (float64, float64) {
	u := uv.X * tile.X
	v := uv.Y * tile.Y

	x := u - math.Floor(u)
	y := v - math.Floor(v)

	return x * float64(width), y * float64(height)
}

// bilinearInterpolate blends four corner colors
//
//	c00 ---- a ---- c10
//	 |       |       |
//	 |  ty   p       |
//	 |       |       |
//	c01 ---- b ---- c11
//	    tx
func bilinearInterpolate(tx, ty float64, c00, c10, c01, c11 core.Vec3) core.Vec3 {
	a := c00.Multiply(1 - tx).Add(c10.Multiply(tx))
	b := c01.Multiply(1 - tx).Add(c11.Multiply(tx))
	return a.Multiply(1 - ty).Add(b.Multiply(ty))
}

// PackedWidth returns the row stride of the packed buffer
func (t *Texture) PackedWidth() int { return t.fullWidth }

// PackedHeight returns the number of rows of the packed buffer
func (t *Texture) PackedHeight() int { return t.dimension }

// Image renders the whole packed pyramid as an 8-bit image, useful for
// inspecting the generated mip levels.
func (t *Texture) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.fullWidth, t.dimension))
	for y := 0; y < t.dimension; y++ {
		for x := 0; x < t.fullWidth; x++ {
			c := t.pixels[y*t.fullWidth+x].Clamp(0, 1)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 * c.X),
				G: uint8(255 * c.Y),
				B: uint8(255 * c.Z),
				A: 255,
			})
		}
	}
	return img
}

// nextPow2 returns the smallest power of two >= n (n >= 1)
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
