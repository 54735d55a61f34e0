package material

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NewCheckerboardTexture creates a rows x cols checkerboard of size x size
// texel squares alternating between color1 (top-left) and color2
func NewCheckerboardTexture(rows, cols, size int, color1, color2 core.Vec3) (*Texture, error) {
	if rows <= 0 || cols <= 0 || size <= 0 {
		return nil, fmt.Errorf("invalid checkerboard %dx%d with square size %d", rows, cols, size)
	}

	width := cols * size
	height := rows * size
	t := newTexture(width, height)

	for row := 0; row < rows; row++ {
		yStart := row * size
		for col := 0; col < cols; col++ {
			color := color2
			if (row+col)%2 == 0 {
				color = color1
			}

			xStart := col * size
			for y := yStart; y < yStart+size; y++ {
				for x := xStart; x < xStart+size; x++ {
					t.pixels[y*t.fullWidth+x] = color
				}
			}
		}
	}

	t.createMipmap()
	return t, nil
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors
// U maps to red channel, V maps to green channel
func NewUVDebugTexture(width, height int) (*Texture, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("uv debug texture needs at least 2x2 texels, got %dx%d", width, height)
	}

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(width-1)
			v := float64(y) / float64(height-1)
			pixels[y*width+x] = core.NewVec3(u, v, 0.0)
		}
	}

	return NewTexture(width, height, pixels)
}

// NewRippleNormalMap creates a tangent-space normal map of concentric
// ripples, encoded the usual way (RGB in [0,1], green pointing up in image
// space). Strength scales the slope of the ripples.
func NewRippleNormalMap(size int, frequency, strength float64) (*Texture, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid normal map size %d", size)
	}

	pixels := make([]core.Vec3, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Centered coordinates in [-1, 1]
			cx := 2*(float64(x)+0.5)/float64(size) - 1
			cy := 2*(float64(y)+0.5)/float64(size) - 1
			r := max(1e-6, math.Hypot(cx, cy))

			// Derivative of sin(frequency*r) along the radial direction.
			// Tangent-space Y points up, image Y points down.
			slope := strength * math.Cos(frequency*r)
			n := core.NewVec3(-slope*cx/r, slope*cy/r, 1).Normalize()

			pixels[y*size+x] = core.NewVec3((n.X+1)/2, (1-n.Y)/2, (n.Z+1)/2)
		}
	}

	return NewTexture(size, size, pixels)
}
