package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about one render pass
type RenderStats struct {
	PassNumber      int
	TotalTiles      int           // Tiles in the image
	CompletedTiles  int           // Tiles written to the pixel buffer
	TotalPixels     int           // Pixels in the image
	RenderedPixels  int           // Pixels written to the pixel buffer
	SamplesPerPixel int           // Primary rays per pixel
	Workers         int           // Parallel workers used
	Duration        time.Duration // Wall time of the pass
	Canceled        bool          // The pass stopped before every tile was written

	AverageLuminance float64 // Mean luminance of the finished image, zero for canceled passes
}

// Complete reports whether every tile of the pass was written
func (s RenderStats) Complete() bool {
	return s.CompletedTiles == s.TotalTiles
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image,
// with channels normalized to [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
		}
	}

	return total / float64(pixels)
}
