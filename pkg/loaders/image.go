package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrUnsupportedFormat is returned when an output file extension has no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major, normalized RGB in [0, 1]
}

// LoadImage loads a PNG, JPEG, GIF, BMP, TIFF or WebP image and converts it
// to a Vec3 color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return data, nil
}

// DecodeImage decodes an image stream (format detected from its header)
func DecodeImage(r io.Reader) (*ImageData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	core.Logger().Debug("image decoded", "format", format, "bounds", img.Bounds())

	return FromImage(img), nil
}

// FromImage converts any image.Image into normalized RGB colors. Alpha is
// ignored: colors are un-premultiplied first.
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Normalize to NRGBA so every source format reads the same way
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Bounds().Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+3]
			pixels[y*width+x] = core.NewVec3(
				float64(p[0])/255.0,
				float64(p[1])/255.0,
				float64(p[2])/255.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// SaveImage writes img to filename, choosing the encoder from the extension:
// .png, .jpg/.jpeg, .gif, .bmp, .tif/.tiff
func SaveImage(filename string, img image.Image) error {
	encode, err := encoderFor(filename)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

// EncodeImage writes img to w in the format named by ext, given with or
// without the leading dot
func EncodeImage(w io.Writer, ext string, img image.Image) error {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	encode, err := encoderFor(ext)
	if err != nil {
		return err
	}
	return encode(w, img)
}

// encoderFor selects an image encoder by file extension
func encoderFor(filename string) (func(io.Writer, image.Image) error, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		}, nil
	case ".gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Resize scales img to width x height with Catmull-Rom filtering
func Resize(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
