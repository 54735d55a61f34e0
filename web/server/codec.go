package server

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// FrameCodec encodes RGB24 frames for the preview stream
type FrameCodec interface {
	Name() string
	Encode(rgb []byte, width, height int) ([]byte, error)
	Decode(data []byte, width, height int) ([]byte, error)
}

// NewFrameCodec returns the codec registered under name
func NewFrameCodec(name string) (FrameCodec, error) {
	switch name {
	case "png":
		return pngCodec{}, nil
	case "zstd":
		return zstdCodec{}, nil
	case "snappy":
		return snappyCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown frame encoding %q", name)
	}
}

func checkFrameSize(n, width, height int) error {
	if n != width*height*3 {
		return fmt.Errorf("frame is %d bytes, expected %d for %dx%d RGB24", n, width*height*3, width, height)
	}
	return nil
}

type pngCodec struct{}

func (pngCodec) Name() string { return "png" }

func (pngCodec) Encode(rgb []byte, width, height int) ([]byte, error) {
	if err := checkFrameSize(len(rgb), width, height); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < len(rgb); i, j = i+3, j+4 {
		img.Pix[j] = rgb[i]
		img.Pix[j+1] = rgb[i+1]
		img.Pix[j+2] = rgb[i+2]
		img.Pix[j+3] = 255
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (pngCodec) Decode(data []byte, width, height int) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png frame: %w", err)
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("png frame is %dx%d, expected %dx%d", b.Dx(), b.Dy(), width, height)
	}

	rgb := make([]byte, 0, width*height*3)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rgb = append(rgb, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
	return rgb, nil
}

// The zstd encoder and decoder are safe for concurrent EncodeAll/DecodeAll
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

type zstdCodec struct{}

func (zstdCodec) Name() string { return "zstd" }

func (zstdCodec) Encode(rgb []byte, width, height int) ([]byte, error) {
	if err := checkFrameSize(len(rgb), width, height); err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(rgb, make([]byte, 0, len(rgb)/4)), nil
}

func (zstdCodec) Decode(data []byte, width, height int) ([]byte, error) {
	rgb, err := zstdDecoder.DecodeAll(data, make([]byte, 0, width*height*3))
	if err != nil {
		return nil, fmt.Errorf("decode zstd frame: %w", err)
	}
	return rgb, checkFrameSize(len(rgb), width, height)
}

type snappyCodec struct{}

func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Encode(rgb []byte, width, height int) ([]byte, error) {
	if err := checkFrameSize(len(rgb), width, height); err != nil {
		return nil, err
	}
	return snappy.Encode(nil, rgb), nil
}

func (snappyCodec) Decode(data []byte, width, height int) ([]byte, error) {
	rgb, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decode snappy frame: %w", err)
	}
	return rgb, checkFrameSize(len(rgb), width, height)
}
