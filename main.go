package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	Scene       string
	Width       int
	Height      int
	Samples     int
	Depth       int
	Workers     int
	TileSize    int
	Output      string
	Texture     string
	DumpTexture string
	LogLevel    slog.Level
	ListScenes  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses the command line into options
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var logLevel string

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Scene, "scene", "default", "Preset scene to render: "+sceneIDs())
	fs.IntVar(&opts.Width, "width", 640, "Image width in pixels")
	fs.IntVar(&opts.Height, "height", 480, "Image height in pixels")
	fs.IntVar(&opts.Samples, "samples", 1, "Supersamples per pixel axis (n gives n*n rays per pixel)")
	fs.IntVar(&opts.Depth, "depth", scene.DefaultMaxDepth, "Maximum recursion depth")
	fs.IntVar(&opts.Workers, "workers", 0, "Render workers (0 uses every CPU)")
	fs.IntVar(&opts.TileSize, "tile", 20, "Tile size in pixels")
	fs.StringVar(&opts.Output, "output", "", "Output file; the extension selects the format (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&opts.Texture, "texture", "", "Image file used by scenes with a diffuse texture")
	fs.StringVar(&opts.DumpTexture, "dump-texture", "", "Write the mipmap pyramid of -texture (or a checkerboard) to this file and exit")
	fs.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.BoolVar(&opts.ListScenes, "list", false, "List the preset scenes and exit")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Whitted Raytracer")
		fmt.Fprintln(stderr, "Usage: raytracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if err := opts.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return opts, fmt.Errorf("invalid log level %q", logLevel)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return opts, fmt.Errorf("image size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Depth < 1 {
		return opts, fmt.Errorf("depth must be at least 1, got %d", opts.Depth)
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	core.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.LogLevel})))
	logger := core.Logger()

	if opts.ListScenes {
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(stdout, "  %-10s %s\n", info.ID, info.Description)
		}
		return nil
	}

	if opts.DumpTexture != "" {
		return dumpTexture(opts.Texture, opts.DumpTexture)
	}

	selectedScene, camera, err := scene.NewPresetScene(opts.Scene, scene.Options{TexturePath: opts.Texture})
	if err != nil {
		return err
	}
	selectedScene.MaxDepth = opts.Depth
	camera.SetAspectRatio(float64(opts.Width) / float64(opts.Height))

	config := renderer.MergeConfig(renderer.DefaultConfig(), renderer.Config{
		TileSize:       opts.TileSize,
		SamplesPerAxis: opts.Samples,
		NumWorkers:     opts.Workers,
	})
	raytracer, err := renderer.NewRenderer(selectedScene, opts.Width, opts.Height, config)
	if err != nil {
		return err
	}

	logger.Info("rendering", "scene", opts.Scene, "width", opts.Width, "height", opts.Height,
		"primitives", selectedScene.GetPrimitiveCount(), "lights", selectedScene.GetLightCount())

	buffer, stats := raytracer.Render(ctx, camera)
	if stats.Canceled {
		return fmt.Errorf("render interrupted after %d of %d tiles", stats.CompletedTiles, stats.TotalTiles)
	}

	filename := opts.Output
	if filename == "" {
		outputDir := filepath.Join("output", opts.Scene)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := loaders.SaveImage(filename, buffer.Image()); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Render completed in %v (%d rays per pixel, %d workers)\n",
		stats.Duration, stats.SamplesPerPixel, stats.Workers)
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)
	return nil
}

// dumpTexture writes the packed mipmap pyramid of a texture to filename
func dumpTexture(texturePath, filename string) error {
	var texture *material.Texture
	var err error
	if texturePath != "" {
		texture, err = material.NewTextureFromImage(texturePath)
	} else {
		texture, err = material.NewCheckerboardTexture(8, 8, 32, core.White, core.NewVec3(0.1, 0.1, 0.1))
	}
	if err != nil {
		return err
	}

	logger := core.Logger()
	logger.Info("writing texture pyramid", "file", filename, "levels", texture.Levels(),
		"width", texture.PackedWidth(), "height", texture.PackedHeight())
	center := core.NewVec2(0.5, 0.5)
	for level := 0; level < texture.Levels(); level++ {
		window := texture.LevelWindow(level)
		logger.Debug("mip level", "level", level, "x", window.XStart, "y", window.YStart,
			"width", window.Width(), "height", window.Height(),
			"center", texture.SampleLevel(center, core.NewVec2(1, 1), level))
	}
	return loaders.SaveImage(filename, texture.Image())
}

// sceneIDs returns the preset scene identifiers as a comma separated list
func sceneIDs() string {
	var ids []string
	for _, info := range scene.ListScenes() {
		ids = append(ids, info.ID)
	}
	return strings.Join(ids, ", ")
}
