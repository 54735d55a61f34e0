package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	defaults := server.DefaultConfig()

	// Parse command line flags
	port := flag.Int("port", defaults.Port, "Port to serve on")
	encoding := flag.String("encoding", defaults.FrameEncoding, "Default preview frame encoding: png, zstd or snappy")
	maxWidth := flag.Int("max-width", defaults.MaxWidth, "Largest image width clients may request")
	maxHeight := flag.Int("max-height", defaults.MaxHeight, "Largest image height clients may request")
	static := flag.String("static", defaults.StaticDir, "Directory of static files")
	texture := flag.String("texture", "", "Image file used by scenes with a diffuse texture")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	logger := core.Logger()

	webServer, err := server.NewServer(server.Config{
		Port:          *port,
		FrameEncoding: *encoding,
		MaxWidth:      *maxWidth,
		MaxHeight:     *maxHeight,
		StaticDir:     *static,
		TexturePath:   *texture,
	})
	if err != nil {
		logger.Error("invalid server configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("Whitted Raytracer Web Server", "url", fmt.Sprintf("http://localhost:%d", *port))

	if err := webServer.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
