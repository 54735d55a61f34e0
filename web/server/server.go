package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config holds the web server settings
type Config struct {
	Port          int    // Port to listen on
	FrameEncoding string // Default codec for preview frames: png, zstd or snappy
	MaxWidth      int    // Largest image width a client may request
	MaxHeight     int    // Largest image height a client may request
	StaticDir     string // Directory served at /
	TexturePath   string // Optional texture for scenes that use one
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		Port:          8080,
		FrameEncoding: "png",
		MaxWidth:      1920,
		MaxHeight:     1080,
		StaticDir:     "static/",
	}
}

// Server handles web requests for the raytracer
type Server struct {
	config Config
	mux    *http.ServeMux
}

// NewServer creates a new web server. An unknown frame encoding is an error.
func NewServer(config Config) (*Server, error) {
	if _, err := NewFrameCodec(config.FrameEncoding); err != nil {
		return nil, err
	}
	if config.MaxWidth <= 0 || config.MaxHeight <= 0 {
		return nil, fmt.Errorf("max image size must be positive, got %dx%d", config.MaxWidth, config.MaxHeight)
	}

	s := &Server{config: config, mux: http.NewServeMux()}

	// Static files
	s.mux.Handle("/", http.FileServer(http.Dir(config.StaticDir)))

	// API endpoints
	s.mux.HandleFunc("/ws", s.handlePreview)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)

	return s, nil
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	core.Logger().Info("starting web server", "addr", "http://localhost"+addr)
	return http.ListenAndServe(addr, s.mux)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the preset scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// viewRequest is the scene and image size shared by the render, inspect and
// preview endpoints
type viewRequest struct {
	Scene          string
	Width          int
	Height         int
	SamplesPerAxis int
	MaxDepth       int
	Exposure       float64
	Gamma          float64
}

// parseViewRequest parses and validates the common query parameters
func (s *Server) parseViewRequest(values url.Values) (viewRequest, error) {
	req := viewRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 640, 1, s.config.MaxWidth); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", 480, 1, s.config.MaxHeight); err != nil {
		return req, err
	}
	if req.SamplesPerAxis, err = parseIntParam(values, "samples", 1, 1, 8); err != nil {
		return req, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", scene.DefaultMaxDepth, 1, 32); err != nil {
		return req, err
	}
	if req.Exposure, err = parseFloatParam(values, "exposure", 1.0, 0.01, 100); err != nil {
		return req, err
	}
	if req.Gamma, err = parseFloatParam(values, "gamma", 2.2, 0.1, 10); err != nil {
		return req, err
	}

	return req, nil
}

// buildView creates the preset scene and camera for a request
func (s *Server) buildView(req viewRequest) (*scene.Scene, *geometry.PerspectiveCamera, error) {
	sceneObj, camera, err := scene.NewPresetScene(req.Scene, scene.Options{TexturePath: s.config.TexturePath})
	if err != nil {
		return nil, nil, err
	}
	sceneObj.MaxDepth = req.MaxDepth
	camera.Exposure = req.Exposure
	camera.Gamma = req.Gamma
	camera.SetAspectRatio(float64(req.Width) / float64(req.Height))
	return sceneObj, camera, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
