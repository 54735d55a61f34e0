package server

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// handleRender renders one complete image and returns it encoded in the
// requested format. The render stops if the client disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseViewRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}
	contentType, ok := contentTypes[format]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported format: %s", format))
		return
	}

	// thumb is the width of a downscaled copy; zero returns the full image
	thumbWidth, err := parseIntParam(r.URL.Query(), "thumb", 0, 0, req.Width)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, camera, err := s.buildView(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := renderer.MergeConfig(renderer.DefaultConfig(), renderer.Config{SamplesPerAxis: req.SamplesPerAxis})
	raytracer, err := renderer.NewRenderer(sceneObj, req.Width, req.Height, config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	startTime := time.Now()
	buffer, stats := raytracer.Render(r.Context(), camera)
	if stats.Canceled {
		core.Logger().Info("render request canceled", "scene", req.Scene, "completed_tiles", stats.CompletedTiles)
		return
	}

	var img image.Image = buffer.Image()
	if thumbWidth > 0 {
		thumbHeight := max(1, (req.Height*thumbWidth+req.Width/2)/req.Width)
		img = loaders.Resize(img, thumbWidth, thumbHeight)
	}

	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, format, img); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(time.Since(startTime).Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
