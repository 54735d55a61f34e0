package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ClientMessage is a command sent by the preview client
type ClientMessage struct {
	Type   string     `json:"type"`             // "move", "lookAt", "render" or "stop"
	Move   [3]float64 `json:"move,omitempty"`   // Camera-space offset: right, up, forwards
	Target [3]float64 `json:"target,omitempty"` // World-space point for lookAt
}

// PreviewEvent is a JSON message sent to the preview client. A "frame" event
// is always followed by one binary message holding the encoded RGB24 frame.
type PreviewEvent struct {
	Type           string          `json:"type"` // "console", "tile", "frame", "canceled", "error"
	PassNumber     int             `json:"passNumber,omitempty"`
	TileNumber     int             `json:"tileNumber,omitempty"`
	TotalTiles     int             `json:"totalTiles,omitempty"`
	CompletedTiles int             `json:"completedTiles,omitempty"`
	Encoding       string          `json:"encoding,omitempty"`
	Width          int             `json:"width,omitempty"`
	Height         int             `json:"height,omitempty"`
	ElapsedMs      int64           `json:"elapsedMs,omitempty"`
	Console        *ConsoleMessage `json:"console,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// outgoing is one event, plus the binary frame for frame events
type outgoing struct {
	event PreviewEvent
	frame []byte
}

// previewClient holds the state of one preview connection. The camera is
// only touched by the reading goroutine; passes render from a copy.
type previewClient struct {
	conn    *websocket.Conn
	req     viewRequest
	codec   FrameCodec
	camera  *geometry.PerspectiveCamera
	session *renderer.Session
	logger  *slog.Logger
	send    chan outgoing
	console chan ConsoleMessage
}

// handlePreview serves the interactive preview. Each camera change cancels
// the pass in flight and starts a new one; finished passes are streamed to
// the client as encoded frames.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseViewRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	encoding := r.URL.Query().Get("encoding")
	if encoding == "" {
		encoding = s.config.FrameEncoding
	}
	codec, err := NewFrameCodec(encoding)
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

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		core.Logger().Warn("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &previewClient{
		conn:    conn,
		req:     req,
		codec:   codec,
		camera:  camera,
		send:    make(chan outgoing, 64),
		console: make(chan ConsoleMessage, 64),
	}
	client.logger = slog.New(NewConsoleHandler(client.console, core.Logger().Handler())).
		With("client", r.RemoteAddr, "scene", req.Scene)

	client.session = renderer.NewSession(raytracer, renderer.SessionOptions{
		OnTile: func(c renderer.TileCompletion) {
			// Progress events are dropped rather than slowing the workers
			select {
			case client.send <- outgoing{event: PreviewEvent{
				Type:       "tile",
				PassNumber: c.PassNumber,
				TileNumber: c.TileNumber,
				TotalTiles: c.TotalTiles,
			}}:
			default:
			}
		},
		OnPass: func(result renderer.PassResult) {
			client.sendPass(ctx, result)
		},
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		client.writeLoop(ctx)
		cancel()
		conn.Close() // Unblocks the reader
	}()

	client.restart(ctx)
	client.readLoop(ctx)

	cancel()
	client.session.Stop()
	<-writerDone
}

// restart renders a new pass from the current camera
func (c *previewClient) restart(ctx context.Context) {
	pass := c.session.Start(ctx, c.camera)
	p := c.camera.Position()
	c.logger.Info("render pass queued", "pass", pass, "camera", [3]float64{p.X, p.Y, p.Z})
}

// readLoop applies client commands until the connection closes
func (c *previewClient) readLoop(ctx context.Context) {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("preview read failed", "error", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		switch msg.Type {
		case "move":
			delta := c.camera.Right().Multiply(msg.Move[0]).
				Add(c.camera.Up().Multiply(msg.Move[1])).
				Add(c.camera.Forwards().Multiply(msg.Move[2]))
			c.camera.Translate(delta)
			c.restart(ctx)
		case "lookAt":
			c.camera.LookAt(core.NewVec3(msg.Target[0], msg.Target[1], msg.Target[2]), core.NewVec3(0, 1, 0))
			c.restart(ctx)
		case "render":
			c.restart(ctx)
		case "stop":
			c.session.Stop()
		default:
			c.queue(ctx, outgoing{event: PreviewEvent{Type: "error", Error: "unknown message type: " + msg.Type}})
		}
	}
}

// sendPass encodes a finished pass, or reports a canceled one
func (c *previewClient) sendPass(ctx context.Context, result renderer.PassResult) {
	if result.Stats.Canceled {
		c.queue(ctx, outgoing{event: PreviewEvent{
			Type:           "canceled",
			PassNumber:     result.PassNumber,
			CompletedTiles: result.Stats.CompletedTiles,
			TotalTiles:     result.Stats.TotalTiles,
		}})
		return
	}

	frame, err := c.codec.Encode(result.Buffer.Bytes(), result.Buffer.Width(), result.Buffer.Height())
	if err != nil {
		c.logger.Error("frame encoding failed", "pass", result.PassNumber, "error", err)
		c.queue(ctx, outgoing{event: PreviewEvent{Type: "error", PassNumber: result.PassNumber, Error: err.Error()}})
		return
	}

	c.logger.Debug("frame encoded", "pass", result.PassNumber, "encoding", c.codec.Name(), "bytes", len(frame))
	c.queue(ctx, outgoing{
		event: PreviewEvent{
			Type:       "frame",
			PassNumber: result.PassNumber,
			TotalTiles: result.Stats.TotalTiles,
			Encoding:   c.codec.Name(),
			Width:      result.Buffer.Width(),
			Height:     result.Buffer.Height(),
			ElapsedMs:  result.Stats.Duration.Milliseconds(),
		},
		frame: frame,
	})
}

func (c *previewClient) queue(ctx context.Context, msg outgoing) {
	select {
	case c.send <- msg:
	case <-ctx.Done():
	}
}

// writeLoop is the only goroutine writing to the connection
func (c *previewClient) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.console:
			if err := c.writeEvent(PreviewEvent{Type: "console", Console: &msg}, nil); err != nil {
				return
			}
		case msg := <-c.send:
			if err := c.writeEvent(msg.event, msg.frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *previewClient) writeEvent(event PreviewEvent, frame []byte) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if frame != nil {
		return c.conn.WriteMessage(websocket.BinaryMessage, frame)
	}
	return nil
}
