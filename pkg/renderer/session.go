package renderer

import (
	"context"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Buffer     *PixelBuffer
	Stats      RenderStats
}

// SessionOptions configures the callbacks of a session. Callbacks run on
// render goroutines and must not call Start or Stop.
type SessionOptions struct {
	OnTile func(TileCompletion) // Called after each committed tile
	OnPass func(PassResult)     // Called when a pass finishes or is canceled
}

// Session runs render passes one at a time. Starting a pass cancels the one
// in flight, so the latest pass is always the authoritative image.
type Session struct {
	renderer *Renderer
	options  SessionOptions

	startMu sync.Mutex // Serializes Start and Stop

	mu      sync.Mutex
	current *pass
	passes  int
}

type pass struct {
	number int
	buffer *PixelBuffer
	cancel context.CancelFunc
	done   chan struct{}
	stats  RenderStats // Valid once done is closed
}

// NewSession creates a session rendering with r
func NewSession(r *Renderer, options SessionOptions) *Session {
	return &Session{
		renderer: r,
		options:  options,
	}
}

// Start cancels the pass in flight, waits for its workers to exit, and
// starts a new pass rendering the scene from camera. The camera is copied.
// It returns the new pass number.
func (s *Session) Start(ctx context.Context, camera *geometry.PerspectiveCamera) int {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.stopCurrent()

	passCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.passes++
	p := &pass{
		number: s.passes,
		buffer: NewPixelBuffer(s.renderer.Width(), s.renderer.Height()),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.current = p
	s.mu.Unlock()

	go s.run(passCtx, p, camera.Clone())
	return p.number
}

// Cancel asks the pass in flight to stop without waiting for it
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.cancel()
	}
}

// Stop cancels the pass in flight and waits for it to exit
func (s *Session) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	s.stopCurrent()
}

// Wait blocks until the latest pass has finished or been canceled and
// returns its statistics
func (s *Session) Wait() RenderStats {
	s.mu.Lock()
	p := s.current
	s.mu.Unlock()

	if p == nil {
		return RenderStats{}
	}
	<-p.done
	return p.stats
}

// Latest returns the pixel buffer and number of the latest pass, or nil if
// no pass has been started
func (s *Session) Latest() (*PixelBuffer, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, 0
	}
	return s.current.buffer, s.current.number
}

func (s *Session) stopCurrent() {
	s.mu.Lock()
	p := s.current
	s.mu.Unlock()

	if p != nil {
		p.cancel()
		<-p.done
	}
}

func (s *Session) run(ctx context.Context, p *pass, camera *geometry.PerspectiveCamera) {
	defer close(p.done)
	defer p.cancel()

	p.stats = s.renderer.RenderPass(ctx, camera, p.buffer, p.number, s.options.OnTile)

	if s.options.OnPass != nil {
		s.options.OnPass(PassResult{
			PassNumber: p.number,
			Buffer:     p.buffer,
			Stats:      p.stats,
		})
	}
}
