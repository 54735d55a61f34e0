package renderer

import (
	"context"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID    int
	Committed bool // False if the pass was canceled before the tile was written
	Pixels    int
}

// TileCompletion describes a tile that has just been written to the pixel buffer
type TileCompletion struct {
	Tile       *Tile
	PassNumber int
	TileNumber int // Tiles completed so far in this pass, including this one
	TotalTiles int
}

// WorkerPool renders the tiles of one pass in parallel
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	ctx         context.Context
	renderer    *TileRenderer
	buffer      *PixelBuffer
	taskQueue   chan TileTask
	resultQueue chan TileResult
	onTile      func(TileCompletion)
	passNumber  int
	totalTiles  int
}

// NewWorkerPool creates a worker pool for a pass of numTiles tiles. Workers
// stop rendering as soon as ctx is canceled. onTile, if not nil, is called
// from worker goroutines after each committed tile.
func NewWorkerPool(ctx context.Context, renderer *TileRenderer, buffer *PixelBuffer, numWorkers, numTiles, passNumber int, onTile func(TileCompletion)) *WorkerPool {
	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTiles),   // Buffer for all tiles
		resultQueue: make(chan TileResult, numTiles), // Buffer for all results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			ctx:         ctx,
			renderer:    renderer,
			buffer:      buffer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
			onTile:      onTile,
			passNumber:  passNumber,
			totalTiles:  numTiles,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop waits for every submitted task to be processed and shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Every task produces exactly one result;
// once the pass is canceled remaining tasks are drained without rendering.
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		result := TileResult{TaskID: task.TaskID}

		if w.ctx.Err() == nil {
			if colors, ok := w.renderer.RenderTile(w.ctx, task.Tile); ok {
				result.Committed = w.buffer.CommitTile(w.ctx, task.Tile.Bounds, colors)
			}
		}

		if result.Committed {
			result.Pixels = task.Tile.Bounds.Dx() * task.Tile.Bounds.Dy()
			if w.onTile != nil {
				w.onTile(TileCompletion{
					Tile:       task.Tile,
					PassNumber: w.passNumber,
					TileNumber: w.buffer.CompletedTiles(),
					TotalTiles: w.totalTiles,
				})
			}
		}

		w.resultQueue <- result
	}
}
