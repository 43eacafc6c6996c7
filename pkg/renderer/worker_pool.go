package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RowTask asks a worker to render one image row
type RowTask struct {
	Row    int
	Pixels []core.Vec3 // Destination row in the shared framebuffer
}

// RowResult reports a finished (or skipped) row
type RowResult struct {
	Row     int
	Samples int64
	Error   error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows with its own sampler
type Worker struct {
	ID          int
	raytracer   *Raytracer
	sampler     core.Sampler
	seed        uint64
	reseed      bool // Restart the sampler stream at (seed, row) for every row
	progress    *Progress
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a pool for an image of the given height. Samplers are
// created by newSampler, one per worker. When reseed is set and a sampler
// implements core.Reseeder, its stream restarts at (seed, row) for every row,
// which makes the output independent of how rows are spread across workers.
func NewWorkerPool(raytracer *Raytracer, height, numWorkers int, newSampler func(workerID int) core.Sampler, seed uint64, reseed bool, progress *Progress) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, height),   // Buffer for every row
		resultQueue: make(chan RowResult, height), // Buffer for every result
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			sampler:     newSampler(i),
			seed:        seed,
			reseed:      reseed,
			progress:    progress,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop closes the task queue, waits for the workers and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Cancellation is checked between rows; a row
// that has started always finishes.
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- RowResult{Row: task.Row, Error: err}
			continue
		}

		if r, ok := w.sampler.(core.Reseeder); ok && w.reseed {
			r.Reseed(w.seed, uint64(task.Row))
		}

		w.raytracer.RenderRow(task.Row, task.Pixels, w.sampler)
		if w.progress != nil {
			w.progress.RowDone()
		}

		w.resultQueue <- RowResult{
			Row:     task.Row,
			Samples: int64(len(task.Pixels)) * int64(w.raytracer.camera.SamplesPerPixel()),
		}
	}
}
