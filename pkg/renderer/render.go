package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// RenderOptions controls how a render is parallelized and seeded
type RenderOptions struct {
	Workers int // Number of parallel workers (0 = use CPU count)

	// Seed makes the image reproducible: each row is traced with a sampler
	// stream keyed by (Seed, row). Zero seeds every worker from the clock.
	Seed uint64

	// NewSampler overrides sampler construction, e.g. with a deterministic
	// mock in tests. Samplers implementing core.Reseeder are still reseeded
	// per row when Seed is set.
	NewSampler func(workerID int) core.Sampler

	// Integrator estimates radiance per camera ray; nil uses recursive path tracing
	Integrator integrator.Integrator

	Logger           core.Logger   // nil discards log output
	ProgressInterval time.Duration // 0 disables progress reports
}

// Render traces every pixel of the camera's image in parallel and returns the
// framebuffer in raster order. On cancellation it returns the partially filled
// framebuffer together with ctx.Err().
func Render(ctx context.Context, camera *Camera, world geometry.Shape, opts RenderOptions) (*Framebuffer, RenderStats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}

	if err := camera.Config().Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid camera configuration: %w", err)
	}

	width, height := camera.ImageWidth(), camera.ImageHeight()
	fb := NewFramebuffer(width, height)

	newSampler := opts.NewSampler
	if newSampler == nil {
		seed := opts.Seed
		newSampler = func(workerID int) core.Sampler {
			if seed == 0 {
				return core.NewRandomSampler(core.TimeSeed(workerID), uint64(workerID))
			}
			return core.NewRandomSampler(seed, uint64(workerID))
		}
	}

	progress := NewProgress(height)
	raytracer := NewRaytracer(camera, world)
	if opts.Integrator != nil {
		raytracer = NewRaytracerWithIntegrator(camera, world, opts.Integrator)
	}
	pool := NewWorkerPool(raytracer, height, opts.Workers, newSampler, opts.Seed, opts.Seed != 0, progress)

	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: camera.SamplesPerPixel(),
		Workers:         pool.GetNumWorkers(),
	}

	logger.Printf("Rendering %dx%d, %d samples per pixel, max depth %d, %d workers\n",
		width, height, camera.SamplesPerPixel(), camera.MaxDepth(), stats.Workers)

	reportCtx, stopReport := context.WithCancel(ctx)
	defer stopReport()
	go progress.Report(reportCtx, opts.ProgressInterval, logger)

	start := time.Now()
	pool.Start(ctx)
	for j := 0; j < height; j++ {
		pool.SubmitTask(RowTask{Row: j, Pixels: fb.Row(j)})
	}
	go pool.Stop()

	var errs []error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			errs = append(errs, result.Error)
			continue
		}
		stats.TotalSamples += result.Samples
		stats.RowsRendered++
	}
	stats.Duration = time.Since(start)

	if len(errs) > 0 {
		// Every skipped row carries the same context error
		err := errs[0]
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			err = errors.Join(errs...)
		}
		logger.Printf("Render stopped after %d of %d rows: %v\n", stats.RowsRendered, height, err)
		return fb, stats, err
	}

	logger.Printf("Done in %v\n", stats.Duration.Round(time.Millisecond))
	return fb, stats, nil
}
