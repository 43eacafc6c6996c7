package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// recordingLogger keeps every formatted line
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func twoSphereWorld() *geometry.HittableList {
	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
	)
}

func mixedWorld() *geometry.HittableList {
	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
	)
}

func smallCamera(width, spp, depth int) *Camera {
	return NewCameraBuilder().ImageWidth(width).SamplesPerPixel(spp).MaxDepth(depth).Build()
}

func TestRender_MockSamplerIsRepeatable(t *testing.T) {
	camera := smallCamera(100, 1, 1)
	opts := RenderOptions{
		Workers:    1,
		NewSampler: func(int) core.Sampler { return newCycleSampler() },
	}

	first, _, err := Render(context.Background(), camera, twoSphereWorld(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, _, err := Render(context.Background(), camera, twoSphereWorld(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if first.Width != 100 || first.Height != 56 {
		t.Fatalf("Unexpected framebuffer size %dx%d", first.Width, first.Height)
	}
	for i := range first.Pixels {
		if first.Pixels[i] != second.Pixels[i] {
			t.Fatalf("Pixel %d differs between runs: %v vs %v", i, first.Pixels[i], second.Pixels[i])
		}
	}
}

func TestRender_SeedIndependentOfWorkerCount(t *testing.T) {
	camera := smallCamera(32, 4, 8)

	single, _, err := Render(context.Background(), camera, mixedWorld(), RenderOptions{Workers: 1, Seed: 7})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	parallel, _, err := Render(context.Background(), camera, mixedWorld(), RenderOptions{Workers: 4, Seed: 7})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i := range single.Pixels {
		if single.Pixels[i] != parallel.Pixels[i] {
			t.Fatalf("Pixel %d depends on worker count: %v vs %v", i, single.Pixels[i], parallel.Pixels[i])
		}
	}

	other, _, err := Render(context.Background(), camera, mixedWorld(), RenderOptions{Workers: 4, Seed: 8})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	differs := false
	for i := range single.Pixels {
		if single.Pixels[i] != other.Pixels[i] {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("Different seeds should produce different noise")
	}
}

func TestRender_IterativeIntegratorMatches(t *testing.T) {
	camera := smallCamera(24, 2, 20)

	recursive, _, err := Render(context.Background(), camera, mixedWorld(), RenderOptions{Workers: 2, Seed: 3})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	iterative, _, err := Render(context.Background(), camera, mixedWorld(), RenderOptions{
		Workers:    3,
		Seed:       3,
		Integrator: integrator.NewIterativePathTracingIntegrator(),
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i := range recursive.Pixels {
		if !vecClose(recursive.Pixels[i], iterative.Pixels[i], 1e-12) {
			t.Fatalf("Pixel %d: recursive %v, iterative %v", i, recursive.Pixels[i], iterative.Pixels[i])
		}
	}
}

func TestRender_ZeroDepthIsBlack(t *testing.T) {
	fb, _, err := Render(context.Background(), smallCamera(20, 2, 0), twoSphereWorld(), RenderOptions{Workers: 2, Seed: 1})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, p := range fb.Pixels {
		if p != core.NewVec3(0, 0, 0) {
			t.Fatalf("Pixel %d should be black with no bounce budget, got %v", i, p)
		}
	}
}

func TestRender_EmptySceneIsSky(t *testing.T) {
	fb, _, err := Render(context.Background(), smallCamera(20, 2, 10), geometry.NewHittableList(), RenderOptions{Workers: 3, Seed: 1})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i, p := range fb.Pixels {
		if math.Abs(p.Z-1) > 1e-9 || p.X < 0.5 || p.X > 1 || p.Y < 0.7 || p.Y > 1 {
			t.Fatalf("Pixel %d is not on the sky gradient: %v", i, p)
		}
	}
	// Rays toward the top of the image are bluer
	if top, bottom := fb.At(10, 0), fb.At(10, fb.Height-1); top.X >= bottom.X {
		t.Errorf("Expected top row (%v) bluer than bottom row (%v)", top, bottom)
	}
}

func TestRender_Stats(t *testing.T) {
	camera := smallCamera(16, 3, 2)
	_, stats, err := Render(context.Background(), camera, twoSphereWorld(), RenderOptions{Workers: 2, Seed: 3})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if stats.Width != 16 || stats.Height != 9 || stats.Workers != 2 || stats.SamplesPerPixel != 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.TotalSamples != 16*9*3 {
		t.Errorf("Expected %d samples, got %d", 16*9*3, stats.TotalSamples)
	}
	if !stats.Complete() {
		t.Errorf("Expected all rows rendered, got %d", stats.RowsRendered)
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := &recordingLogger{}
	fb, stats, err := Render(ctx, smallCamera(50, 10, 10), twoSphereWorld(), RenderOptions{Workers: 2, Seed: 1, Logger: logger})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if fb == nil {
		t.Fatal("Expected a framebuffer even when cancelled")
	}
	if stats.RowsRendered != 0 || stats.Complete() {
		t.Errorf("No rows should render after cancellation, got %d", stats.RowsRendered)
	}
	if !logger.contains("Render stopped") {
		t.Error("Expected cancellation to be logged")
	}
}

func TestRender_LogsProgress(t *testing.T) {
	logger := &recordingLogger{}
	_, _, err := Render(context.Background(), smallCamera(8, 1, 1), twoSphereWorld(), RenderOptions{Workers: 1, Seed: 1, Logger: logger})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !logger.contains("Rendering 8x4") || !logger.contains("Done in") {
		t.Errorf("Missing start or finish log lines: %v", logger.lines)
	}
}

func TestProgress_Report(t *testing.T) {
	progress := NewProgress(4)
	progress.RowDone()
	progress.RowDone()
	if progress.Done() != 2 || progress.Fraction() != 0.5 {
		t.Fatalf("Expected 2 rows done (0.5), got %d (%f)", progress.Done(), progress.Fraction())
	}

	logger := &recordingLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		progress.Report(ctx, time.Millisecond, logger)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for !logger.contains("Scanlines remaining: 2") {
		select {
		case <-deadline:
			t.Fatal("Progress was never reported")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestFramebuffer_RowAliasesPixels(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Row(1)[2] = core.NewVec3(1, 2, 3)
	if got := fb.At(2, 1); got != core.NewVec3(1, 2, 3) {
		t.Errorf("Row write not visible through At, got %v", got)
	}
	if fb.Pixels[5] != core.NewVec3(1, 2, 3) {
		t.Error("Expected raster-order storage")
	}
}

func TestRaytracer_RenderPixelAverages(t *testing.T) {
	// A camera inside nothing sees only sky; averaging identical samples
	// must return the same color
	camera := NewCameraBuilder().ImageWidth(2).AspectRatio(1).SamplesPerPixel(4).Build()
	rt := NewRaytracer(camera, geometry.NewHittableList())
	sampler := fixedSampler{value: 0.5}

	got := rt.RenderPixel(0, 0, sampler)
	want := rt.integrator.RayColor(camera.GetRay(0, 0, sampler), rt.world, sampler, camera.MaxDepth())
	if !vecClose(got, want, 1e-12) {
		t.Errorf("Expected average %v, got %v", want, got)
	}
}
