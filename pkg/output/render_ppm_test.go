package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// replaySampler returns a fixed list of draws, wrapping around
type replaySampler struct {
	values []float64
	next   int
}

func (s *replaySampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *replaySampler) GetRange(minVal, maxVal float64) float64 {
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	return minVal + s.Get1D()*(maxVal-minVal)
}

// greySphereWorld is a grey sphere resting on a grey ground sphere
func greySphereWorld() *geometry.HittableList {
	grey := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, grey),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, grey),
	)
}

func renderPPM(t *testing.T) []byte {
	t.Helper()

	camera := renderer.NewCameraBuilder().
		ImageWidth(100).
		AspectRatio(16.0 / 9.0).
		SamplesPerPixel(1).
		MaxDepth(1).
		Build()
	fb, _, err := renderer.Render(context.Background(), camera, greySphereWorld(), renderer.RenderOptions{
		Workers: 1,
		NewSampler: func(int) core.Sampler {
			return &replaySampler{values: []float64{0.1, 0.6, 0.3, 0.8, 0.45}}
		},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePPM(&buf, fb); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}
	return buf.Bytes()
}

func TestRenderPPM_ByteIdentical(t *testing.T) {
	first := renderPPM(t)
	second := renderPPM(t)

	if !bytes.Equal(first, second) {
		t.Fatal("Two renders with the same replayed draws produced different PPM bytes")
	}

	lines := strings.Split(strings.TrimSuffix(string(first), "\n"), "\n")
	if len(lines) != 3+100*56 {
		t.Fatalf("Expected %d lines, got %d", 3+100*56, len(lines))
	}
	if lines[0] != "P3" || lines[1] != "100 56" || lines[2] != "255" {
		t.Errorf("Unexpected header %q", lines[:3])
	}

	// Depth 1 leaves the sphere black and the sky lit
	if lines[3] == "0 0 0" {
		t.Error("Top-left pixel should show the sky")
	}
	center := lines[3+28*100+50]
	if center != "0 0 0" {
		t.Errorf("Center pixel hits the sphere with no bounces left, got %q", center)
	}
}
