package renderer

import "time"

// RenderStats contains statistics about a finished render
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	SamplesPerPixel int           // Rays traced per pixel
	TotalSamples    int64         // Total camera rays traced
	RowsRendered    int           // Rows completed before return
	Workers         int           // Number of parallel workers
	Duration        time.Duration // Wall-clock render time
}

// SamplesPerSecond returns the camera ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Complete reports whether every row was rendered
func (s RenderStats) Complete() bool {
	return s.RowsRendered == s.Height
}
