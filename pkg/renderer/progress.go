package renderer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Progress counts finished rows. Workers call RowDone concurrently.
type Progress struct {
	total int64
	done  atomic.Int64
}

// NewProgress creates a counter for total rows
func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// RowDone records one finished row
func (p *Progress) RowDone() {
	p.done.Add(1)
}

// Done returns the number of finished rows
func (p *Progress) Done() int64 {
	return p.done.Load()
}

// Fraction returns the finished share in [0, 1]
func (p *Progress) Fraction() float64 {
	if p.total == 0 {
		return 1
	}
	return float64(p.Done()) / float64(p.total)
}

// Report logs progress every interval until ctx is done
func (p *Progress) Report(ctx context.Context, interval time.Duration, logger core.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Printf("Scanlines remaining: %d (%.1f%% done)\n", p.total-p.Done(), 100*p.Fraction())
		}
	}
}
