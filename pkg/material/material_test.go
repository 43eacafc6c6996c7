package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// fixedSampler returns the same value for every draw
type fixedSampler struct {
	value float64
}

func (f fixedSampler) Get1D() float64 { return f.value }

func (f fixedSampler) GetRange(minVal, maxVal float64) float64 {
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	return minVal + f.value*(maxVal-minVal)
}

// sequenceSampler replays a fixed list of draws, wrapping around
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) GetRange(minVal, maxVal float64) float64 {
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	return minVal + s.Get1D()*(maxVal-minVal)
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}
