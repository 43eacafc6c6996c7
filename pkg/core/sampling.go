package core

import (
	"math"
	"math/rand/v2"
	"time"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	// Get1D returns a value in [0, 1)
	Get1D() float64
	// GetRange returns a value in [min, max); reversed bounds are swapped
	GetRange(minVal, maxVal float64) float64
}

// Reseeder is implemented by samplers that can restart their stream.
// Workers reseed per row so a fixed seed renders the same image regardless
// of which worker picks up which row.
type Reseeder interface {
	Reseed(seed, stream uint64)
}

// warmUpSteps is the number of outputs discarded after every (re)seed
const warmUpSteps = 16

// RandomSampler wraps a PCG generator from math/rand/v2.
// It is not safe for concurrent use; every worker owns its own.
type RandomSampler struct {
	pcg    *rand.PCG
	random *rand.Rand
}

// NewRandomSampler creates a sampler for the given seed and stream
func NewRandomSampler(seed, stream uint64) *RandomSampler {
	pcg := rand.NewPCG(0, 0)
	r := &RandomSampler{pcg: pcg, random: rand.New(pcg)}
	r.Reseed(seed, stream)
	return r
}

// Reseed restarts the generator. Seed and stream are mixed first so that
// neighbouring stream ids (adjacent rows, worker ids) give unrelated sequences.
func (r *RandomSampler) Reseed(seed, stream uint64) {
	r.pcg.Seed(splitMix64(seed), splitMix64(stream^0x9e3779b97f4a7c15))
	for i := 0; i < warmUpSteps; i++ {
		r.pcg.Uint64()
	}
}

// Get1D returns a random float64 in [0, 1) with 53 bits of precision
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// GetRange returns a random float64 in [min, max)
func (r *RandomSampler) GetRange(minVal, maxVal float64) float64 {
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	return minVal + r.random.Float64()*(maxVal-minVal)
}

// TimeSeed returns a seed derived from the wall clock and a worker id
func TimeSeed(workerID int) uint64 {
	return uint64(time.Now().UnixNano()) ^ splitMix64(uint64(workerID))
}

func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// RandomUnitVector returns a uniformly distributed unit vector.
// Candidates are drawn from the [-1,1]³ cube and rejected unless their
// squared length lies in (1e-160, 1]; the lower bound keeps the
// normalization away from underflow.
func RandomUnitVector(sampler Sampler) Vec3 {
	for {
		p := NewVec3(
			sampler.GetRange(-1, 1),
			sampler.GetRange(-1, 1),
			sampler.GetRange(-1, 1),
		)
		lenSq := p.LengthSquared()
		if 1e-160 < lenSq && lenSq <= 1 {
			return p.Divide(math.Sqrt(lenSq))
		}
	}
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		p := NewVec3(sampler.GetRange(-1, 1), sampler.GetRange(-1, 1), 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// SampleSquare returns a random offset in the [-0.5,0.5]² square
func SampleSquare(sampler Sampler) Vec3 {
	return NewVec3(sampler.Get1D()-0.5, sampler.Get1D()-0.5, 0)
}
