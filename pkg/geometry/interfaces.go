package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Implementations must be safe for concurrent reads once built.
type Shape interface {
	// Hit returns the nearest intersection with rayT.Min < t < rayT.Max
	Hit(ray core.Ray, rayT core.Interval) (material.HitRecord, bool)
}
