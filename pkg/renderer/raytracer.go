package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// Raytracer estimates pixel colors by averaging camera ray samples
type Raytracer struct {
	camera     *Camera
	world      geometry.Shape
	integrator integrator.Integrator
}

// NewRaytracer creates a raytracer using the path tracing integrator
func NewRaytracer(camera *Camera, world geometry.Shape) *Raytracer {
	return NewRaytracerWithIntegrator(camera, world, integrator.NewPathTracingIntegrator())
}

// NewRaytracerWithIntegrator creates a raytracer with a specific integrator
func NewRaytracerWithIntegrator(camera *Camera, world geometry.Shape, integ integrator.Integrator) *Raytracer {
	return &Raytracer{camera: camera, world: world, integrator: integ}
}

// RenderPixel traces SamplesPerPixel rays through pixel (i, j) and returns
// their mean linear radiance
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) core.Vec3 {
	pixelColor := core.NewVec3(0, 0, 0)
	for s := 0; s < rt.camera.SamplesPerPixel(); s++ {
		ray := rt.camera.GetRay(i, j, sampler)
		pixelColor = pixelColor.Add(rt.integrator.RayColor(ray, rt.world, sampler, rt.camera.MaxDepth()))
	}
	return pixelColor.Multiply(rt.camera.PixelSamplesScale())
}

// RenderRow fills row with the colors of image row j, left to right
func (rt *Raytracer) RenderRow(j int, row []core.Vec3, sampler core.Sampler) {
	for i := range row {
		row[i] = rt.RenderPixel(i, j, sampler)
	}
}
