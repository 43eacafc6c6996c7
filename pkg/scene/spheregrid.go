package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SphereGridSeed fixes the random layout of NewSphereGridScene
const SphereGridSeed = 2024

// NewSphereGridScene creates the large scene: a field of small random
// spheres around three big ones on a huge ground sphere
func NewSphereGridScene() *Scene {
	return NewSphereGridSceneWithSeed(SphereGridSeed)
}

// NewSphereGridSceneWithSeed creates the large scene with a specific layout seed
func NewSphereGridSceneWithSeed(seed uint64) *Scene {
	s := NewScene("spheres")
	s.CameraConfig.ImageWidth = 600
	s.CameraConfig.AspectRatio = 16.0 / 9.0
	s.CameraConfig.SamplesPerPixel = 200
	s.CameraConfig.MaxDepth = 50
	s.CameraConfig.VFov = 20
	s.CameraConfig.LookFrom = core.NewVec3(13, 2, 3)
	s.CameraConfig.LookAt = core.NewVec3(0, 0, 0)
	s.CameraConfig.Up = core.NewVec3(0, 1, 0)
	s.CameraConfig.DefocusAngle = 0.6
	s.CameraConfig.FocusDistance = 10

	random := core.NewRandomSampler(seed, 0)

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Get1D()
			center := core.NewVec3(float64(a)+0.9*random.Get1D(), 0.2, float64(b)+0.9*random.Get1D())

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				albedo := randomColor(random).MultiplyVec(randomColor(random))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.NewVec3(random.GetRange(0.5, 1), random.GetRange(0.5, 1), random.GetRange(0.5, 1))
				mat = material.NewMetal(albedo, random.GetRange(0, 0.5))
			default:
				mat = material.NewDielectric(1.5)
			}
			s.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}

func randomColor(random core.Sampler) core.Vec3 {
	return core.NewVec3(random.Get1D(), random.Get1D(), random.Get1D())
}
