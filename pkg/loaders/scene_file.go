package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SceneFile is the JSON document describing a scene of spheres
type SceneFile struct {
	Camera  *CameraSpec  `json:"camera"`
	Spheres []SphereSpec `json:"spheres"`
}

// CameraSpec lists optional camera fields; only present fields override defaults
type CameraSpec struct {
	ImageWidth      *int        `json:"imageWidth"`
	AspectRatio     *float64    `json:"aspectRatio"`
	SamplesPerPixel *int        `json:"samplesPerPixel"`
	MaxDepth        *int        `json:"maxDepth"`
	VFov            *float64    `json:"vfov"`
	LookFrom        *[3]float64 `json:"lookFrom"`
	LookAt          *[3]float64 `json:"lookAt"`
	Up              *[3]float64 `json:"up"`
	DefocusAngle    *float64    `json:"defocusAngle"`
	FocusDistance   *float64    `json:"focusDistance"`
}

// SphereSpec describes one sphere
type SphereSpec struct {
	Center   [3]float64   `json:"center"`
	Radius   float64      `json:"radius"`
	Material MaterialSpec `json:"material"`
}

// MaterialSpec describes a material. Albedo is either a hex string such as
// "#cc9933" or an [r, g, b] array of linear components in [0, 1].
type MaterialSpec struct {
	Type            string          `json:"type"`
	Albedo          json.RawMessage `json:"albedo"`
	Fuzz            float64         `json:"fuzz"`
	RefractiveIndex float64         `json:"refractiveIndex"`
}

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// LoadSceneFile reads a JSON scene from disk. The scene is named after the file.
func LoadSceneFile(filename string) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s, err := ParseScene(file, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ParseScene decodes a JSON scene document
func ParseScene(r io.Reader, name string) (*scene.Scene, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var doc SceneFile
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	s := scene.NewScene(name)
	if doc.Camera != nil {
		s.CameraConfig = doc.Camera.apply(s.CameraBuilder()).Config()
	}

	for i, spec := range doc.Spheres {
		sphere, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.Add(sphere)
	}

	return s, nil
}

func (c *CameraSpec) apply(b *renderer.CameraBuilder) *renderer.CameraBuilder {
	if c.ImageWidth != nil {
		b.ImageWidth(*c.ImageWidth)
	}
	if c.AspectRatio != nil {
		b.AspectRatio(*c.AspectRatio)
	}
	if c.SamplesPerPixel != nil {
		b.SamplesPerPixel(*c.SamplesPerPixel)
	}
	if c.MaxDepth != nil {
		b.MaxDepth(*c.MaxDepth)
	}
	if c.VFov != nil {
		b.VFov(*c.VFov)
	}
	if c.LookFrom != nil {
		b.LookFrom(vec(*c.LookFrom))
	}
	if c.LookAt != nil {
		b.LookAt(vec(*c.LookAt))
	}
	if c.Up != nil {
		b.Up(vec(*c.Up))
	}
	if c.DefocusAngle != nil {
		b.DefocusAngle(*c.DefocusAngle)
	}
	if c.FocusDistance != nil {
		b.FocusDistance(*c.FocusDistance)
	}
	return b
}

func (s SphereSpec) build() (*geometry.Sphere, error) {
	if !(s.Radius > 0) {
		return nil, fmt.Errorf("radius must be positive, got %v", s.Radius)
	}
	mat, err := s.Material.build()
	if err != nil {
		return nil, err
	}
	return geometry.NewSphere(vec(s.Center), s.Radius, mat), nil
}

func (m MaterialSpec) build() (material.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian":
		albedo, err := parseAlbedo(m.Albedo)
		if err != nil {
			return nil, err
		}
		return material.NewLambertian(albedo), nil
	case "metal":
		albedo, err := parseAlbedo(m.Albedo)
		if err != nil {
			return nil, err
		}
		return material.NewMetal(albedo, m.Fuzz), nil
	case "dielectric":
		if !(m.RefractiveIndex > 0) {
			return nil, fmt.Errorf("dielectric refractive index must be positive, got %v", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

// parseAlbedo accepts "#rgb", "#rrggbb" or [r, g, b]. Hex colors are
// display values and are squared back to linear to undo the output gamma.
func parseAlbedo(raw json.RawMessage) (core.Vec3, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return core.Vec3{}, errors.New("albedo is required")
	}

	if raw[0] == '"' {
		var hex string
		if err := json.Unmarshal(raw, &hex); err != nil {
			return core.Vec3{}, fmt.Errorf("invalid albedo: %w", err)
		}
		if !hexColorPattern.MatchString(hex) {
			return core.Vec3{}, fmt.Errorf("malformed hex color %q", hex)
		}
		c := fauxgl.HexColor(hex)
		return core.NewVec3(c.R*c.R, c.G*c.G, c.B*c.B), nil
	}

	var rgb []float64
	if err := json.Unmarshal(raw, &rgb); err != nil {
		return core.Vec3{}, fmt.Errorf("albedo must be a hex string or [r, g, b]: %w", err)
	}
	if len(rgb) != 3 {
		return core.Vec3{}, fmt.Errorf("albedo needs 3 components, got %d", len(rgb))
	}
	for _, v := range rgb {
		if v < 0 || v > 1 {
			return core.Vec3{}, fmt.Errorf("albedo components must be in [0, 1], got %v", rgb)
		}
	}
	return core.NewVec3(rgb[0], rgb[1], rgb[2]), nil
}

func vec(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
