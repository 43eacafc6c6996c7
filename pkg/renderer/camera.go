package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig holds every setting the camera is derived from
type CameraConfig struct {
	ImageWidth      int       // Image width in pixels
	AspectRatio     float64   // Width / height
	SamplesPerPixel int       // Rays per pixel
	MaxDepth        int       // Maximum ray bounce depth
	VFov            float64   // Vertical field of view in degrees
	LookFrom        core.Vec3 // Camera position
	LookAt          core.Vec3 // Point the camera looks at
	Up              core.Vec3 // Camera-relative up direction
	DefocusAngle    float64   // Aperture cone angle in degrees; 0 is a pinhole
	FocusDistance   float64   // Distance to the plane of perfect focus
}

// DefaultCameraConfig returns the defaults for every field
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		ImageWidth:      400,
		AspectRatio:     16.0 / 9.0,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		VFov:            90,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDistance:   100,
	}
}

// Validate reports settings that would produce a degenerate camera
func (c CameraConfig) Validate() error {
	var errs []error
	if c.ImageWidth <= 0 {
		errs = append(errs, fmt.Errorf("image width must be positive, got %d", c.ImageWidth))
	}
	if c.AspectRatio <= 0 || math.IsNaN(c.AspectRatio) || math.IsInf(c.AspectRatio, 0) {
		errs = append(errs, fmt.Errorf("aspect ratio must be positive and finite, got %v", c.AspectRatio))
	}
	if c.SamplesPerPixel <= 0 {
		errs = append(errs, fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth))
	}
	if c.VFov <= 0 || c.VFov >= 180 {
		errs = append(errs, fmt.Errorf("vertical fov must be in (0, 180) degrees, got %v", c.VFov))
	}
	if c.FocusDistance <= 0 {
		errs = append(errs, fmt.Errorf("focus distance must be positive, got %v", c.FocusDistance))
	}
	if c.LookFrom == c.LookAt {
		errs = append(errs, errors.New("look-from and look-at must differ"))
	}
	if c.Up.Cross(c.LookFrom.Subtract(c.LookAt)).NearZero() {
		errs = append(errs, errors.New("up vector must not be parallel to the view direction"))
	}
	return errors.Join(errs...)
}

// CameraBuilder assembles a CameraConfig one field at a time.
// Unset fields keep their defaults; set fields win even when zero.
type CameraBuilder struct {
	config CameraConfig
}

// NewCameraBuilder creates a builder that starts from DefaultCameraConfig
func NewCameraBuilder() *CameraBuilder {
	return &CameraBuilder{config: DefaultCameraConfig()}
}

// NewCameraBuilderFrom creates a builder that starts from config
func NewCameraBuilderFrom(config CameraConfig) *CameraBuilder {
	return &CameraBuilder{config: config}
}

func (b *CameraBuilder) ImageWidth(width int) *CameraBuilder {
	b.config.ImageWidth = width
	return b
}

func (b *CameraBuilder) AspectRatio(ratio float64) *CameraBuilder {
	b.config.AspectRatio = ratio
	return b
}

func (b *CameraBuilder) SamplesPerPixel(samples int) *CameraBuilder {
	b.config.SamplesPerPixel = samples
	return b
}

func (b *CameraBuilder) MaxDepth(depth int) *CameraBuilder {
	b.config.MaxDepth = depth
	return b
}

func (b *CameraBuilder) VFov(degrees float64) *CameraBuilder {
	b.config.VFov = degrees
	return b
}

func (b *CameraBuilder) LookFrom(p core.Vec3) *CameraBuilder {
	b.config.LookFrom = p
	return b
}

func (b *CameraBuilder) LookAt(p core.Vec3) *CameraBuilder {
	b.config.LookAt = p
	return b
}

func (b *CameraBuilder) Up(v core.Vec3) *CameraBuilder {
	b.config.Up = v
	return b
}

func (b *CameraBuilder) DefocusAngle(degrees float64) *CameraBuilder {
	b.config.DefocusAngle = degrees
	return b
}

func (b *CameraBuilder) FocusDistance(dist float64) *CameraBuilder {
	b.config.FocusDistance = dist
	return b
}

// Config returns the resolved configuration
func (b *CameraBuilder) Config() CameraConfig {
	return b.config
}

// Build derives the camera from the resolved configuration
func (b *CameraBuilder) Build() *Camera {
	return NewCamera(b.config)
}

// Camera generates rays for rendering. It is immutable after NewCamera and
// safe to share between workers.
type Camera struct {
	config            CameraConfig
	imageHeight       int
	pixelSamplesScale float64
	center            core.Vec3
	pixel00           core.Vec3 // Center of the upper-left pixel
	pixelDeltaU       core.Vec3 // Offset to the pixel to the right
	pixelDeltaV       core.Vec3 // Offset to the pixel below
	u, v, w           core.Vec3 // Camera basis
	defocusDiskU      core.Vec3 // Defocus disk horizontal radius
	defocusDiskV      core.Vec3 // Defocus disk vertical radius
}

// NewCamera derives the viewport geometry from a configuration
func NewCamera(config CameraConfig) *Camera {
	// The viewport is derived from the unrounded height; only the row count
	// is truncated.
	heightF := max(1, float64(config.ImageWidth)/config.AspectRatio)
	imageHeight := int(heightF)

	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * float64(config.ImageWidth) / heightF

	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.ImageWidth))
	pixelDeltaV := viewportV.Divide(heightF)

	viewportUpperLeft := config.LookFrom.
		Subtract(w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))

	return &Camera{
		config:            config,
		imageHeight:       imageHeight,
		pixelSamplesScale: 1.0 / float64(config.SamplesPerPixel),
		center:            config.LookFrom,
		pixel00:           pixel00,
		pixelDeltaU:       pixelDeltaU,
		pixelDeltaV:       pixelDeltaV,
		u:                 u,
		v:                 v,
		w:                 w,
		defocusDiskU:      u.Multiply(defocusRadius),
		defocusDiskV:      v.Multiply(defocusRadius),
	}
}

// Config returns the configuration the camera was derived from
func (c *Camera) Config() CameraConfig { return c.config }

// ImageWidth returns the image width in pixels
func (c *Camera) ImageWidth() int { return c.config.ImageWidth }

// ImageHeight returns the derived image height in pixels (at least 1)
func (c *Camera) ImageHeight() int { return c.imageHeight }

// SamplesPerPixel returns the number of rays traced per pixel
func (c *Camera) SamplesPerPixel() int { return c.config.SamplesPerPixel }

// MaxDepth returns the bounce budget for each camera ray
func (c *Camera) MaxDepth() int { return c.config.MaxDepth }

// PixelSamplesScale returns 1 / SamplesPerPixel
func (c *Camera) PixelSamplesScale() float64 { return c.pixelSamplesScale }

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 { return c.w.Negate() }

// GetRay generates a ray for pixel (i, j), jittered inside the pixel
// footprint, from the camera center or a point on the defocus disk.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	// Jitter is in pixel units rather than a fixed world-space offset, so it
	// covers one pixel footprint whatever the scene scale.
	offset := core.SampleSquare(sampler)
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y))

	rayOrigin := c.center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(rayOrigin, pixelSample.Subtract(rayOrigin))
}

// defocusDiskSample returns a random point on the camera defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}
