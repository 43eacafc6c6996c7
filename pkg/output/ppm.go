package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrWrite is returned (wrapped) when the destination rejects a write
var ErrWrite = errors.New("output: write failed")

// LinearToGamma applies gamma 2 to a linear component. Non-positive and NaN
// values map to 0.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// maxChannel is the PPM maximum channel value
const maxChannel = 255

// ToByte converts a linear component to an 8-bit display value: gamma 2,
// clamp to [0, 0.999], scale by 255 and truncate. Full white encodes as 254.
func ToByte(linear float64) uint8 {
	g := LinearToGamma(linear)
	g = max(0, min(0.999, g))
	return uint8(maxChannel * g)
}

// ToRGB converts a linear color to 8-bit display components
func ToRGB(c core.Vec3) (r, g, b uint8) {
	return ToByte(c.X), ToByte(c.Y), ToByte(c.Z)
}

// WritePPM writes fb as a plain-text P3 image: the header "P3", then
// "<width> <height>", then "255", followed by one "r g b" line per pixel in
// raster order.
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", fb.Width, fb.Height, maxChannel); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, p := range fb.Pixels {
		r, g, b := ToRGB(p)
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
