package output

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Format identifies an output encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported output extension %q (want .ppm, .png, .bmp, .tif or .tiff)", filepath.Ext(path))
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/x-portable-pixmap"
	}
}

// ToImage converts the framebuffer to an 8-bit RGBA image using the same
// gamma and quantization as the PPM encoder
func ToImage(fb *renderer.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := ToRGB(fb.At(x, y))
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// Encode writes fb to w in the given format
func Encode(w io.Writer, fb *renderer.Framebuffer, format Format) error {
	if format == FormatPPM {
		return WritePPM(w, fb)
	}
	return encodeImage(w, ToImage(fb), format)
}

func encodeImage(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("cannot encode %q as a raster image", format)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// EncodeBytes encodes fb into memory, e.g. for uploading
func EncodeBytes(fb *renderer.Framebuffer, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, fb, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes fb to path, choosing the format from its extension
func WriteFile(path string, fb *renderer.Framebuffer) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return createAndEncode(path, func(w io.Writer) error {
		return Encode(w, fb, format)
	})
}

// createAndEncode creates path and runs encode on it. A failing Close is
// reported as ErrWrite since buffered data may not have reached the disk.
func createAndEncode(path string, encode func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Thumbnail downsamples fb to fit within maxSize x maxSize, keeping the aspect ratio
func Thumbnail(fb *renderer.Framebuffer, maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, ToImage(fb), resize.Lanczos3)
}

// ThumbnailPath returns the PNG path used for the thumbnail of an output file
func ThumbnailPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.png"
}

// WriteThumbnail writes a PNG thumbnail of fb next to path
func WriteThumbnail(path string, fb *renderer.Framebuffer, maxSize uint) (string, error) {
	thumbPath := ThumbnailPath(path)
	thumb := Thumbnail(fb, maxSize)
	err := createAndEncode(thumbPath, func(w io.Writer) error {
		return encodeImage(w, thumb, FormatPNG)
	})
	if err != nil {
		return "", err
	}
	return thumbPath, nil
}
