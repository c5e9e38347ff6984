// Package canvas abstracts over the two image-processing backends the sprite
// engine can render with. The two libraries expose different accessor and
// compose-operation names; Buffer normalizes them to one capability set:
// width, height, compose-at-offset, and blank allocation.
package canvas

import (
	"image"
	"image/png"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/stagehand-dev/stagehand/pkg/errors"
)

// Backend selects an image-processing implementation.
type Backend string

const (
	// BackendGG renders through fogleman/gg drawing contexts.
	BackendGG Backend = "gg"

	// BackendImaging renders through disintegration/imaging operations.
	BackendImaging Backend = "imaging"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendImaging

// ParseBackend validates a backend name, mapping "" to the default.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case "":
		return DefaultBackend, nil
	case BackendGG:
		return BackendGG, nil
	case BackendImaging:
		return BackendImaging, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unknown image backend %q", name)
	}
}

// Buffer is a mutable raster image with a normalized capability set.
// Implementations are not safe for concurrent mutation.
type Buffer interface {
	// Width returns the pixel width.
	Width() int

	// Height returns the pixel height.
	Height() int

	// Compose draws src with its top-left corner at (x, y). Pixels falling
	// outside the buffer are clipped.
	Compose(src Buffer, x, y int)

	// Image exposes the underlying pixels for encoding.
	Image() image.Image
}

// New allocates a blank transparent buffer.
func New(backend Backend, w, h int) Buffer {
	switch backend {
	case BackendGG:
		return newGGBuffer(w, h)
	default:
		return newImagingBuffer(w, h)
	}
}

// From wraps a decoded image in a buffer of the given backend.
func From(backend Backend, img image.Image) Buffer {
	switch backend {
	case BackendGG:
		return ggFromImage(img)
	default:
		return imagingFromImage(img)
	}
}

// Decode reads an image (PNG, GIF, or JPEG) into a buffer.
func Decode(backend Backend, r io.Reader) (Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return From(backend, img), nil
}

// LoadFile decodes an image file into a buffer.
func LoadFile(backend Backend, path string) (Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(backend, f)
}

// EncodePNG writes the buffer as PNG.
func EncodePNG(buf Buffer, w io.Writer) error {
	return png.Encode(w, buf.Image())
}

// WriteFile encodes the buffer as PNG at path.
func WriteFile(buf Buffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodePNG(buf, f)
}
