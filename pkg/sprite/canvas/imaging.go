package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// imagingBuffer renders through disintegration/imaging operations. The
// library's functions return fresh images, so every mutation swaps the
// backing *image.NRGBA.
type imagingBuffer struct {
	img *image.NRGBA
}

func newImagingBuffer(w, h int) *imagingBuffer {
	return &imagingBuffer{img: imaging.New(w, h, color.NRGBA{})}
}

func imagingFromImage(img image.Image) *imagingBuffer {
	return &imagingBuffer{img: imaging.Clone(img)}
}

func (b *imagingBuffer) Width() int  { return b.img.Bounds().Dx() }
func (b *imagingBuffer) Height() int { return b.img.Bounds().Dy() }

func (b *imagingBuffer) Compose(src Buffer, x, y int) {
	b.img = imaging.Overlay(b.img, src.Image(), image.Pt(x, y), 1.0)
}

func (b *imagingBuffer) Image() image.Image { return b.img }
