package canvas

import (
	"image"

	"github.com/fogleman/gg"
)

// ggBuffer renders through a fogleman/gg drawing context.
type ggBuffer struct {
	dc *gg.Context
}

func newGGBuffer(w, h int) *ggBuffer {
	return &ggBuffer{dc: gg.NewContext(w, h)}
}

func ggFromImage(img image.Image) *ggBuffer {
	return &ggBuffer{dc: gg.NewContextForImage(img)}
}

func (b *ggBuffer) Width() int  { return b.dc.Width() }
func (b *ggBuffer) Height() int { return b.dc.Height() }

func (b *ggBuffer) Compose(src Buffer, x, y int) {
	b.dc.DrawImage(src.Image(), x, y)
}

func (b *ggBuffer) Image() image.Image { return b.dc.Image() }
