package sprite

import (
	"context"
	"time"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/observability"
	"github.com/stagehand-dev/stagehand/pkg/sprite/canvas"
)

// Render allocates a transparent canvas sized to the sheet and composes
// every slice onto it at its computed placement. The sheet must be laid out
// first.
func (b *Builder) Render(ctx context.Context, sheet *Sheet) error {
	start := time.Now()
	err := b.render(sheet)
	observability.Sprite().OnRenderComplete(ctx, sheet.Name, time.Since(start), err)
	return err
}

func (b *Builder) render(sheet *Sheet) error {
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return errors.New(errors.ErrCodeInternal,
			"sheet %q has no layout; call Layout before Render", sheet.Name)
	}
	buf := canvas.New(b.Backend, sheet.Width, sheet.Height)
	for _, s := range sheet.Slices {
		if s.Source == nil {
			return errors.New(errors.ErrCodeMissingSliceImage,
				"no image data for slice %q", s.Path)
		}
		composeSlice(buf, sheet, s)
	}
	sheet.Canvas = buf
	return nil
}

// composeSlice draws one slice onto the sheet canvas. Non-repeating slices
// land once at their placement. Repeating slices fill a region spanning the
// sheet's full width (repeat-x) or height (repeat-y) by tiling the source at
// multiples of its own size, advancing along one axis then the other, so
// partial tiles at the edge are clipped by the canvas.
func composeSlice(buf canvas.Buffer, sheet *Sheet, s *Slice) {
	if s.Repeat == NoRepeat {
		buf.Compose(s.Source, s.X, s.Y)
		return
	}

	x0, y0 := s.X, s.Y
	w, h := s.Width, s.Height
	switch s.Repeat {
	case RepeatX:
		x0, w = 0, sheet.Width
	case RepeatY:
		y0, h = 0, sheet.Height
	}

	srcW, srcH := s.Source.Width(), s.Source.Height()
	for y := y0; y < y0+h; y += srcH {
		for x := x0; x < x0+w; x += srcW {
			buf.Compose(s.Source, x, y)
		}
	}
}

// Build runs the full pipeline over a slice set: group, layout, render.
// Sheets come back in name order with canvases attached.
func (b *Builder) Build(ctx context.Context, slices []*Slice) ([]*Sheet, error) {
	sheets := b.Group(slices)
	for _, sheet := range sheets {
		if err := b.Layout(ctx, sheet); err != nil {
			return nil, err
		}
		if err := b.Render(ctx, sheet); err != nil {
			return nil, err
		}
	}
	return sheets, nil
}
