package sprite

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/observability"
)

// Layout packs the sheet's slices along its primary axis (Y for vertical
// sheets, X for horizontal) and records each slice's placement. Slices
// without attached image data are loaded from disk first; a slice with no
// resolvable image aborts the pass.
//
// Repeating slices grow the cross axis by least common multiple with the
// size so far, which guarantees every repeating slice tiles evenly across
// the sheet. Non-repeating slices grow it by simple maximum. When the cross
// axis ends up more than [WasteThreshold] pixels beyond the smallest
// repeating slice, the overhang is reported as a warning and layout
// continues.
func (b *Builder) Layout(ctx context.Context, sheet *Sheet) error {
	logger := b.Logger
	if logger == nil {
		logger = log.Default()
	}

	cursor := 0
	cross := 0
	smallestRepeat := 0

	for _, s := range sheet.Slices {
		if err := s.Load(b.Backend); err != nil {
			return err
		}
		if s.Source == nil {
			return errors.New(errors.ErrCodeMissingSliceImage,
				"no image data for slice %q", s.Path)
		}
		s.Width = s.Source.Width()
		s.Height = s.Source.Height()

		primary, crossExtent := s.Height, s.Width
		minOffset, maxOffset := s.MinOffsetY, s.MaxOffsetY
		if sheet.Horizontal {
			primary, crossExtent = s.Width, s.Height
			minOffset, maxOffset = s.MinOffsetX, s.MaxOffsetX
		}

		if s.Repeat != NoRepeat {
			cross = lcm(cross, crossExtent)
			if smallestRepeat == 0 || crossExtent < smallestRepeat {
				smallestRepeat = crossExtent
			}
		} else if crossExtent > cross {
			cross = crossExtent
		}

		// Positive max offset reserves space before the slice, negative
		// min offset reserves space after it.
		if maxOffset > 0 {
			cursor += maxOffset
		}
		length := primary
		if minOffset < 0 {
			length += -minOffset
		}

		if sheet.Horizontal {
			s.X, s.Y = cursor, 0
		} else {
			s.X, s.Y = 0, cursor
		}
		cursor += length
	}

	if sheet.Horizontal {
		sheet.Width, sheet.Height = cursor, cross
	} else {
		sheet.Width, sheet.Height = cross, cursor
	}

	if smallestRepeat > 0 && cross-smallestRepeat > WasteThreshold {
		wasted := cross - smallestRepeat
		logger.Warn("sprite sheet wastes pixels from repeat size mismatch",
			"sheet", sheet.Name, "cross_axis", cross, "smallest_repeat", smallestRepeat,
			"wasted", wasted)
		observability.Sprite().OnWaste(ctx, sheet.Name, wasted)
	}

	for _, s := range sheet.Slices {
		s.applyPlacement(sheet.Name)
	}

	observability.Sprite().OnLayoutComplete(ctx, sheet.Name, len(sheet.Slices), sheet.Width, sheet.Height)
	return nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm treats zero as identity so the first repeating slice sets the size.
func lcm(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a / gcd(a, b) * b
}
