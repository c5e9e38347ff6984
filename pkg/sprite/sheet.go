// Package sprite combines image slices into composite sprite sheets. Slices
// are grouped by repeat mode and extension, packed along a single axis, and
// rendered onto one canvas per sheet. Per-slice placement is written back to
// the originating manifest entries for later CSS background-position output.
//
// # Architecture
//
// The engine runs in three stages, mirroring the build pass that drives it:
//
//  1. [Builder.Group] buckets slices into sheets keyed by repeat+extension.
//  2. [Builder.Layout] packs each sheet along its primary axis.
//  3. [Builder.Render] composes slice images onto the sheet canvas.
package sprite

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/stagehand-dev/stagehand/pkg/sprite/canvas"
)

// WasteThreshold is the cross-axis overhang, in pixels, beyond the smallest
// repeating slice that triggers a wasted-area warning. Layout never fails on
// waste; oversized sheets are legal, just expensive.
//
// TODO: expose as a project config knob once repeat-heavy themes show up in
// practice; so far the fixed value has been enough.
const WasteThreshold = 10

// Sheet is a single composite sprite under construction.
type Sheet struct {
	// Name keys the sheet: repeat mode plus extension, e.g. "repeat-x.png".
	Name string

	// Horizontal sheets pack along X. Fixed at creation: repeat-y slices
	// tile vertically, so their sheet must grow horizontally.
	Horizontal bool

	// Slices in append order. Layout preserves this order.
	Slices []*Slice

	// Final dimensions, set by layout.
	Width, Height int

	// Canvas holds the rendered image, set by render.
	Canvas canvas.Buffer
}

// Builder drives sprite sheet construction.
type Builder struct {
	// Backend selects the image library used for decoding and rendering.
	Backend canvas.Backend

	// Logger receives layout warnings. Defaults to the package logger.
	Logger *log.Logger
}

// NewBuilder returns a builder rendering with the given backend.
func NewBuilder(backend canvas.Backend) *Builder {
	return &Builder{Backend: backend, Logger: log.Default()}
}

// Group buckets slices into sheets. Every slice joins the sheet named by its
// repeat mode and extension; the sheet is created on first reference with its
// orientation fixed. Sheets come back sorted by name so callers iterate
// deterministically.
func (b *Builder) Group(slices []*Slice) []*Sheet {
	byName := make(map[string]*Sheet)
	for _, s := range slices {
		name := s.SheetName()
		sheet, ok := byName[name]
		if !ok {
			sheet = &Sheet{
				Name:       name,
				Horizontal: s.Repeat == RepeatY,
			}
			byName[name] = sheet
		}
		sheet.Slices = append(sheet.Slices, s)
	}

	sheets := make([]*Sheet, 0, len(byName))
	for _, sheet := range byName {
		sheets = append(sheets, sheet)
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].Name < sheets[j].Name })
	return sheets
}
