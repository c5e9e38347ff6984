package sprite

import (
	"path/filepath"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
	"github.com/stagehand-dev/stagehand/pkg/sprite/canvas"
)

// RepeatMode controls how a slice tiles when used as a CSS background.
type RepeatMode string

const (
	NoRepeat RepeatMode = "no-repeat"
	RepeatX  RepeatMode = "repeat-x"
	RepeatY  RepeatMode = "repeat-y"
)

// ParseRepeat validates a repeat mode, mapping "" to no-repeat.
func ParseRepeat(s string) (RepeatMode, error) {
	switch RepeatMode(s) {
	case "":
		return NoRepeat, nil
	case NoRepeat, RepeatX, RepeatY:
		return RepeatMode(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown repeat mode %q", s)
	}
}

// Slice is a rectangular sub-image destined for a sprite sheet. Slices are
// owned by the manifest entries that produced them; sheets only reference
// them.
type Slice struct {
	// Path identifies the source image, used in sheet keys and errors.
	Path string

	// Repeat controls tiling behavior and sheet grouping.
	Repeat RepeatMode

	// Manual offset bounds extend the space reserved on the layout axis.
	// A negative min offset pads after the slice, a positive max offset
	// pads before it.
	MinOffsetX, MinOffsetY int
	MaxOffsetX, MaxOffsetY int

	// Source holds the decoded image data. Layout fails without it.
	Source canvas.Buffer

	// Entry is the originating manifest entry, when the slice was derived
	// from one. Placement metadata is written back to it after layout.
	Entry *manifest.Entry

	// Placement within the sheet, filled in by layout.
	X, Y          int
	Width, Height int
}

// Ext returns the slice's image extension including the leading dot.
func (s *Slice) Ext() string {
	ext := filepath.Ext(s.Path)
	if ext == "" {
		ext = ".png"
	}
	return ext
}

// SheetName is the sheet key the slice belongs to: repeat mode plus image
// extension, so "icon.png" with repeat-x joins "repeat-x.png".
func (s *Slice) SheetName() string {
	return string(s.Repeat) + s.Ext()
}

// Load decodes the slice's source image from disk unless image data is
// already attached. A slice with no resolvable image is a configuration
// error that aborts the spriting pass.
func (s *Slice) Load(backend canvas.Backend) error {
	if s.Source != nil {
		return nil
	}
	path := s.Path
	if s.Entry != nil && s.Entry.SourcePath != "" {
		path = s.Entry.SourcePath
	}
	buf, err := canvas.LoadFile(backend, path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMissingSliceImage, err,
			"no image data for slice %q", s.Path)
	}
	s.Source = buf
	return nil
}

// imageExts lists the raster formats eligible for spriting.
var imageExts = map[string]bool{"png": true, "gif": true, "jpg": true, "jpeg": true}

// FromEntries derives slices from a manifest's visible image entries.
// Repeat mode and manual offsets are read from entry metadata when present;
// unknown repeat values fall back to no-repeat rather than failing, since
// entry metadata is author-supplied.
func FromEntries(m *manifest.Manifest) []*Slice {
	var slices []*Slice
	for _, e := range m.Entries(false) {
		if e.Composite || !imageExts[e.Ext] {
			continue
		}
		repeat, err := ParseRepeat(extraString(e, "repeat"))
		if err != nil {
			repeat = NoRepeat
		}
		slices = append(slices, &Slice{
			Path:       e.Filename,
			Repeat:     repeat,
			MinOffsetX: extraInt(e, "min_offset_x"),
			MinOffsetY: extraInt(e, "min_offset_y"),
			MaxOffsetX: extraInt(e, "max_offset_x"),
			MaxOffsetY: extraInt(e, "max_offset_y"),
			Entry:      e,
		})
	}
	return slices
}

func extraString(e *manifest.Entry, key string) string {
	s, _ := e.Extra[key].(string)
	return s
}

func extraInt(e *manifest.Entry, key string) int {
	switch v := e.Extra[key].(type) {
	case int:
		return v
	case float64: // JSON round-trips numbers as float64
		return int(v)
	default:
		return 0
	}
}

// applyPlacement records the computed position on the originating manifest
// entry so later CSS generation can emit background offsets.
func (s *Slice) applyPlacement(sheet string) {
	if s.Entry == nil {
		return
	}
	if s.Entry.Extra == nil {
		s.Entry.Extra = make(map[string]any)
	}
	s.Entry.Extra["sprite_name"] = sheet
	s.Entry.Extra["sprite_slice_x"] = s.X
	s.Entry.Extra["sprite_slice_y"] = s.Y
	s.Entry.Extra["sprite_slice_width"] = s.Width
	s.Entry.Extra["sprite_slice_height"] = s.Height
}
