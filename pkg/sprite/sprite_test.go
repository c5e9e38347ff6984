package sprite

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
	"github.com/stagehand-dev/stagehand/pkg/observability"
	"github.com/stagehand-dev/stagehand/pkg/sprite/canvas"
)

func testSlice(path string, repeat RepeatMode, w, h int) *Slice {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, A: 255})
		}
	}
	return &Slice{
		Path:   path,
		Repeat: repeat,
		Source: canvas.From(canvas.BackendImaging, img),
	}
}

func TestParseRepeat(t *testing.T) {
	tests := []struct {
		in      string
		want    RepeatMode
		wantErr bool
	}{
		{"", NoRepeat, false},
		{"no-repeat", NoRepeat, false},
		{"repeat-x", RepeatX, false},
		{"repeat-y", RepeatY, false},
		{"repeat-both", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRepeat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRepeat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRepeat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGroupBucketsByRepeatAndExt(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	sheets := b.Group([]*Slice{
		testSlice("a.png", NoRepeat, 4, 4),
		testSlice("b.png", NoRepeat, 4, 4),
		testSlice("c.png", RepeatX, 4, 4),
		testSlice("d.gif", RepeatX, 4, 4),
		testSlice("e.png", RepeatY, 4, 4),
	})

	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	want := []string{"no-repeat.png", "repeat-x.gif", "repeat-x.png", "repeat-y.png"}
	if len(names) != len(want) {
		t.Fatalf("got sheets %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got sheets %v, want %v", names, want)
		}
	}

	for _, s := range sheets {
		wantHorizontal := s.Name == "repeat-y.png"
		if s.Horizontal != wantHorizontal {
			t.Errorf("sheet %s: Horizontal = %v, want %v", s.Name, s.Horizontal, wantHorizontal)
		}
	}
}

func TestLayoutStacksVertically(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	first := testSlice("first.png", NoRepeat, 16, 20)
	second := testSlice("second.png", NoRepeat, 10, 30)
	sheet := &Sheet{Name: "no-repeat.png", Slices: []*Slice{first, second}}

	if err := b.Layout(context.Background(), sheet); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if first.Y != 0 {
		t.Errorf("first slice Y = %d, want 0", first.Y)
	}
	if second.Y != 20 {
		t.Errorf("second slice Y = %d, want cumulative height 20", second.Y)
	}
	if sheet.Height < 50 {
		t.Errorf("sheet height = %d, want >= 50", sheet.Height)
	}
	if sheet.Width != 16 {
		t.Errorf("sheet width = %d, want max slice width 16", sheet.Width)
	}
}

func TestLayoutHorizontalForRepeatY(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	first := testSlice("first.png", RepeatY, 8, 6)
	second := testSlice("second.png", RepeatY, 12, 6)
	sheet := &Sheet{Name: "repeat-y.png", Horizontal: true, Slices: []*Slice{first, second}}

	if err := b.Layout(context.Background(), sheet); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if first.X != 0 || second.X != 8 {
		t.Errorf("slice X positions = %d, %d; want 0, 8", first.X, second.X)
	}
	if sheet.Width != 20 {
		t.Errorf("sheet width = %d, want 20", sheet.Width)
	}
	if sheet.Height != 6 {
		t.Errorf("sheet height = %d, want lcm(6, 6) = 6", sheet.Height)
	}
}

func TestLayoutRepeatCrossAxisLCM(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	sheet := &Sheet{Name: "repeat-x.png", Slices: []*Slice{
		testSlice("a.png", RepeatX, 4, 2),
		testSlice("b.png", RepeatX, 6, 2),
	}}

	if err := b.Layout(context.Background(), sheet); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if sheet.Width != 12 {
		t.Errorf("sheet width = %d, want lcm(4, 6) = 12", sheet.Width)
	}
}

func TestLayoutOffsetPadding(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	padded := testSlice("padded.png", NoRepeat, 4, 10)
	padded.MaxOffsetY = 5  // leading padding
	padded.MinOffsetY = -3 // trailing padding
	after := testSlice("after.png", NoRepeat, 4, 10)
	sheet := &Sheet{Name: "no-repeat.png", Slices: []*Slice{padded, after}}

	if err := b.Layout(context.Background(), sheet); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if padded.Y != 5 {
		t.Errorf("padded slice Y = %d, want 5 after leading pad", padded.Y)
	}
	if after.Y != 18 {
		t.Errorf("next slice Y = %d, want 5+10+3 = 18", after.Y)
	}
}

func TestLayoutWritesPlacementToEntry(t *testing.T) {
	m := manifest.New(nil, "en", nil, manifest.Config{})
	entry := m.AddEntry("icons/save.png", manifest.EntryOptions{})

	b := NewBuilder(canvas.BackendImaging)
	s := testSlice("icons/save.png", NoRepeat, 8, 8)
	s.Entry = entry
	sheet := &Sheet{Name: "no-repeat.png", Slices: []*Slice{s}}
	if err := b.Layout(context.Background(), sheet); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if got := entry.Extra["sprite_name"]; got != "no-repeat.png" {
		t.Errorf("sprite_name = %v, want no-repeat.png", got)
	}
	for key, want := range map[string]int{
		"sprite_slice_x": 0, "sprite_slice_y": 0,
		"sprite_slice_width": 8, "sprite_slice_height": 8,
	} {
		if got := entry.Extra[key]; got != want {
			t.Errorf("%s = %v, want %d", key, got, want)
		}
	}
}

type recordingSpriteHooks struct {
	observability.NoopSpriteHooks
	wasted map[string]int
}

func (h *recordingSpriteHooks) OnWaste(_ context.Context, sheet string, wasted int) {
	h.wasted[sheet] = wasted
}

func TestLayoutWarnsOnWaste(t *testing.T) {
	hooks := &recordingSpriteHooks{wasted: make(map[string]int)}
	observability.SetSpriteHooks(hooks)
	defer observability.Reset()

	b := NewBuilder(canvas.BackendImaging)
	sheet := &Sheet{Name: "repeat-x.png", Slices: []*Slice{
		testSlice("a.png", RepeatX, 7, 2),
		testSlice("b.png", RepeatX, 9, 2),
	}}
	// lcm(7, 9) = 63, overhang past the 7px slice is 56, well over threshold.
	if err := b.Layout(context.Background(), sheet); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if got := hooks.wasted["repeat-x.png"]; got != 56 {
		t.Errorf("wasted = %d, want 56", got)
	}
}

func TestLayoutMissingImageFatal(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	sheet := &Sheet{Name: "no-repeat.png", Slices: []*Slice{
		{Path: "does/not/exist.png", Repeat: NoRepeat},
	}}
	err := b.Layout(context.Background(), sheet)
	if err == nil {
		t.Fatal("expected error for slice without image data")
	}
	if !errors.Is(err, errors.ErrCodeMissingSliceImage) {
		t.Errorf("error code = %v, want MISSING_SLICE_IMAGE", errors.GetCode(err))
	}
}

// fakeCanvas records compose positions without touching pixels.
type fakeCanvas struct {
	w, h  int
	calls []image.Point
}

func (f *fakeCanvas) Width() int  { return f.w }
func (f *fakeCanvas) Height() int { return f.h }

func (f *fakeCanvas) Compose(_ canvas.Buffer, x, y int) {
	f.calls = append(f.calls, image.Pt(x, y))
}


func (f *fakeCanvas) Image() image.Image { return image.NewNRGBA(image.Rect(0, 0, f.w, f.h)) }

func TestComposeRepeatXTilesFullWidth(t *testing.T) {
	s := testSlice("bar.png", RepeatX, 10, 4)
	s.X, s.Y = 0, 8
	s.Width, s.Height = 10, 4
	sheet := &Sheet{Name: "repeat-x.png", Width: 35, Height: 20}

	buf := &fakeCanvas{w: 35, h: 20}
	composeSlice(buf, sheet, s)

	want := []image.Point{{0, 8}, {10, 8}, {20, 8}, {30, 8}}
	if len(buf.calls) != len(want) {
		t.Fatalf("got %d compose calls %v, want %v", len(buf.calls), buf.calls, want)
	}
	for i, p := range want {
		if buf.calls[i] != p {
			t.Errorf("call %d at %v, want %v", i, buf.calls[i], p)
		}
	}
}

func TestComposeNoRepeatSinglePlacement(t *testing.T) {
	s := testSlice("icon.png", NoRepeat, 6, 6)
	s.X, s.Y = 2, 14
	s.Width, s.Height = 6, 6
	sheet := &Sheet{Name: "no-repeat.png", Width: 10, Height: 30}

	buf := &fakeCanvas{w: 10, h: 30}
	composeSlice(buf, sheet, s)
	if len(buf.calls) != 1 || buf.calls[0] != image.Pt(2, 14) {
		t.Errorf("compose calls = %v, want single call at (2,14)", buf.calls)
	}
}

func TestBuildEndToEnd(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	sheets, err := b.Build(context.Background(), []*Slice{
		testSlice("a.png", NoRepeat, 5, 5),
		testSlice("b.png", NoRepeat, 5, 7),
		testSlice("c.png", RepeatX, 4, 3),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(sheets))
	}
	for _, sheet := range sheets {
		if sheet.Canvas == nil {
			t.Errorf("sheet %s has no canvas", sheet.Name)
			continue
		}
		if sheet.Canvas.Width() != sheet.Width || sheet.Canvas.Height() != sheet.Height {
			t.Errorf("sheet %s canvas %dx%d, want %dx%d", sheet.Name,
				sheet.Canvas.Width(), sheet.Canvas.Height(), sheet.Width, sheet.Height)
		}
	}
}

func TestFromEntries(t *testing.T) {
	m := manifest.New(nil, "en", nil, manifest.Config{})
	m.AddEntry("icons/save.png", manifest.EntryOptions{})
	repeat := m.AddEntry("backgrounds/stripe.png", manifest.EntryOptions{
		Extra: map[string]any{"repeat": "repeat-x", "min_offset_y": -4},
	})
	m.AddEntry("app.js", manifest.EntryOptions{})
	hidden := m.AddEntry("icons/old.png", manifest.EntryOptions{})
	hidden.Hide()

	slices := FromEntries(m)
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2 (js and hidden entries excluded)", len(slices))
	}
	var stripe *Slice
	for _, s := range slices {
		if s.Path == repeat.Filename {
			stripe = s
		}
	}
	if stripe == nil {
		t.Fatal("repeat entry missing from slices")
	}
	if stripe.Repeat != RepeatX {
		t.Errorf("stripe repeat = %q, want repeat-x", stripe.Repeat)
	}
	if stripe.MinOffsetY != -4 {
		t.Errorf("stripe MinOffsetY = %d, want -4", stripe.MinOffsetY)
	}
}

func TestRenderBeforeLayoutFails(t *testing.T) {
	b := NewBuilder(canvas.BackendImaging)
	sheet := &Sheet{Name: "no-repeat.png", Slices: []*Slice{testSlice("a.png", NoRepeat, 4, 4)}}
	if err := b.Render(context.Background(), sheet); err == nil {
		t.Fatal("expected error rendering an unlaid-out sheet")
	}
}
