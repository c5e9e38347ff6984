package manifest

import "testing"

func TestHideIsIdempotent(t *testing.T) {
	m := newManifest(t)
	e := m.AddEntry("a.js", EntryOptions{})

	e.Hide()
	e.Hide()
	if !e.Hidden {
		t.Error("entry should be hidden")
	}
}

func TestMatches(t *testing.T) {
	m := newManifest(t)
	e := m.AddEntry("a.js", EntryOptions{Extra: map[string]any{"resource": "core"}})

	tests := []struct {
		name   string
		filter map[string]any
		want   bool
	}{
		{name: "empty filter matches", filter: nil, want: true},
		{name: "well-known field", filter: map[string]any{"filename": "a.js"}, want: true},
		{name: "flag field", filter: map[string]any{"composite": false}, want: true},
		{name: "extra field", filter: map[string]any{"resource": "core"}, want: true},
		{name: "all keys must match", filter: map[string]any{"filename": "a.js", "resource": "ui"}, want: false},
		{name: "mismatched value", filter: map[string]any{"ext": "css"}, want: false},
		{name: "unknown key", filter: map[string]any{"nonexistent": 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Matches(tt.filter); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestRootname(t *testing.T) {
	m := newManifest(t)

	withExt := m.AddEntry("icons/button.png", EntryOptions{})
	if got := withExt.Rootname(); got != "icons/button" {
		t.Errorf("Rootname() = %q, want icons/button", got)
	}

	noExt := m.AddEntry("LICENSE", EntryOptions{})
	if got := noExt.Rootname(); got != "LICENSE" {
		t.Errorf("Rootname() = %q, want LICENSE", got)
	}
}

func TestNormalizeExt(t *testing.T) {
	if got := normalizeExt(".css"); got != "css" {
		t.Errorf("normalizeExt(.css) = %q", got)
	}
	if got := normalizeExt("css"); got != "css" {
		t.Errorf("normalizeExt(css) = %q", got)
	}
	if got := normalizeExt(""); got != "" {
		t.Errorf("normalizeExt(empty) = %q", got)
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		want string
	}{
		{"foo.scss", "css", "foo.css"},
		{"a/b/foo.scss", "css", "a/b/foo.css"},
		{"a.b/foo", "js", "a.b/foo.js"},
		{"foo.min.js", "css", "foo.min.css"}, // only the trailing component
	}
	for _, tt := range tests {
		if got := replaceExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("replaceExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestEntryOptionsExtraIsCopied(t *testing.T) {
	m := newManifest(t)
	extra := map[string]any{"resource": "core"}
	e := m.AddEntry("a.js", EntryOptions{Extra: extra})

	extra["resource"] = "mutated"
	if e.Extra["resource"] != "core" {
		t.Error("entry Extra should be a copy of the options map")
	}
}
