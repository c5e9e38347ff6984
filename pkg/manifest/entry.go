package manifest

import (
	"maps"
	"path"
	"path/filepath"
	"strings"
)

// Entry is a semantic record of one build artifact: a source file, or an
// artifact derived from other entries (a composite or a transform).
//
// Entries carry a fixed set of well-known fields plus an Extra map for
// build-task-specific metadata. Derived entries reference their sources via
// SourceEntries; sources continue to exist in the manifest, just hidden.
type Entry struct {
	manifest *Manifest

	Filename    string // Logical project-relative path (e.g. "source/views/list.js")
	BuildPath   string // Final output location on disk
	StagingPath string // Intermediate build location, unique within the manifest
	SourcePath  string // Original file on disk (raw entries only)
	URL         string // Public URL of the built artifact
	Ext         string // Extension without dot (e.g. "js"), kept normalized

	Hidden    bool // Excluded from default enumeration once superseded
	Composite bool // Produced from other entries
	Transform bool // Produced by a transform rule (implies Composite)

	// SourceEntries is the ordered sequence of entries this one was derived
	// from. The derived entry does not own its sources.
	SourceEntries []*Entry

	// Extra holds arbitrary build-task metadata (e.g. sprite slice offsets).
	Extra map[string]any
}

// EntryOptions configures entry creation. Zero fields fall back to defaults
// derived from the manifest configuration during preparation.
type EntryOptions struct {
	BuildPath   string
	StagingPath string
	SourcePath  string
	URL         string
	Ext         string

	Hidden    bool
	Composite bool
	Transform bool

	SourceEntries []*Entry

	// KeepSources prevents AddComposite from hiding the source entries.
	KeepSources bool

	// Extra is copied into the entry's extension map.
	Extra map[string]any
}

// newEntry creates an entry bound to m. The caller appends it to the
// manifest's entry list; creation itself does not mutate the manifest.
func newEntry(m *Manifest, filename string, opts EntryOptions) *Entry {
	e := &Entry{
		manifest:      m,
		Filename:      filename,
		BuildPath:     opts.BuildPath,
		StagingPath:   opts.StagingPath,
		SourcePath:    opts.SourcePath,
		URL:           opts.URL,
		Ext:           normalizeExt(opts.Ext),
		Hidden:        opts.Hidden,
		Composite:     opts.Composite,
		Transform:     opts.Transform,
		SourceEntries: opts.SourceEntries,
		Extra:         maps.Clone(opts.Extra),
	}
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	return e
}

// prepare fills defaulted identity fields from the manifest configuration.
// Composite entries get no SourcePath; they exist only as derived artifacts.
func (e *Entry) prepare() {
	cfg := e.manifest.cfg
	lang := e.manifest.language

	if e.Ext == "" {
		e.Ext = normalizeExt(path.Ext(e.Filename))
	}
	if e.BuildPath == "" {
		e.BuildPath = filepath.Join(cfg.BuildRoot, lang, filepath.FromSlash(e.Filename))
	}
	if e.StagingPath == "" {
		e.StagingPath = filepath.Join(cfg.StagingRoot, lang, filepath.FromSlash(e.Filename))
	}
	// Disambiguated unconditionally so the uniqueness invariant holds for
	// caller-supplied staging paths too, not just derived ones.
	e.StagingPath = e.manifest.UniqueStagingPath(e.StagingPath)
	if e.URL == "" {
		e.URL = path.Join(cfg.URLRoot, lang, e.Filename)
	}
	if e.SourcePath == "" && !e.Composite {
		e.SourcePath = filepath.Join(cfg.SourceRoot, filepath.FromSlash(e.Filename))
	}
}

// Hide marks the entry as hidden. Hidden entries are excluded from default
// enumeration but remain resolvable when callers explicitly request hidden
// entries. Hide is idempotent.
func (e *Entry) Hide() {
	e.Hidden = true
}

// SourceEntry returns the first source entry, or nil for raw file entries.
func (e *Entry) SourceEntry() *Entry {
	if len(e.SourceEntries) == 0 {
		return nil
	}
	return e.SourceEntries[0]
}

// Manifest returns the owning manifest.
func (e *Entry) Manifest() *Manifest {
	return e.manifest
}

// Rootname returns the filename with its trailing extension removed.
func (e *Entry) Rootname() string {
	if e.Ext == "" {
		return e.Filename
	}
	return strings.TrimSuffix(e.Filename, "."+e.Ext)
}

// Matches reports whether every attribute in filter equals the corresponding
// stored value. Attributes absent from filter are ignored. Well-known fields
// are addressed by their snapshot keys ("filename", "ext", "composite", ...);
// any other key is looked up in Extra.
func (e *Entry) Matches(filter map[string]any) bool {
	for k, want := range filter {
		got, ok := e.attr(k)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// attr resolves an attribute by snapshot key.
func (e *Entry) attr(key string) (any, bool) {
	switch key {
	case "filename":
		return e.Filename, true
	case "build_path":
		return e.BuildPath, true
	case "staging_path":
		return e.StagingPath, true
	case "source_path":
		return e.SourcePath, true
	case "url":
		return e.URL, true
	case "ext":
		return e.Ext, true
	case "hidden":
		return e.Hidden, true
	case "composite":
		return e.Composite, true
	case "transform":
		return e.Transform, true
	default:
		v, ok := e.Extra[key]
		return v, ok
	}
}

// rewriteExt replaces the trailing extension component of filename,
// build path, staging path and URL with ext, and stores the normalized
// extension. Only the final extension is replaced; earlier dots survive.
func (e *Entry) rewriteExt(ext string) {
	ext = normalizeExt(ext)
	e.Filename = replaceExt(e.Filename, ext)
	e.BuildPath = replaceExt(e.BuildPath, ext)
	e.StagingPath = replaceExt(e.StagingPath, ext)
	e.URL = replaceExt(e.URL, ext)
	e.Ext = ext
}

// normalizeExt strips a leading dot and lowercases nothing else.
func normalizeExt(ext string) string {
	return strings.TrimPrefix(ext, ".")
}

// replaceExt swaps the trailing extension of p for ext (without dot).
// A path with no extension gets ext appended.
func replaceExt(p, ext string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + "." + ext
}
