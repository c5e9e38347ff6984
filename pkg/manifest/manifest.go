// Package manifest implements the build manifest core: a dependency-aware
// description of every artifact a (target, language) pair produces, and the
// bookkeeping rules for deriving artifacts from one another.
//
// # Architecture
//
// A Manifest owns an ordered list of entries. Build tasks populate it through
// three operations:
//
//   - AddEntry: a raw source file
//   - AddComposite: an artifact produced from several entries (concatenation)
//   - AddTransform: an artifact produced from exactly one entry (minify,
//     format conversion)
//
// Derived entries hide their sources, so only terminal artifacts reach the
// default enumeration, yet every intermediate step stays individually
// addressable for debugging and incremental rebuilds.
//
// The manifest lifecycle is Prepare (one-time, idempotent) then Build
// (repeatable; every invocation starts from zero entries). Both invoke
// optional hooks on the injected TaskRunner.
//
// # Usage
//
//	m := manifest.New(target, "en", tasks, manifest.Config{...})
//	if err := m.Build(); err != nil { ... }
//	entry := m.EntryFor("source/app.js", manifest.Filter{})
//
// # Concurrency
//
// A single Manifest is logically single-threaded: entry mutation must be
// serialized by the caller. Distinct manifests are independent and may build
// in parallel. Prepare is safe to call concurrently; cross-target lookups
// rely on that.
package manifest

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"
	"sync"
)

// Config supplies the path roots entries derive their identity from, plus the
// build mode. All roots are per-manifest; distinct languages of the same
// target get distinct staging subtrees.
type Config struct {
	SourceRoot  string // Directory holding the target's source files
	BuildRoot   string // Directory final output is written to
	StagingRoot string // Directory for intermediate artifacts
	URLRoot     string // Public URL prefix for built artifacts
	Mode        string // Build mode (e.g. "debug", "production")
}

// Manifest is the complete, buildable description of a target's output files
// for one language.
type Manifest struct {
	target   Target
	language string
	tasks    TaskRunner
	cfg      Config

	mu       sync.Mutex
	prepared bool

	entries []*Entry

	// stagingUUID is the next staging-path disambiguator. It is monotonic for
	// the life of the manifest and is never reset, even by Build.
	stagingUUID int

	// Extra holds manifest-level key/values stored by build tasks. It travels
	// with snapshots alongside the entries.
	Extra map[string]any
}

// New creates an empty, unprepared manifest for one (target, language) pair.
// tasks may be nil, in which case the lifecycle hooks are skipped.
func New(target Target, language string, tasks TaskRunner, cfg Config) *Manifest {
	return &Manifest{
		target:   target,
		language: language,
		tasks:    tasks,
		cfg:      cfg,
		Extra:    make(map[string]any),
	}
}

// Target returns the target this manifest belongs to.
func (m *Manifest) Target() Target { return m.target }

// Language returns the language this manifest describes.
func (m *Manifest) Language() string { return m.language }

// Mode returns the build mode from the manifest configuration.
func (m *Manifest) Mode() string { return m.cfg.Mode }

// Config returns the manifest configuration.
func (m *Manifest) Config() Config { return m.cfg }

// Prepared reports whether Prepare has run.
func (m *Manifest) Prepared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepared
}

// Prepare runs the one-time setup hook. It is idempotent: every call after
// the first is a no-op, permanently. The flag flips before the hook runs so
// concurrent cross-target lookups do not re-enter preparation; callers that
// need the hook's effects should confine the first Prepare to the build
// goroutine that owns this manifest.
func (m *Manifest) Prepare() error {
	m.mu.Lock()
	if m.prepared {
		m.mu.Unlock()
		return nil
	}
	m.prepared = true
	m.mu.Unlock()

	return m.invoke(TaskPrepare)
}

// Build prepares the manifest if needed, discards all current entries
// (hidden ones included), and re-runs the build hook. Build is deliberately
// not idempotent: every invocation starts from an empty entry list. The
// staging disambiguator counter survives the reset.
func (m *Manifest) Build() error {
	if err := m.Prepare(); err != nil {
		return err
	}

	m.entries = nil

	return m.invoke(TaskBuild)
}

// invoke runs a lifecycle task if the registry defines it.
// An absent registry or undefined task is silently skipped.
func (m *Manifest) invoke(name string) error {
	if m.tasks == nil || !m.tasks.TaskDefined(name) {
		return nil
	}

	tc := &TaskContext{
		Manifest: m,
		Target:   m.target,
	}
	if m.target != nil {
		tc.Config = m.target.Config()
		tc.Project = m.target.Project()
	}

	if err := m.tasks.Invoke(name, tc); err != nil {
		return fmt.Errorf("%s (%s, %s): %w", name, m.targetName(), m.language, err)
	}
	return nil
}

func (m *Manifest) targetName() string {
	if m.target == nil {
		return ""
	}
	return m.target.Name()
}

// =============================================================================
// Entry Creation
// =============================================================================

// AddEntry constructs an entry for filename, runs its preparation step
// (defaulting of ext, build/staging paths, and URL), and appends it.
// Preparation runs before the append so staging-path disambiguation sees
// every entry except the new one.
func (m *Manifest) AddEntry(filename string, opts EntryOptions) *Entry {
	e := newEntry(m, filename, opts)
	e.prepare()
	m.entries = append(m.entries, e)
	return e
}

// AddComposite adds an entry derived from opts.SourceEntries. Unless
// opts.KeepSources is set, every source entry is hidden as a side effect:
// sources are superseded by the composite and should not individually reach
// output.
func (m *Manifest) AddComposite(filename string, opts EntryOptions) *Entry {
	opts.Composite = true
	if opts.SourceEntries == nil {
		opts.SourceEntries = []*Entry{}
	}

	e := m.AddEntry(filename, opts)

	if !opts.KeepSources {
		for _, src := range e.SourceEntries {
			src.Hide()
		}
	}
	return e
}

// AddTransform derives a new entry from exactly one source entry, with
// automatic bookkeeping: identity fields are copied from the source unless
// overridden, the staging path is freshly disambiguated, and the source is
// hidden. If opts.Ext is set the trailing extension of every identity field
// is rewritten. The new entry is marked composite and transform.
func (m *Manifest) AddTransform(source *Entry, opts EntryOptions) *Entry {
	filename := source.Filename
	if opts.BuildPath == "" {
		opts.BuildPath = source.BuildPath
	}
	if opts.URL == "" {
		opts.URL = source.URL
	}
	if opts.StagingPath == "" {
		opts.StagingPath = source.StagingPath
	}

	ext := opts.Ext
	opts.Ext = source.Ext
	opts.Composite = true
	opts.Transform = true
	opts.SourceEntries = []*Entry{source}

	e := m.AddEntry(filename, opts)

	if ext != "" {
		e.rewriteExt(ext)
	}

	source.Hide()
	return e
}

// =============================================================================
// Lookup
// =============================================================================

// Filter narrows entry lookups. Hidden widens the search to hidden entries;
// Attrs requires exact attribute matches (see Entry.Matches).
type Filter struct {
	Hidden bool
	Attrs  map[string]any
}

// Entries returns the manifest's entries in insertion order. Hidden entries
// are included only when includeHidden is set.
func (m *Manifest) Entries(includeHidden bool) []*Entry {
	if includeHidden {
		return m.entries
	}
	visible := make([]*Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.Hidden {
			visible = append(visible, e)
		}
	}
	return visible
}

// EntryFor returns the first entry whose filename equals the query and whose
// remaining attributes match the filter, or nil if none exists. A nil result
// is a valid outcome, not an error.
func (m *Manifest) EntryFor(filename string, filter Filter) *Entry {
	for _, e := range m.Entries(filter.Hidden) {
		if e.Filename == filename && e.Matches(filter.Attrs) {
			return e
		}
	}
	return nil
}

// UniqueStagingPath returns candidate unchanged if no entry (hidden ones
// included) uses it, or a disambiguated variant otherwise. Disambiguation
// inserts "__$N" immediately before the extension, replacing any previous
// token; N is manifest-scoped and monotonically increasing, never reused.
func (m *Manifest) UniqueStagingPath(candidate string) string {
	used := make(map[string]bool, len(m.entries))
	for _, e := range m.entries {
		used[e.StagingPath] = true
	}

	for used[candidate] {
		ext := filepath.Ext(candidate)
		root := strings.TrimSuffix(candidate, ext)
		root = stripStagingToken(root)
		m.stagingUUID++
		candidate = fmt.Sprintf("%s__$%d%s", root, m.stagingUUID, ext)
	}
	return candidate
}

// stripStagingToken removes a trailing "__$N" disambiguator, if present.
func stripStagingToken(root string) string {
	i := strings.LastIndex(root, "__$")
	if i < 0 {
		return root
	}
	suffix := root[i+3:]
	if suffix == "" {
		return root
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return root
		}
	}
	return root[:i]
}

// =============================================================================
// Snapshot / Load
// =============================================================================

// SnapshotOptions filters snapshot output. Only is applied before Except;
// Hidden includes hidden entries in the entry list.
type SnapshotOptions struct {
	Only   []string
	Except []string
	Hidden bool
}

// Snapshot produces a plain key/value document of the manifest: its stored
// keys, its language, the owning target's name under "target_name", and the
// serialized entries under "entries".
func (m *Manifest) Snapshot(opts SnapshotOptions) map[string]any {
	doc := make(map[string]any, len(m.Extra)+3)
	maps.Copy(doc, m.Extra)
	doc["language"] = m.language
	doc["target_name"] = m.targetName()

	entries := make([]map[string]any, 0, len(m.entries))
	for _, e := range m.Entries(opts.Hidden) {
		entries = append(entries, e.Snapshot(opts.Only, opts.Except))
	}
	doc["entries"] = entries

	return doc
}

// Load replaces the manifest's stored keys and entries from a snapshot,
// reconstructing entries bound to this manifest. Source linkage is restored
// by filename: a source filename that resolves to no loaded entry is dropped.
func (m *Manifest) Load(doc map[string]any) error {
	m.entries = nil
	m.Extra = make(map[string]any)

	var rawEntries []map[string]any
	for k, v := range doc {
		switch k {
		case "entries":
			var err error
			rawEntries, err = entryDocs(v)
			if err != nil {
				return err
			}
		case "target_name":
			// Informational; the manifest keeps its own target binding.
		case "language":
			if s, ok := v.(string); ok {
				m.language = s
			}
		default:
			m.Extra[k] = v
		}
	}

	// First pass: materialize entries. Second pass: relink sources.
	sources := make([][]string, len(rawEntries))
	for i, raw := range rawEntries {
		e, srcs, err := entryFromDoc(m, raw)
		if err != nil {
			return err
		}
		m.entries = append(m.entries, e)
		sources[i] = srcs
	}

	for i, e := range m.entries {
		for _, src := range sources[i] {
			if linked := m.EntryFor(src, Filter{Hidden: true}); linked != nil {
				e.SourceEntries = append(e.SourceEntries, linked)
			}
		}
	}

	return nil
}
