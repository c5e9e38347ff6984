package manifest

import (
	"maps"
	"path"
	"strings"
)

// FindEntry resolves a static-asset reference that may omit its extension or
// supply only a path suffix (e.g. "button" for "icons/button.png").
//
// The fragment is split into root and extension. Among entries matching the
// filter, an entry qualifies when its extension equals the query extension
// (or the query supplied none) and its rootname ends with the query root at a
// path boundary. The first qualifying entry in insertion order wins; entries
// added earliest take precedence.
//
// If nothing matches locally the search recurses depth-first into the
// target's required targets (same language), preparing each manifest before
// searching it. A visited set keyed by target name makes cyclic dependency
// declarations safe; each recursion frame works on its own copy, so sibling
// branches cannot alias each other's bookkeeping.
//
// A nil entry with a nil error means not found, which callers must treat as a
// valid outcome. The error is non-nil only when preparing a required target's
// manifest fails.
func (m *Manifest) FindEntry(fragment string, filter Filter) (*Entry, error) {
	return m.findEntry(fragment, filter, nil)
}

func (m *Manifest) findEntry(fragment string, filter Filter, visited map[string]bool) (*Entry, error) {
	root, ext := splitFragment(fragment)

	for _, e := range m.Entries(filter.Hidden) {
		if !e.Matches(filter.Attrs) {
			continue
		}
		if ext != "" && e.Ext != ext {
			continue
		}
		if rootMatches(e.Rootname(), root) {
			return e, nil
		}
	}

	if m.target == nil {
		return nil, nil
	}

	// Each frame copies the visited set before extending it.
	seen := maps.Clone(visited)
	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[m.target.Name()] = true

	for _, req := range m.target.Required() {
		if req == nil || seen[req.Name()] {
			continue
		}
		child := req.ManifestFor(m.language)
		if child == nil || child == m {
			continue
		}
		if err := child.Prepare(); err != nil {
			return nil, err
		}
		if e, err := child.findEntry(fragment, filter, seen); e != nil || err != nil {
			return e, err
		}
	}

	return nil, nil
}

// splitFragment separates a lookup fragment into root and normalized
// extension. The extension may be empty.
func splitFragment(fragment string) (root, ext string) {
	e := path.Ext(fragment)
	return strings.TrimSuffix(fragment, e), normalizeExt(e)
}

// rootMatches reports whether an entry rootname satisfies a query root.
// The query must cover whole path components: "button" matches
// "icons/button" but not "icons/settings-button".
func rootMatches(entryRoot, queryRoot string) bool {
	if entryRoot == queryRoot {
		return true
	}
	return strings.HasSuffix(entryRoot, "/"+queryRoot)
}
