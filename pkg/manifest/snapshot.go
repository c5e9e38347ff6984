package manifest

import (
	"slices"

	"github.com/stagehand-dev/stagehand/pkg/errors"
)

// Snapshot produces a plain key/value record of the entry's attributes.
// only (when non-empty) selects keys to include; except removes keys after
// that. Source entries are serialized as their filenames.
func (e *Entry) Snapshot(only, except []string) map[string]any {
	doc := make(map[string]any, len(e.Extra)+10)
	for k, v := range e.Extra {
		doc[k] = v
	}
	doc["filename"] = e.Filename
	doc["build_path"] = e.BuildPath
	doc["staging_path"] = e.StagingPath
	doc["source_path"] = e.SourcePath
	doc["url"] = e.URL
	doc["ext"] = e.Ext
	doc["hidden"] = e.Hidden
	doc["composite"] = e.Composite
	doc["transform"] = e.Transform

	if len(e.SourceEntries) > 0 {
		srcs := make([]string, len(e.SourceEntries))
		for i, src := range e.SourceEntries {
			srcs[i] = src.Filename
		}
		doc["source_entries"] = srcs
	}

	// Inclusion filter runs before the exclusion filter.
	if len(only) > 0 {
		for k := range doc {
			if !slices.Contains(only, k) {
				delete(doc, k)
			}
		}
	}
	for _, k := range except {
		delete(doc, k)
	}

	return doc
}

// entryDocs coerces the snapshot "entries" value into a document list.
// JSON decoding produces []any; in-process snapshots keep the typed form.
func entryDocs(v any) ([]map[string]any, error) {
	switch list := v.(type) {
	case []map[string]any:
		return list, nil
	case []any:
		docs := make([]map[string]any, 0, len(list))
		for _, item := range list {
			doc, ok := item.(map[string]any)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidSnapshot,
					"entry snapshot has unexpected type %T", item)
			}
			docs = append(docs, doc)
		}
		return docs, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidSnapshot,
			"entries snapshot has unexpected type %T", v)
	}
}

// entryFromDoc reconstructs an entry bound to m from a snapshot document.
// It returns the source-entry filenames for the caller to relink once all
// entries exist.
func entryFromDoc(m *Manifest, doc map[string]any) (*Entry, []string, error) {
	e := &Entry{manifest: m, Extra: make(map[string]any)}
	var sources []string

	for k, v := range doc {
		switch k {
		case "filename":
			e.Filename, _ = v.(string)
		case "build_path":
			e.BuildPath, _ = v.(string)
		case "staging_path":
			e.StagingPath, _ = v.(string)
		case "source_path":
			e.SourcePath, _ = v.(string)
		case "url":
			e.URL, _ = v.(string)
		case "ext":
			e.Ext, _ = v.(string)
		case "hidden":
			e.Hidden, _ = v.(bool)
		case "composite":
			e.Composite, _ = v.(bool)
		case "transform":
			e.Transform, _ = v.(bool)
		case "source_entries":
			var err error
			sources, err = stringList(v)
			if err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err,
					"entry %q", e.Filename)
			}
		default:
			e.Extra[k] = v
		}
	}

	if e.Filename == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidSnapshot, "entry snapshot missing filename")
	}
	if err := errors.ValidateFilename(e.Filename); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "entry %q", e.Filename)
	}

	return e, sources, nil
}

// stringList coerces a snapshot value into a string slice.
func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return slices.Clone(list), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidSnapshot,
					"source entry reference has unexpected type %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidSnapshot,
			"source entry list has unexpected type %T", v)
	}
}
