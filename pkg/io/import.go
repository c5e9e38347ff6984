package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

// ReadJSON decodes a snapshot document from r.
//
// The input must be a JSON object with "language", "target_name", and
// "entries" fields. ReadJSON validates JSON structure only; field-level
// validation happens when the document is materialized into a manifest.
//
// The returned document is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (map[string]any, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// ImportJSON reads a JSON file at path and returns the decoded snapshot
// document.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. If the file cannot be opened, or if decoding fails, ImportJSON
// returns an error wrapping the underlying cause with the file path for
// context.
func ImportJSON(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFile imports the snapshot at path into m, replacing its entries and
// relinking composite source references by filename.
//
// LoadFile returns the same validation errors as [manifest.Manifest.Load]
// for documents whose identity does not match the manifest or whose entries
// are malformed.
func LoadFile(m *manifest.Manifest, path string) error {
	doc, err := ImportJSON(path)
	if err != nil {
		return err
	}
	return m.Load(doc)
}
