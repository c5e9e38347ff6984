package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

// WriteJSON encodes a manifest snapshot as JSON and writes it to w.
// The output can be re-imported with [ReadJSON] or [LoadFile] for
// round-trip processing.
func WriteJSON(m *manifest.Manifest, opts manifest.SnapshotOptions, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.Snapshot(opts)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a manifest snapshot to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *manifest.Manifest, opts manifest.SnapshotOptions, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, opts, f)
}
