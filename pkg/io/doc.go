// Package io provides JSON import and export for manifest snapshots.
//
// # Overview
//
// This package serializes manifests to and from the snapshot document
// format. The format is designed for:
//
//   - Inspection of build output by external tools
//   - Caching of built manifests for faster incremental builds
//   - Round-trip preservation: export, re-import, and rebuild identically
//
// # JSON Format
//
// A snapshot is a JSON object with the manifest's identity and an entries
// array:
//
//	{
//	  "language": "en",
//	  "target_name": "/contacts",
//	  "entries": [
//	    {"filename": "core.js", "ext": "js", "url": "/static/contacts/core.js"},
//	    {"filename": "app.js", "composite": true, "source_entries": ["core.js"]}
//	  ]
//	}
//
// Entry fields follow the manifest snapshot keys: filename, build_path,
// staging_path, source_path, url, ext, hidden, composite, transform, and
// source_entries (a list of source filenames). Any other keys round-trip
// through the entry's extension map.
//
// # Import
//
// Use [ImportJSON] to read a snapshot document from a file path, or
// [ReadJSON] to read from any io.Reader. [LoadFile] goes one step further
// and materializes the document into an existing manifest, relinking
// composite source references by filename:
//
//	m := target.ManifestFor("en")
//	if err := io.LoadFile(m, "snapshot.json"); err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the document structure. Errors are wrapped with
// context about the file or entry that caused the problem.
//
// # Export
//
// Use [ExportJSON] to write a manifest to a file, or [WriteJSON] to write to
// any io.Writer:
//
//	err := io.ExportJSON(m, manifest.SnapshotOptions{Hidden: true}, "snapshot.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Exports taken with Hidden set include hidden entries, which is required
// for full round-trip fidelity: composite sources are hidden, so a visible
// only export cannot relink them on import.
//
// # Concurrency
//
// All functions are safe to call concurrently with readers of the same
// manifest, but not with concurrent builds mutating it.
package io
