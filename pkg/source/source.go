// Package source discovers a target's source files and registers them as
// manifest entries. It provides the standard build task the CLI wires into
// every project; embedders with custom discovery register their own task
// instead.
package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
	"github.com/stagehand-dev/stagehand/pkg/project"
)

// skipDirs are directory names never scanned for entries.
var skipDirs = map[string]bool{
	"tmp":          true,
	"node_modules": true,
}

// RegisterTasks installs the standard scan task on a task set.
func RegisterTasks(tasks *project.TaskSet) {
	tasks.Define(manifest.TaskBuild, Scan)
}

// Scan walks the manifest's source root and adds one entry per regular
// file, using the root-relative path as the entry filename. Dotfiles and
// build output directories are skipped; a filename that fails validation
// (traversal sequences, control characters) fails the build. A missing
// source root is not an error; the manifest simply builds empty.
//
// filepath.WalkDir visits entries in lexical order, so repeated scans of an
// unchanged tree produce identical manifests.
func Scan(tc *manifest.TaskContext) error {
	root := tc.Manifest.Config().SourceRoot
	if root == "" {
		return nil
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || (d.IsDir() && skipDirs[name])) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name = filepath.ToSlash(rel)
		if err := errors.ValidateFilename(name); err != nil {
			return err
		}
		tc.Manifest.AddEntry(name, manifest.EntryOptions{
			SourcePath: path,
		})
		return nil
	})
}
