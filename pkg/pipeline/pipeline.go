// Package pipeline drives full project builds: prepare → build → sprite →
// snapshot for every (target, language) pair. Both the CLI and embedding
// programs use it, so caching and concurrency live here rather than being
// duplicated per entry point.
//
// # Architecture
//
// For each selected target and language the pipeline:
//
//  1. Restores the manifest from a cached snapshot when possible.
//  2. Otherwise runs the manifest's prepare and build tasks.
//  3. Groups image entries into sprite sheets and renders them.
//  4. Serializes the manifest snapshot and caches it.
//
// Pairs build concurrently under a bounded worker pool; entries within one
// manifest always build serially.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, proj, pipeline.Options{
//	    Targets: []string{"/contacts"},
//	    Sprite:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, mr := range result.Manifests {
//	    fmt.Println(mr.Target, mr.Language, mr.EntryCount)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
	"github.com/stagehand-dev/stagehand/pkg/sprite"
	"github.com/stagehand-dev/stagehand/pkg/sprite/canvas"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Embedders
// =============================================================================

const (
	// DefaultConcurrency bounds the worker pool. Manifest builds are I/O
	// heavy (file scans, image decodes) so a small pool saturates a laptop
	// without thrashing CI runners.
	DefaultConcurrency = 4

	// MaxConcurrency caps user-supplied pool sizes.
	MaxConcurrency = 32
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. The zero value builds every app target
// in every project language with spriting disabled.
// This struct supports JSON serialization for remote build requests.
type Options struct {
	// Targets restricts the build to the named targets. Empty means all
	// app targets.
	Targets []string `json:"targets,omitempty"`

	// Languages restricts the build languages. Empty means every language
	// the project declares.
	Languages []string `json:"languages,omitempty"`

	// Mode overrides the project build mode for cache keying.
	Mode string `json:"mode,omitempty"`

	// Concurrency bounds the number of manifests building at once.
	Concurrency int `json:"concurrency,omitempty"`

	// Refresh bypasses cached snapshots and rebuilds everything.
	Refresh bool `json:"refresh,omitempty"`

	// Sprite enables the sprite sheet pass after each build.
	Sprite bool `json:"sprite,omitempty"`

	// Backend selects the image library for the sprite pass.
	Backend string `json:"backend,omitempty"`

	// SpriteDir, when set, receives rendered sheet files.
	SpriteDir string `json:"sprite_dir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool

	backend canvas.Backend
}

// ValidateAndSetDefaults checks fields and applies defaults. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Concurrency < 0 || o.Concurrency > MaxConcurrency {
		return errors.New(errors.ErrCodeInvalidInput,
			"concurrency must be between 1 and %d, got %d", MaxConcurrency, o.Concurrency)
	}
	backend, err := canvas.ParseBackend(o.Backend)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid image backend")
	}
	o.backend = backend
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs and hooks.
	RunID string

	// Manifests holds one entry per built (target, language) pair, in
	// deterministic target-then-language order.
	Manifests []*ManifestResult

	// Stats aggregates timing and cache information.
	Stats Stats
}

// ManifestResult is the outcome of building one manifest.
type ManifestResult struct {
	// Target is the slash-prefixed target name.
	Target string

	// Language is the build language.
	Language string

	// Manifest is the built (or cache-restored) manifest.
	Manifest *manifest.Manifest

	// Snapshot is the serializable manifest document.
	Snapshot map[string]any

	// Sheets holds rendered sprite sheets when the sprite pass ran.
	Sheets []*sprite.Sheet

	// CacheHit reports whether the snapshot came from cache.
	CacheHit bool

	// EntryCount is the number of visible entries after the build.
	EntryCount int

	// BuildTime is the wall time spent on this manifest.
	BuildTime time.Duration
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ManifestCount int
	EntryCount    int
	SheetCount    int
	CacheHits     int
	TotalTime     time.Duration
}
