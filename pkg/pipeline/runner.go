package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/stagehand-dev/stagehand/pkg/cache"
	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
	"github.com/stagehand-dev/stagehand/pkg/observability"
	"github.com/stagehand-dev/stagehand/pkg/project"
	"github.com/stagehand-dev/stagehand/pkg/sprite"
	"github.com/stagehand-dev/stagehand/pkg/sprite/canvas"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store build results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

type buildJob struct {
	idx    int
	target *project.Target
	lang   string
}

// Execute builds every selected (target, language) pair and returns the
// per-manifest results in deterministic order. The first build error cancels
// outstanding work and is returned.
func (r *Runner) Execute(ctx context.Context, proj *project.Project, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	targets, err := r.selectTargets(proj, opts.Targets)
	if err != nil {
		return nil, err
	}
	languages := opts.Languages
	if len(languages) == 0 {
		languages = proj.Languages()
	}
	mode := opts.Mode
	if mode == "" {
		mode = proj.Mode()
	}

	var jobs []buildJob
	for _, tgt := range targets {
		for _, lang := range languages {
			jobs = append(jobs, buildJob{idx: len(jobs), target: tgt, lang: lang})
		}
	}

	result := &Result{
		RunID:     uuid.New().String(),
		Manifests: make([]*ManifestResult, len(jobs)),
	}
	r.Logger.Info("starting build run",
		"run_id", result.RunID, "manifests", len(jobs), "mode", mode)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := opts.Concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan buildJob)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					continue
				}
				mr, err := r.buildManifest(ctx, j.target, j.lang, mode, &opts)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					continue
				}
				result.Manifests[j.idx] = mr
			}
		}()
	}
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()

	// Cancellation without a build error (Ctrl-C) leaves skipped jobs as nil
	// slots; surface the context error instead of reading them.
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return nil, firstErr
	}

	for _, mr := range result.Manifests {
		result.Stats.ManifestCount++
		result.Stats.EntryCount += mr.EntryCount
		result.Stats.SheetCount += len(mr.Sheets)
		if mr.CacheHit {
			result.Stats.CacheHits++
		}
	}
	result.Stats.TotalTime = time.Since(start)

	r.Logger.Info("build run complete",
		"run_id", result.RunID,
		"manifests", result.Stats.ManifestCount,
		"entries", result.Stats.EntryCount,
		"cache_hits", result.Stats.CacheHits,
		"duration", result.Stats.TotalTime)

	return result, nil
}

// selectTargets maps option names to targets, defaulting to all app targets.
func (r *Runner) selectTargets(proj *project.Project, names []string) ([]*project.Target, error) {
	if len(names) == 0 {
		apps := proj.Apps()
		if len(apps) == 0 {
			return proj.Targets(), nil
		}
		return apps, nil
	}
	targets := make([]*project.Target, 0, len(names))
	for _, name := range names {
		tgt := proj.Target(name)
		if tgt == nil {
			return nil, errors.New(errors.ErrCodeTargetNotFound, "unknown target %q", name)
		}
		targets = append(targets, tgt)
	}
	return targets, nil
}

// buildManifest produces one manifest, restoring it from a cached snapshot
// when the cache holds one for the current configuration.
func (r *Runner) buildManifest(ctx context.Context, tgt *project.Target, lang, mode string, opts *Options) (*ManifestResult, error) {
	start := time.Now()
	m := tgt.ManifestFor(lang)
	mr := &ManifestResult{Target: tgt.Name(), Language: lang, Manifest: m}

	key := r.manifestKey(tgt, lang, mode)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var doc map[string]any
			if json.Unmarshal(data, &doc) == nil && m.Load(doc) == nil {
				observability.Cache().OnCacheHit(ctx, "manifest")
				mr.CacheHit = true
				mr.Snapshot = doc
				mr.EntryCount = len(m.Entries(false))
				mr.BuildTime = time.Since(start)
				r.Logger.Debug("restored manifest from cache",
					"target", tgt.Name(), "language", lang)
				return mr, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "manifest")
	}

	prepStart := time.Now()
	observability.Build().OnPrepareStart(ctx, tgt.Name(), lang)
	err := m.Prepare()
	observability.Build().OnPrepareComplete(ctx, tgt.Name(), lang, time.Since(prepStart), err)
	if err != nil {
		return nil, err
	}

	buildStart := time.Now()
	observability.Build().OnBuildStart(ctx, tgt.Name(), lang)
	err = m.Build()
	observability.Build().OnBuildComplete(ctx, tgt.Name(), lang,
		len(m.Entries(false)), time.Since(buildStart), err)
	if err != nil {
		return nil, err
	}

	if opts.Sprite {
		sheets, err := r.spritePass(ctx, m, opts)
		if err != nil {
			return nil, err
		}
		mr.Sheets = sheets
	}

	doc := m.Snapshot(manifest.SnapshotOptions{Hidden: true})
	mr.Snapshot = doc
	if data, err := json.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLManifest); err == nil {
			observability.Cache().OnCacheSet(ctx, "manifest", len(data))
		}
	}

	mr.EntryCount = len(m.Entries(false))
	mr.BuildTime = time.Since(start)
	r.Logger.Info("built manifest",
		"target", tgt.Name(), "language", lang,
		"entries", mr.EntryCount, "sheets", len(mr.Sheets),
		"duration", mr.BuildTime)
	return mr, nil
}

// manifestKey derives the snapshot cache key. The target's effective
// configuration is hashed in so config edits invalidate cached builds;
// encoding/json sorts map keys, which keeps the hash stable.
func (r *Runner) manifestKey(tgt *project.Target, lang, mode string) string {
	cfgData, _ := json.Marshal(tgt.Config())
	return r.Keyer.ManifestKey(tgt.Name(), lang, cache.ManifestKeyOpts{
		Mode:       mode,
		ConfigHash: cache.Hash(cfgData),
	})
}

// spritePass groups the manifest's image entries into sheets, lays them out,
// and renders each sheet. A composite entry is added per sheet so the sprite
// participates in the manifest like any other generated asset; rendered
// bytes are cached by manifest content hash.
func (r *Runner) spritePass(ctx context.Context, m *manifest.Manifest, opts *Options) ([]*sprite.Sheet, error) {
	slices := sprite.FromEntries(m)
	if len(slices) == 0 {
		return nil, nil
	}

	b := sprite.NewBuilder(opts.backend)
	b.Logger = r.Logger
	sheets := b.Group(slices)

	snap, _ := json.Marshal(m.Snapshot(manifest.SnapshotOptions{}))
	manifestHash := cache.Hash(snap)

	for _, sheet := range sheets {
		if err := b.Layout(ctx, sheet); err != nil {
			return nil, err
		}

		sources := make([]*manifest.Entry, 0, len(sheet.Slices))
		for _, s := range sheet.Slices {
			if s.Entry != nil {
				sources = append(sources, s.Entry)
			}
		}
		m.AddComposite("sprites/"+sheet.Name, manifest.EntryOptions{
			SourceEntries: sources,
			Extra: map[string]any{
				"sprite_width":  sheet.Width,
				"sprite_height": sheet.Height,
			},
		})

		format := strings.TrimPrefix(filepath.Ext(sheet.Name), ".")
		key := r.Keyer.SpriteKey(manifestHash, sheet.Name, cache.SpriteKeyOpts{Format: format})

		var data []byte
		if !opts.Refresh {
			if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				data = cached
				observability.Cache().OnCacheHit(ctx, "sprite")
			}
		}
		if data == nil {
			if err := b.Render(ctx, sheet); err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := canvas.EncodePNG(sheet.Canvas, &buf); err != nil {
				return nil, err
			}
			data = buf.Bytes()
			if err := r.Cache.Set(ctx, key, data, cache.TTLSprite); err == nil {
				observability.Cache().OnCacheSet(ctx, "sprite", len(data))
			}
		}

		if opts.SpriteDir != "" {
			if err := os.MkdirAll(opts.SpriteDir, 0o755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(filepath.Join(opts.SpriteDir, sheet.Name), data, 0o644); err != nil {
				return nil, err
			}
		}
	}
	return sheets, nil
}
