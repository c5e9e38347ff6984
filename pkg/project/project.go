// Package project models a buildable project: a tree of targets (apps,
// frameworks, themes) with per-target configuration, dependency declarations,
// and a task registry that populates manifests.
//
// A project is usually loaded from a Stagehand.toml file at the project root
// (see [Load] and [LoadFile]); tests assemble projects directly.
package project

import (
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

// DefaultLanguage is built when a project declares no languages.
const DefaultLanguage = "en"

// Build modes.
const (
	ModeDebug      = "debug"
	ModeProduction = "production"
)

// Project is a named collection of targets sharing one root directory.
type Project struct {
	name      string
	root      string
	mode      string
	languages []string
	config    map[string]any
	tasks     manifest.TaskRunner

	mu      sync.Mutex
	targets map[string]*Target
}

// Options configures project assembly.
type Options struct {
	Name      string
	Root      string         // Absolute project root directory
	Mode      string         // Defaults to ModeDebug
	Languages []string       // Defaults to [DefaultLanguage]
	Config    map[string]any // Project-wide configuration
	Tasks     manifest.TaskRunner
}

// New assembles an empty project. Targets are added with AddTarget.
func New(opts Options) *Project {
	mode := opts.Mode
	if mode == "" {
		mode = ModeDebug
	}
	languages := opts.Languages
	if len(languages) == 0 {
		languages = []string{DefaultLanguage}
	}
	config := maps.Clone(opts.Config)
	if config == nil {
		config = make(map[string]any)
	}
	return &Project{
		name:      opts.Name,
		root:      opts.Root,
		mode:      mode,
		languages: slices.Clone(languages),
		config:    config,
		tasks:     opts.Tasks,
		targets:   make(map[string]*Target),
	}
}

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// Root returns the absolute project root directory.
func (p *Project) Root() string { return p.root }

// Mode returns the project build mode.
func (p *Project) Mode() string { return p.mode }

// Languages returns the languages this project builds.
func (p *Project) Languages() []string { return slices.Clone(p.languages) }

// Config returns the project-wide configuration.
func (p *Project) Config() map[string]any { return p.config }

// AddTarget registers a target with the project.
func (p *Project) AddTarget(opts TargetOptions) (*Target, error) {
	if err := errors.ValidateTargetName(opts.Name); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.targets[opts.Name]; exists {
		return nil, errors.New(errors.ErrCodeInvalidTarget, "duplicate target %q", opts.Name)
	}

	kind := opts.Kind
	if kind == "" {
		kind = KindFramework
	}
	config := maps.Clone(opts.Config)
	if config == nil {
		config = make(map[string]any)
	}

	t := &Target{
		project:   p,
		name:      opts.Name,
		kind:      kind,
		sourceDir: opts.SourceDir,
		requires:  slices.Clone(opts.Requires),
		config:    config,
		manifests: make(map[string]*manifest.Manifest),
	}
	p.targets[opts.Name] = t
	return t, nil
}

// Target returns the named target, or nil if it is not registered.
func (p *Project) Target(name string) *Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.targets[name]
}

// Targets returns all targets sorted by name for deterministic iteration.
func (p *Project) Targets() []*Target {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := slices.Sorted(maps.Keys(p.targets))
	out := make([]*Target, 0, len(names))
	for _, n := range names {
		out = append(out, p.targets[n])
	}
	return out
}

// Apps returns the project's application targets, sorted by name.
// Apps are the default build roots; frameworks build when required.
func (p *Project) Apps() []*Target {
	var apps []*Target
	for _, t := range p.Targets() {
		if t.kind == KindApp {
			apps = append(apps, t)
		}
	}
	return apps
}

// Validate checks that every declared requirement resolves to a registered
// target. Cyclic requirements are legal; dangling ones are not.
func (p *Project) Validate() error {
	for _, t := range p.Targets() {
		for _, req := range t.requires {
			if p.Target(req) == nil {
				return errors.New(errors.ErrCodeTargetNotFound,
					"target %q requires unknown target %q", t.name, req)
			}
		}
	}
	return nil
}

// manifestConfig derives the manifest path roots for one target.
// Staging and build trees live under tmp/ inside the project root; URLs are
// namespaced by target name.
func (p *Project) manifestConfig(t *Target) manifest.Config {
	return manifest.Config{
		SourceRoot:  filepath.Join(p.root, filepath.FromSlash(t.sourceDir)),
		BuildRoot:   filepath.Join(p.root, "tmp", "build", filepath.FromSlash(strings.TrimPrefix(t.name, "/"))),
		StagingRoot: filepath.Join(p.root, "tmp", "staging", filepath.FromSlash(strings.TrimPrefix(t.name, "/"))),
		URLRoot:     path.Join("/static", strings.TrimPrefix(t.name, "/")),
		Mode:        p.mode,
	}
}
