package project

import (
	"maps"
	"sync"

	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

// Kind classifies targets. Apps are build roots; frameworks and themes are
// built when an app requires them.
type Kind string

const (
	KindApp       Kind = "app"
	KindFramework Kind = "framework"
	KindTheme     Kind = "theme"
)

// ValidKind reports whether k names a known target kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindApp, KindFramework, KindTheme:
		return true
	}
	return false
}

// TargetOptions configures target registration.
type TargetOptions struct {
	Name      string         // Slash-prefixed name, e.g. "/contacts"
	Kind      Kind           // Defaults to KindFramework
	SourceDir string         // Project-relative source directory
	Requires  []string       // Names of required targets
	Config    map[string]any // Target-specific configuration
}

// Target is one buildable unit within a project. It implements
// [manifest.Target]: manifests are created lazily per language and cached for
// the life of the target.
type Target struct {
	project   *Project
	name      string
	kind      Kind
	sourceDir string
	requires  []string
	config    map[string]any

	mu        sync.Mutex
	manifests map[string]*manifest.Manifest
}

// Name returns the slash-prefixed target name.
func (t *Target) Name() string { return t.name }

// Kind returns the target kind.
func (t *Target) Kind() Kind { return t.kind }

// SourceDir returns the project-relative source directory.
func (t *Target) SourceDir() string { return t.sourceDir }

// Project returns the owning project.
func (t *Target) Project() manifest.Project { return t.project }

// Config returns the target's effective configuration: project-wide settings
// overlaid with target-specific ones.
func (t *Target) Config() map[string]any {
	merged := maps.Clone(t.project.config)
	maps.Copy(merged, t.config)
	return merged
}

// RequiredNames returns the declared requirement names.
func (t *Target) RequiredNames() []string {
	return t.requires
}

// Required resolves the declared requirements against the project registry.
// Unknown names are skipped; Validate reports them ahead of time.
func (t *Target) Required() []manifest.Target {
	out := make([]manifest.Target, 0, len(t.requires))
	for _, name := range t.requires {
		if req := t.project.Target(name); req != nil {
			out = append(out, req)
		}
	}
	return out
}

// ManifestFor returns the target's manifest for a language, creating it
// lazily. The same instance is returned for the life of the target, so the
// staging disambiguator counter survives rebuilds.
func (t *Target) ManifestFor(language string) *manifest.Manifest {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.manifests[language]
	if !ok {
		m = manifest.New(t, language, t.project.tasks, t.project.manifestConfig(t))
		t.manifests[language] = m
	}
	return m
}

// Ensure Target implements the manifest collaborator interface.
var _ manifest.Target = (*Target)(nil)
