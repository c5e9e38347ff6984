package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

// ProjectFile is the conventional project definition filename.
const ProjectFile = "Stagehand.toml"

// tomlProject mirrors the Stagehand.toml document shape.
type tomlProject struct {
	Name      string         `toml:"name"`
	Mode      string         `toml:"mode"`
	Languages []string       `toml:"languages"`
	Config    map[string]any `toml:"config"`
	Targets   []tomlTarget   `toml:"target"`
}

type tomlTarget struct {
	Name     string         `toml:"name"`
	Kind     string         `toml:"kind"`
	Source   string         `toml:"source"`
	Requires []string       `toml:"requires"`
	Config   map[string]any `toml:"config"`
}

// Load assembles a project from Stagehand.toml data. root is the absolute
// project root directory the relative source dirs resolve against.
func Load(data []byte, root string, tasks manifest.TaskRunner) (*Project, error) {
	var doc tomlProject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "parse project file")
	}

	if doc.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidProject, "project file missing name")
	}
	if doc.Mode != "" && doc.Mode != ModeDebug && doc.Mode != ModeProduction {
		return nil, errors.New(errors.ErrCodeInvalidMode, "unknown build mode %q", doc.Mode)
	}
	for _, lang := range doc.Languages {
		if err := errors.ValidateLanguage(lang); err != nil {
			return nil, err
		}
	}

	p := New(Options{
		Name:      doc.Name,
		Root:      root,
		Mode:      doc.Mode,
		Languages: doc.Languages,
		Config:    doc.Config,
		Tasks:     tasks,
	})

	for _, tt := range doc.Targets {
		kind := Kind(tt.Kind)
		if tt.Kind == "" {
			kind = KindFramework
		}
		if !ValidKind(kind) {
			return nil, errors.New(errors.ErrCodeInvalidTarget,
				"target %q has unknown kind %q", tt.Name, tt.Kind)
		}
		if _, err := p.AddTarget(TargetOptions{
			Name:      tt.Name,
			Kind:      kind,
			SourceDir: tt.Source,
			Requires:  tt.Requires,
			Config:    tt.Config,
		}); err != nil {
			return nil, err
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile reads a Stagehand.toml file and assembles the project. The file's
// directory becomes the project root.
func LoadFile(path string, tasks manifest.TaskRunner) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "project file %s", path)
		}
		return nil, err
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return Load(data, root, tasks)
}
