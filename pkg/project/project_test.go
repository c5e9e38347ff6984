package project

import (
	"testing"

	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

func testProject(t *testing.T, tasks manifest.TaskRunner) *Project {
	t.Helper()
	p := New(Options{
		Name:  "demo",
		Root:  t.TempDir(),
		Tasks: tasks,
	})
	if _, err := p.AddTarget(TargetOptions{
		Name:      "/contacts",
		Kind:      KindApp,
		SourceDir: "apps/contacts",
		Requires:  []string{"/lib"},
	}); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	if _, err := p.AddTarget(TargetOptions{
		Name:      "/lib",
		Kind:      KindFramework,
		SourceDir: "frameworks/lib",
	}); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	return p
}

func TestNewDefaults(t *testing.T) {
	p := New(Options{Name: "demo", Root: "/tmp/demo"})

	if p.Mode() != ModeDebug {
		t.Errorf("Mode = %q, want debug", p.Mode())
	}
	langs := p.Languages()
	if len(langs) != 1 || langs[0] != DefaultLanguage {
		t.Errorf("Languages = %v, want [en]", langs)
	}
}

func TestAddTargetValidation(t *testing.T) {
	p := New(Options{Name: "demo", Root: "/tmp/demo"})

	if _, err := p.AddTarget(TargetOptions{Name: "no-slash"}); !errors.Is(err, errors.ErrCodeInvalidTarget) {
		t.Errorf("invalid name error = %v", err)
	}

	if _, err := p.AddTarget(TargetOptions{Name: "/dup"}); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	if _, err := p.AddTarget(TargetOptions{Name: "/dup"}); !errors.Is(err, errors.ErrCodeInvalidTarget) {
		t.Errorf("duplicate name error = %v", err)
	}
}

func TestTargetsSortedAndApps(t *testing.T) {
	p := testProject(t, nil)

	targets := p.Targets()
	if len(targets) != 2 || targets[0].Name() != "/contacts" || targets[1].Name() != "/lib" {
		t.Errorf("Targets() = %v", targets)
	}

	apps := p.Apps()
	if len(apps) != 1 || apps[0].Name() != "/contacts" {
		t.Errorf("Apps() = %v", apps)
	}
}

func TestValidate(t *testing.T) {
	p := testProject(t, nil)
	if err := p.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	if _, err := p.AddTarget(TargetOptions{
		Name:     "/broken",
		Requires: []string{"/ghost"},
	}); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	if err := p.Validate(); !errors.Is(err, errors.ErrCodeTargetNotFound) {
		t.Errorf("Validate with dangling requirement = %v", err)
	}
}

func TestTargetConfigOverlay(t *testing.T) {
	p := New(Options{
		Name:   "demo",
		Root:   "/tmp/demo",
		Config: map[string]any{"minify": true, "spriting": false},
	})
	tgt, err := p.AddTarget(TargetOptions{
		Name:   "/app",
		Config: map[string]any{"spriting": true},
	})
	if err != nil {
		t.Fatalf("AddTarget: %v", err)
	}

	cfg := tgt.Config()
	if cfg["minify"] != true {
		t.Error("project config should flow through")
	}
	if cfg["spriting"] != true {
		t.Error("target config should override project config")
	}
}

func TestManifestForIsLazyAndCached(t *testing.T) {
	p := testProject(t, nil)
	tgt := p.Target("/contacts")

	en := tgt.ManifestFor("en")
	if en == nil {
		t.Fatal("ManifestFor returned nil")
	}
	if en != tgt.ManifestFor("en") {
		t.Error("ManifestFor should cache per language")
	}
	if en == tgt.ManifestFor("fr") {
		t.Error("languages should get distinct manifests")
	}
	if en.Language() != "en" {
		t.Errorf("Language = %q", en.Language())
	}
}

func TestRequiredResolution(t *testing.T) {
	p := testProject(t, nil)

	req := p.Target("/contacts").Required()
	if len(req) != 1 || req[0].Name() != "/lib" {
		t.Errorf("Required() = %v", req)
	}
}

func TestCrossTargetFindThroughProject(t *testing.T) {
	p := testProject(t, nil)

	shared := p.Target("/lib").ManifestFor("en").AddEntry("icons/shared.png", manifest.EntryOptions{})

	got, err := p.Target("/contacts").ManifestFor("en").FindEntry("shared", manifest.Filter{})
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if got != shared {
		t.Errorf("FindEntry = %v, want shared entry", got)
	}
}

func TestTaskSet(t *testing.T) {
	s := NewTaskSet()

	if s.TaskDefined("manifest:build") {
		t.Error("empty set should define nothing")
	}

	calls := 0
	s.Define("manifest:build", func(tc *manifest.TaskContext) error {
		calls++
		return nil
	})
	if !s.TaskDefined("manifest:build") {
		t.Error("task should be defined")
	}
	if err := s.Invoke("manifest:build", nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}

	// Undefined tasks are silent no-ops.
	if err := s.Invoke("manifest:prepare", nil); err != nil {
		t.Errorf("Invoke of undefined task: %v", err)
	}

	// nil fn removes the task.
	s.Define("manifest:build", nil)
	if s.TaskDefined("manifest:build") {
		t.Error("nil fn should remove the task")
	}
}

func TestTaskSetDrivesBuild(t *testing.T) {
	tasks := NewTaskSet()
	tasks.Define(manifest.TaskBuild, func(tc *manifest.TaskContext) error {
		tc.Manifest.AddEntry("source/app.js", manifest.EntryOptions{})
		return nil
	})

	p := testProject(t, tasks)
	m := p.Target("/contacts").ManifestFor("en")

	if err := m.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.EntryFor("source/app.js", manifest.Filter{}) == nil {
		t.Error("build task should have populated the manifest")
	}
}
