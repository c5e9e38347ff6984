package manifest

// Task names invoked by the manifest lifecycle. Build tasks beyond these two
// are registered and invoked entirely by the caller.
const (
	// TaskPrepare runs once per manifest, before the first build.
	TaskPrepare = "manifest:prepare"

	// TaskBuild populates the manifest's entries. It runs on every Build call,
	// always starting from an empty entry list.
	TaskBuild = "manifest:build"
)

// TaskRunner is the injected build-task registry. The manifest consults it at
// exactly two points (TaskPrepare, TaskBuild) and has no knowledge of task
// implementations. Hooks are optional extension points: an undefined task is
// silently skipped, never an error.
type TaskRunner interface {
	// TaskDefined reports whether a task with the given name is registered.
	TaskDefined(name string) bool

	// Invoke runs the named task with the given context.
	Invoke(name string, tc *TaskContext) error
}

// TaskContext is the context bag passed to build tasks.
type TaskContext struct {
	Manifest *Manifest
	Target   Target
	Config   map[string]any
	Project  Project
}

// Target is the buildable unit a manifest belongs to. It is implemented by
// the project layer; the manifest core only needs identity, configuration,
// and the dependency graph for cross-target entry resolution.
type Target interface {
	// Name returns the slash-prefixed target name (e.g. "/contacts").
	Name() string

	// Config returns the target's effective configuration.
	Config() map[string]any

	// Project returns the owning project.
	Project() Project

	// Required returns the targets this target declares as dependencies.
	// The graph may contain cycles; manifest lookups tolerate them.
	Required() []Target

	// ManifestFor returns the target's manifest for the given language,
	// creating it lazily if needed.
	ManifestFor(language string) *Manifest
}

// Project identifies the project a target belongs to.
type Project interface {
	// Name returns the project name.
	Name() string

	// Root returns the absolute project root directory.
	Root() string
}
