package project

import (
	"sync"

	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

// TaskFunc is a build task body.
type TaskFunc func(*manifest.TaskContext) error

// TaskSet is a map-backed [manifest.TaskRunner]. The CLI registers the
// standard build tasks on one; tests register fakes.
//
// Define may be called from init code on multiple goroutines; invocation
// during a build only reads.
type TaskSet struct {
	mu    sync.RWMutex
	tasks map[string]TaskFunc
}

// NewTaskSet creates an empty task set.
func NewTaskSet() *TaskSet {
	return &TaskSet{tasks: make(map[string]TaskFunc)}
}

// Define registers fn under name, replacing any previous definition.
// A nil fn removes the task.
func (s *TaskSet) Define(name string, fn TaskFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		delete(s.tasks, name)
		return
	}
	s.tasks[name] = fn
}

// TaskDefined reports whether a task with the given name is registered.
func (s *TaskSet) TaskDefined(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tasks[name]
	return ok
}

// Invoke runs the named task. An undefined task is a silent no-op, matching
// the optional-hook contract of the manifest lifecycle.
func (s *TaskSet) Invoke(name string, tc *manifest.TaskContext) error {
	s.mu.RLock()
	fn := s.tasks[name]
	s.mu.RUnlock()

	if fn == nil {
		return nil
	}
	return fn(tc)
}

// Ensure TaskSet implements the manifest task registry.
var _ manifest.TaskRunner = (*TaskSet)(nil)
