// Package cli implements the stagehand command-line interface.
//
// This package provides commands for building project manifests, inspecting
// their entries, generating sprite sheets, and rendering the target
// dependency graph. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Run the manifest pipeline for a project's targets
//   - entries: List a built manifest's entries
//   - sprite: Combine image files into sprite sheets
//   - graph: Render the target dependency graph
//   - cache: Manage the local build cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/pkg/buildinfo"
	"github.com/stagehand-dev/stagehand/pkg/cache"
	"github.com/stagehand-dev/stagehand/pkg/errors"
	"github.com/stagehand-dev/stagehand/pkg/pipeline"
	"github.com/stagehand-dev/stagehand/pkg/project"
	"github.com/stagehand-dev/stagehand/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stagehand"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stagehand builds web project manifests and sprite sheets",
		Long:         `Stagehand is a build tool for web projects: it scans target source trees into manifests, derives composite and transformed entries, and combines image slices into sprite sheets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.entriesCommand())
	root.AddCommand(c.spriteCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// Cache backend selection. The flag wins over the environment variable;
// both empty means the file cache.
const (
	cacheBackendEnv     = "STAGEHAND_CACHE"
	redisAddrEnv        = "STAGEHAND_REDIS_ADDR"
	mongoURIEnv         = "STAGEHAND_MONGO_URI"
	defaultCacheBackend = "file"
)

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, backend string, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, backend, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache constructs the selected cache backend. Local backends (file,
// badger) live under the XDG cache directory; the shared backends (redis,
// mongo) read their connection settings from the environment so CI workers
// can point a fleet at one store.
func newCache(ctx context.Context, backend string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if backend == "" {
		backend = os.Getenv(cacheBackendEnv)
	}
	if backend == "" {
		backend = defaultCacheBackend
	}

	switch backend {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case "badger":
		dir, err := cacheDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "resolve cache directory")
		}
		store, err := cache.NewBadgerCache(cache.BadgerOptions{Directory: filepath.Join(dir, "badger")})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open badger cache")
		}
		return store, nil
	case "redis":
		store, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: os.Getenv(redisAddrEnv)})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to redis cache")
		}
		return store, nil
	case "mongo":
		store, err := cache.NewMongoCache(ctx, cache.MongoOptions{URI: os.Getenv(mongoURIEnv)})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to mongo cache")
		}
		return store, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend %q (file, badger, redis, mongo, none)", backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stagehand/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Project Loading
// =============================================================================

// loadProject reads the project definition from dir and wires the standard
// scan task. dir defaults to the working directory.
func loadProject(dir string) (*project.Project, error) {
	if dir == "" {
		dir = "."
	}
	tasks := project.NewTaskSet()
	source.RegisterTasks(tasks)
	return project.LoadFile(filepath.Join(dir, project.ProjectFile), tasks)
}
