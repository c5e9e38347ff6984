package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	manifestio "github.com/stagehand-dev/stagehand/pkg/io"
	"github.com/stagehand-dev/stagehand/pkg/manifest"
	"github.com/stagehand-dev/stagehand/pkg/pipeline"
)

// buildCommand creates the build command for running the manifest pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		projectDir   string
		targetsStr   string
		languages    []string
		mode         string
		refresh      bool
		noCache      bool
		cacheBackend string
		noSprite     bool
		backend      string
		snapshotDir  string
		concurrency  int
		interactive  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build manifests for a project's targets",
		Long: `Build manifests for a project's targets.

The build command loads the project definition (Stagehand.toml), scans each
selected target's source tree into a manifest, runs the sprite pass over
image entries, and writes one snapshot per (target, language) pair.

Results are cached locally; unchanged targets restore from cache on
subsequent runs. Use --refresh to force a full rebuild.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(projectDir)
			if err != nil {
				return err
			}

			targets := splitList(targetsStr)
			if interactive {
				selected, err := pickTarget(proj)
				if err != nil {
					return err
				}
				if selected == "" {
					printInfo("No target selected")
					return nil
				}
				targets = []string{selected}
			}

			runner, err := c.newRunner(cmd.Context(), cacheBackend, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Cache.Close()

			spriteDir := ""
			if !noSprite {
				spriteDir = filepath.Join(proj.Root(), "tmp", "sprites")
			}

			opts := pipeline.Options{
				Targets:     targets,
				Languages:   languages,
				Mode:        mode,
				Concurrency: concurrency,
				Refresh:     refresh,
				Sprite:      !noSprite,
				Backend:     backend,
				SpriteDir:   spriteDir,
				Logger:      c.Logger,
			}

			prog := newProgress(c.Logger)
			spinner := newSpinnerWithContext(cmd.Context(), "Building manifests...")
			spinner.Start()

			result, err := runner.Execute(cmd.Context(), proj, opts)
			if err != nil {
				spinner.StopWithError("Build failed")
				return err
			}
			spinner.Stop()

			for _, mr := range result.Manifests {
				printManifestStats(mr.Target, mr.Language, mr.EntryCount, len(mr.Sheets), mr.CacheHit)
			}

			if snapshotDir != "" {
				if err := exportSnapshots(result, snapshotDir); err != nil {
					return err
				}
			}

			prog.done(fmt.Sprintf("Built %d manifests", result.Stats.ManifestCount))
			printSuccess("Build complete")
			printDetail("run: %s", result.RunID)
			if len(result.Manifests) > 0 {
				printNextStep("Inspect a manifest", fmt.Sprintf("%s entries --target %s", appName, result.Manifests[0].Target))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "project directory (default: current directory)")
	cmd.Flags().StringVarP(&targetsStr, "target", "t", "", "target(s) to build (comma-separated, default: all apps)")
	cmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "language(s) to build (default: all project languages)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "build mode: debug, production (default: project mode)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached snapshots")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cacheBackend, "cache-backend", "", "cache backend: file (default), badger, redis, mongo, none (or set "+cacheBackendEnv+")")
	cmd.Flags().BoolVar(&noSprite, "no-sprite", false, "skip the sprite sheet pass")
	cmd.Flags().StringVar(&backend, "backend", "", "image backend: imaging (default), gg")
	cmd.Flags().StringVarP(&snapshotDir, "output", "o", "", "directory for exported snapshot JSON files")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel manifest builds (default: 4)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the target interactively")

	return cmd
}

// exportSnapshots writes one snapshot file per built manifest.
func exportSnapshots(result *pipeline.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, mr := range result.Manifests {
		name := fmt.Sprintf("%s-%s.json", strings.Trim(strings.ReplaceAll(mr.Target, "/", "-"), "-"), mr.Language)
		path := filepath.Join(dir, name)
		if err := manifestio.ExportJSON(mr.Manifest, manifest.SnapshotOptions{Hidden: true}, path); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// splitList parses a comma-separated flag value into a slice.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
