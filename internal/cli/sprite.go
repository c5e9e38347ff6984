package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/pkg/sprite"
	"github.com/stagehand-dev/stagehand/pkg/sprite/canvas"
)

// spriteCommand creates the sprite command for standalone sheet generation.
func (c *CLI) spriteCommand() *cobra.Command {
	var (
		output  string
		backend string
		repeat  string
	)

	cmd := &cobra.Command{
		Use:   "sprite [image-dir]",
		Short: "Combine a directory of images into sprite sheets",
		Long: `Combine a directory of images into sprite sheets.

The sprite command collects every image file under the given directory,
groups them by repeat mode and extension, packs each group, and writes one
sheet file per group. This is the same engine the build pipeline runs over
manifest image entries, exposed for ad hoc use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if output == "" {
				output = dir
			}

			mode, err := sprite.ParseRepeat(repeat)
			if err != nil {
				return err
			}
			be, err := canvas.ParseBackend(backend)
			if err != nil {
				return err
			}

			slices, err := collectSlices(dir, mode)
			if err != nil {
				return err
			}
			if len(slices) == 0 {
				printInfo("No images found under %s", dir)
				return nil
			}

			builder := sprite.NewBuilder(be)
			builder.Logger = c.Logger

			prog := newProgress(c.Logger)
			sheets, err := builder.Build(cmd.Context(), slices)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(output, 0o755); err != nil {
				return err
			}
			for _, sheet := range sheets {
				path := filepath.Join(output, sheet.Name)
				if err := canvas.WriteFile(sheet.Canvas, path); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
				printDetail("%dx%d, %d slices", sheet.Width, sheet.Height, len(sheet.Slices))
			}

			prog.done(fmt.Sprintf("Generated %d sheets from %d images", len(sheets), len(slices)))
			printSuccess("Sprites complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: image directory)")
	cmd.Flags().StringVar(&backend, "backend", "", "image backend: imaging (default), gg")
	cmd.Flags().StringVar(&repeat, "repeat", "", "repeat mode for all slices: no-repeat (default), repeat-x, repeat-y")

	return cmd
}

// collectSlices gathers image files under dir as slices with the given
// repeat mode.
func collectSlices(dir string, repeat sprite.RepeatMode) ([]*sprite.Slice, error) {
	var slices []*sprite.Slice
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".png", ".gif", ".jpg", ".jpeg":
			slices = append(slices, &sprite.Slice{Path: path, Repeat: repeat})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slices, nil
}
