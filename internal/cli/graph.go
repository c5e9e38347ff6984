package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/pkg/targetgraph"
)

// graphCommand creates the graph command for rendering target dependencies.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		projectDir string
		output     string
		format     string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the project's target dependency graph",
		Long: `Render the project's target dependency graph.

The graph command emits the target graph as Graphviz DOT (default), or
renders it to SVG or PNG. App targets are drawn with a bold outline; theme
targets with a dashed one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(projectDir)
			if err != nil {
				return err
			}

			dot := targetgraph.ToDOT(proj, targetgraph.Options{Detailed: detailed})

			var data []byte
			switch strings.ToLower(format) {
			case "", "dot":
				data = []byte(dot)
			case "svg":
				data, err = targetgraph.RenderSVG(dot)
			case "png":
				data, err = targetgraph.RenderPNG(dot)
			default:
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
			}
			if err != nil {
				return fmt.Errorf("render graph: %w", err)
			}

			if output == "" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered target graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "project directory (default: current directory)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot (default), svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include target kind and source directory in labels")

	return cmd
}
