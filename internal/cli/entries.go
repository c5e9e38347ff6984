package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

// entriesCommand creates the entries command for inspecting a built manifest.
func (c *CLI) entriesCommand() *cobra.Command {
	var (
		projectDir string
		targetName string
		language   string
		hidden     bool
		filterExt  string
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List a built manifest's entries",
		Long: `List a built manifest's entries.

The entries command builds the selected target's manifest and prints its
entries as a table: filename, extension, kind, and output URL. Hidden
entries (composite sources, transform inputs) are excluded unless --hidden
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(projectDir)
			if err != nil {
				return err
			}

			if targetName == "" {
				targetName, err = pickTarget(proj)
				if err != nil {
					return err
				}
				if targetName == "" {
					printInfo("No target selected")
					return nil
				}
			}
			tgt := proj.Target(targetName)
			if tgt == nil {
				return fmt.Errorf("unknown target %q", targetName)
			}
			if language == "" {
				language = proj.Languages()[0]
			}

			m := tgt.ManifestFor(language)
			if err := m.Build(); err != nil {
				return err
			}

			entries := m.Entries(hidden)
			if filterExt != "" {
				entries = filterByExt(entries, filterExt)
			}
			printEntryTable(tgt.Name(), language, entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "project directory (default: current directory)")
	cmd.Flags().StringVarP(&targetName, "target", "t", "", "target to inspect (interactive picker when omitted)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language (default: first project language)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden entries")
	cmd.Flags().StringVarP(&filterExt, "ext", "e", "", "only entries with this extension")

	return cmd
}

func filterByExt(entries []*manifest.Entry, ext string) []*manifest.Entry {
	ext = strings.TrimPrefix(ext, ".")
	out := entries[:0]
	for _, e := range entries {
		if e.Ext == ext {
			out = append(out, e)
		}
	}
	return out
}

// printEntryTable renders the entry list as a bordered table.
func printEntryTable(target, language string, entries []*manifest.Entry) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%s [%s]", target, language)))

	if len(entries) == 0 {
		printInfo("Manifest has no entries")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Filename, e.Ext, entryKind(e), e.URL})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Filename", "Ext", "Kind", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return StyleDim
			}
			return StyleValue
		})

	fmt.Println(t.Render())
	printDetail("%d entries", len(entries))
}

func entryKind(e *manifest.Entry) string {
	var kinds []string
	if e.Composite {
		kinds = append(kinds, "composite")
	}
	if e.Transform {
		kinds = append(kinds, "transform")
	}
	if e.Hidden {
		kinds = append(kinds, "hidden")
	}
	if len(kinds) == 0 {
		return "source"
	}
	return strings.Join(kinds, ",")
}
