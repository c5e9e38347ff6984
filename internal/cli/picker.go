package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/stagehand-dev/stagehand/pkg/project"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TargetListModel - Interactive target selection
// =============================================================================

// TargetListModel is the bubbletea model for interactive target selection.
type TargetListModel struct {
	Targets  []*project.Target
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewTargetListModel creates a new target list model.
func NewTargetListModel(targets []*project.Target) TargetListModel {
	return TargetListModel{
		Targets: targets,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m TargetListModel) Init() tea.Cmd {
	return nil
}

func (m TargetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Targets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Targets[m.Cursor].Name()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TargetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Target"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Targets) {
		end = len(m.Targets)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Targets[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		requires := "—"
		if names := t.RequiredNames(); len(names) > 0 {
			requires = strings.Join(names, ", ")
		}

		rows = append(rows, []string{cursor, t.Name(), string(t.Kind()), requires})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Target", "Kind", "Requires").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Targets) {
				return lipgloss.NewStyle()
			}
			isApp := m.Targets[actualIdx].Kind() == project.KindApp
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				if isApp {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			if isApp {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(tbl.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Targets))))

	return b.String()
}

// pickTarget runs the interactive target picker and returns the chosen
// target name, or "" when the user quits without selecting.
func pickTarget(proj *project.Project) (string, error) {
	targets := proj.Targets()
	if len(targets) == 0 {
		return "", fmt.Errorf("project %q has no targets", proj.Name())
	}
	if len(targets) == 1 {
		return targets[0].Name(), nil
	}

	final, err := tea.NewProgram(NewTargetListModel(targets)).Run()
	if err != nil {
		return "", fmt.Errorf("target picker: %w", err)
	}
	model, ok := final.(TargetListModel)
	if !ok {
		return "", nil
	}
	return model.Selected, nil
}
