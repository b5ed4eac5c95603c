package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pyrite/pkg/manifest"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// depRow is one dependency flattened out of its group for display.
type depRow struct {
	Group string
	Dep   manifest.Dependency
}

// DepListModel is the bubbletea model for interactive dependency browsing.
type DepListModel struct {
	Project string
	Rows    []depRow
	Cursor  int
	Height  int
	Offset  int
}

// NewDepListModel creates a dependency browser over all groups of m.
func NewDepListModel(m *manifest.Manifest) DepListModel {
	var rows []depRow
	for _, g := range m.Groups {
		for _, dep := range g.Dependencies {
			rows = append(rows, depRow{Group: g.Name, Dep: dep})
		}
	}
	return DepListModel{
		Project: m.Project.Name,
		Rows:    rows,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m DepListModel) Init() tea.Cmd {
	return nil
}

func (m DepListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DepListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Project + " dependencies"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		constraint := r.Dep.Raw
		if r.Dep.NonRegistry {
			constraint = "git/url/path"
		}
		if constraint == "" {
			constraint = "*"
		}

		extras := "—"
		if len(r.Dep.Extras) > 0 {
			extras = strings.Join(r.Dep.Extras, ", ")
		}

		python := "—"
		if r.Dep.Python != "" {
			python = r.Dep.Python
		}

		rows = append(rows, []string{cursor, r.Dep.Name, constraint, r.Group, extras, python})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Constraint", "Group", "Extras", "Python").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}
			if isCurrent {
				if col < 3 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			if r.Dep.NonRegistry && col == 2 {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// runBrowser launches the interactive dependency browser for m.
func runBrowser(m *manifest.Manifest) error {
	if m.DependencyCount() == 0 {
		printInfo("No dependencies declared")
		return nil
	}
	p := tea.NewProgram(NewDepListModel(m))
	_, err := p.Run()
	return err
}
