package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/binpatch/pkg/edit/script"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// UnitListModel - Interactive unit selection
// =============================================================================

// UnitListModel is the bubbletea model for picking which units of a script
// to build. All units start selected.
type UnitListModel struct {
	Units     []*script.Unit
	Chosen    []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewUnitListModel creates a new unit list model.
func NewUnitListModel(units []*script.Unit) UnitListModel {
	chosen := make([]bool, len(units))
	for i := range chosen {
		chosen[i] = true
	}
	return UnitListModel{
		Units:  units,
		Chosen: chosen,
		Height: 15,
	}
}

func (m UnitListModel) Init() tea.Cmd {
	return nil
}

func (m UnitListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Units)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Chosen) > 0 {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := m.count() < len(m.Units)
			for i := range m.Chosen {
				m.Chosen[i] = all
			}
		case "enter":
			if m.count() == 0 {
				return m, nil
			}
			m.Confirmed = true
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

func (m UnitListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Units"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ build  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Units))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		u := m.Units[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Chosen[i] {
			mark = "[x]"
		}
		rows = append(rows, []string{cursor, mark, u.Wad, u.Bin, fmt.Sprint(u.Steps), fmt.Sprint(u.Line)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Archive", "Document", "Steps", "Line").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Units) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorGray)
			}
			switch {
			case idx == m.Cursor && m.Chosen[idx]:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Foreground(colorDim).Bold(true)
			case m.Chosen[idx]:
				return base
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Units), m.count())))

	return b.String()
}

// Selected returns the chosen units in script order.
func (m UnitListModel) Selected() []*script.Unit {
	var res []*script.Unit
	for i, u := range m.Units {
		if m.Chosen[i] {
			res = append(res, u)
		}
	}
	return res
}

func (m UnitListModel) count() int {
	n := 0
	for _, c := range m.Chosen {
		if c {
			n++
		}
	}
	return n
}

// =============================================================================
// Picker
// =============================================================================

// pickUnits lets the user choose which units of s to build. It returns nil
// when the picker was cancelled.
func pickUnits(s *script.Script) (*script.Script, error) {
	model, err := tea.NewProgram(NewUnitListModel(s.Units)).Run()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "unit picker")
	}
	m, ok := model.(UnitListModel)
	if !ok || !m.Confirmed {
		return nil, nil
	}
	keep := make(map[*script.Unit]bool)
	for _, u := range m.Selected() {
		keep[u] = true
	}
	return s.Select(func(u *script.Unit) bool { return keep[u] }), nil
}
