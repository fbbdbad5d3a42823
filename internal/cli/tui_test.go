package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/binpatch/pkg/edit/script"
)

func testUnits() []*script.Unit {
	return []*script.Unit{
		{Wad: "Champions/Xerath.wad.client", Bin: "a.json", Steps: 2, Line: 2},
		{Wad: "Champions/Ahri.wad.client", Bin: "b.json", Steps: 1, Line: 9},
		{Wad: "Champions/Xerath.wad.client", Bin: "a.json", Steps: 1, Line: 14},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestUnitListModel_Toggle(t *testing.T) {
	m := press(NewUnitListModel(testUnits()), "down", " ", "enter").(UnitListModel)

	if !m.Confirmed {
		t.Fatal("enter should confirm the selection")
	}
	got := m.Selected()
	if len(got) != 2 {
		t.Fatalf("Selected() = %d units, want 2", len(got))
	}
	if got[0].Line != 2 || got[1].Line != 14 {
		t.Errorf("Selected() lines = %d, %d", got[0].Line, got[1].Line)
	}
}

func TestUnitListModel_ToggleAll(t *testing.T) {
	m := press(NewUnitListModel(testUnits()), "a").(UnitListModel)
	if n := len(m.Selected()); n != 0 {
		t.Fatalf("a with all selected should clear, got %d", n)
	}

	m = press(m, "enter").(UnitListModel)
	if m.Confirmed {
		t.Error("enter with nothing selected should not confirm")
	}

	m = press(m, "a").(UnitListModel)
	if n := len(m.Selected()); n != 3 {
		t.Errorf("a should select all, got %d", n)
	}
}

func TestUnitListModel_Cursor(t *testing.T) {
	m := press(NewUnitListModel(testUnits()), "up", "down", "down", "down", "down").(UnitListModel)
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}

	m = press(m, "q").(UnitListModel)
	if m.Confirmed {
		t.Error("q should not confirm")
	}
}

func TestUnitListModel_View(t *testing.T) {
	view := NewUnitListModel(testUnits()).View()
	for _, want := range []string{"Select Units", "Xerath.wad.client", "b.json", "3 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
