package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	rootStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Text draws it as a terminal tree.
func Text(it *Item) string {
	t := tree.Root(it.Label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle).
		RootStyle(rootStyle)
	for _, c := range it.Children {
		t.Child(subtree(c))
	}
	return t.String()
}

func subtree(it *Item) any {
	if len(it.Children) == 0 {
		return it.Label
	}
	t := tree.Root(it.Label)
	for _, c := range it.Children {
		t.Child(subtree(c))
	}
	return t
}
