// Package render draws converted bin documents for inspection.
//
// [Build] walks a wire tree into a labelled [Item] tree, optionally
// bounded in depth and in the number of children shown per container.
// The tree is then drawn either as terminal text with lipgloss ([Text])
// or as a Graphviz diagram ([ToDOT], [RenderSVG]):
//
//	root, _ := doc.Entries()
//	item := render.Build(root, render.Options{Depth: 3})
//	fmt.Println(render.Text(item))
//
//	svg, err := render.RenderSVG(render.ToDOT(item))
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz].
package render
