package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/binpatch/pkg/bin"
)

// Options bound how much of a tree is drawn.
type Options struct {
	// Depth limits nesting below the root; 0 draws everything.
	Depth int
	// MaxItems limits children shown per container; 0 shows all. Hidden
	// children are summarized by one "… N more" item.
	MaxItems int
}

// Item is one labelled node of a drawn tree.
type Item struct {
	Label    string
	Children []*Item
}

// Build walks s into an Item tree.
func Build(s bin.Addressable, opts Options) *Item {
	return build(s, opts, 0)
}

func build(s bin.Addressable, opts Options, depth int) *Item {
	switch x := s.(type) {
	case *bin.Node:
		if x == nil {
			return &Item{Label: "<nil>"}
		}
		return payload(x.Key+": ", x.Type, x.Value, opts, depth)
	case *bin.MapEntry:
		if x == nil {
			return &Item{Label: "<nil>"}
		}
		return payload(formatKey(x.Key)+" => ", "", x.Value, opts, depth)
	case *bin.Struct:
		return payload("", "", x, opts, depth)
	case *bin.List:
		return payload("", "", x, opts, depth)
	case *bin.Map:
		return payload("", "", x, opts, depth)
	case *bin.Fields:
		it := &Item{Label: fmt.Sprintf("fields[%d]", len(*x))}
		children(it, len(*x), opts, depth, func(i int) *Item {
			return build((*x)[i], opts, depth+1)
		})
		return it
	}
	return &Item{Label: "<nil>"}
}

// payload labels v with prefix and adds its children. t is the declared
// type; it is empty for map values, whose type lives on the map.
func payload(prefix string, t bin.Type, v any, opts Options, depth int) *Item {
	switch x := v.(type) {
	case *bin.Struct:
		if x == nil {
			return &Item{Label: prefix + typed(t, "null")}
		}
		it := &Item{Label: prefix + typed(t, x.Name)}
		children(it, len(x.Items), opts, depth, func(i int) *Item {
			return build(x.Items[i], opts, depth+1)
		})
		return it
	case *bin.List:
		kind := t
		if kind == "" {
			kind = bin.TypeList
		}
		it := &Item{Label: fmt.Sprintf("%s%s<%s>[%d]", prefix, kind, x.ValueType, len(x.Items))}
		children(it, len(x.Items), opts, depth, func(i int) *Item {
			return payload(fmt.Sprintf("[%d] ", i), "", x.Items[i], opts, depth+1)
		})
		return it
	case *bin.Map:
		it := &Item{Label: fmt.Sprintf("%smap<%s,%s>[%d]", prefix, x.KeyType, x.ValueType, len(x.Items))}
		children(it, len(x.Items), opts, depth, func(i int) *Item {
			return build(x.Items[i], opts, depth+1)
		})
		return it
	}
	return &Item{Label: prefix + typed(t, formatScalar(v))}
}

func children(it *Item, n int, opts Options, depth int, child func(int) *Item) {
	if n == 0 {
		return
	}
	if opts.Depth > 0 && depth >= opts.Depth {
		it.Children = append(it.Children, &Item{Label: fmt.Sprintf("… %d items", n)})
		return
	}
	shown := n
	if opts.MaxItems > 0 && n > opts.MaxItems {
		shown = opts.MaxItems
	}
	for i := 0; i < shown; i++ {
		it.Children = append(it.Children, child(i))
	}
	if shown < n {
		it.Children = append(it.Children, &Item{Label: fmt.Sprintf("… %d more", n-shown)})
	}
}

func typed(t bin.Type, s string) string {
	if t == "" {
		return s
	}
	return string(t) + " " + s
}

func formatKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case [2]float32, [3]float32, [4]float32, [16]float32, [4]uint8:
		return strings.Trim(fmt.Sprint(x), "[]")
	}
	return fmt.Sprint(v)
}
