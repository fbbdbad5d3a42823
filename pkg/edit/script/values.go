package script

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/bin/types"
	"github.com/matzehuels/binpatch/pkg/bin/value"
)

type valueSpec struct {
	Type        string      `yaml:"type"`
	Value       yaml.Node   `yaml:"value"`
	ElementType string      `yaml:"elementType"`
	Items       []yaml.Node `yaml:"items"`
	KeyType     string      `yaml:"keyType"`
	ValueType   string      `yaml:"valueType"`
	Entries     []entrySpec `yaml:"entries"`
	Name        string      `yaml:"name"`
	Fields      []fieldSpec `yaml:"fields"`
	Helper      string      `yaml:"helper"`
	RGB         []uint8     `yaml:"rgb"`
	Opacity     *float32    `yaml:"opacity"`
}

type entrySpec struct {
	Key   yaml.Node `yaml:"key"`
	Value yaml.Node `yaml:"value"`
}

type fieldSpec struct {
	Key   string    `yaml:"key"`
	Value yaml.Node `yaml:"value"`
}

var valueKeys = []string{
	"type", "value", "elementType", "items", "keyType", "valueType",
	"entries", "name", "fields", "helper", "rgb", "opacity",
}

// value builds a Value from a value spec: a type tag with its payload, or a
// named helper.
func (c *compiler) value(n *yaml.Node) (value.Value, error) {
	if err := checkKeys(n, valueKeys...); err != nil {
		return value.Value{}, err
	}
	var spec valueSpec
	if err := n.Decode(&spec); err != nil {
		return value.Value{}, scriptError(n, "value: %v", err)
	}

	if spec.Helper != "" {
		return c.helper(n, &spec)
	}

	t, err := parseType(n, spec.Type)
	if err != nil {
		return value.Value{}, err
	}

	var v value.Value
	switch {
	case t.IsPrimitive():
		if spec.Value.Kind == 0 {
			return value.Value{}, scriptError(n, "%s value needs a value", t)
		}
		raw, err := decodeFor(t, &spec.Value)
		if err != nil {
			return value.Value{}, err
		}
		v, err = value.Of(t, raw)
		if err != nil {
			return value.Value{}, at(n, err)
		}

	case t.IsList():
		elem, err := parseType(n, spec.ElementType)
		if err != nil {
			return value.Value{}, err
		}
		items := make([]any, len(spec.Items))
		for i := range spec.Items {
			if items[i], err = c.item(elem, &spec.Items[i]); err != nil {
				return value.Value{}, err
			}
		}
		switch t {
		case bin.TypeList:
			v, err = value.List(elem, items...)
		case bin.TypeList2:
			v, err = value.List2(elem, items...)
		default:
			v, err = value.Option(elem, items...)
		}
		if err != nil {
			return value.Value{}, at(n, err)
		}

	case t == bin.TypeMap:
		kt, err := parseType(n, spec.KeyType)
		if err != nil {
			return value.Value{}, err
		}
		vt, err := parseType(n, spec.ValueType)
		if err != nil {
			return value.Value{}, err
		}
		entries := make([]value.Entry, len(spec.Entries))
		for i := range spec.Entries {
			e := &spec.Entries[i]
			if entries[i].Key, err = decodeFor(kt, &e.Key); err != nil {
				return value.Value{}, err
			}
			if entries[i].Value, err = c.item(vt, &e.Value); err != nil {
				return value.Value{}, err
			}
		}
		if v, err = value.Map(kt, vt, entries...); err != nil {
			return value.Value{}, at(n, err)
		}

	case t.IsStruct():
		fields := make([]value.Field, len(spec.Fields))
		for i := range spec.Fields {
			f := &spec.Fields[i]
			if f.Key == "" {
				return value.Value{}, scriptError(&f.Value, "field %d has no key", i)
			}
			fv, err := c.value(&f.Value)
			if err != nil {
				return value.Value{}, err
			}
			fields[i] = value.F(f.Key, fv)
		}
		if t == bin.TypeEmbed {
			v = value.Embed(spec.Name, fields...)
		} else {
			v = value.Pointer(spec.Name, fields...)
		}
	}
	return v, nil
}

// item returns a nested Value for spec-shaped items and the raw decoded
// scalar otherwise, leaving auto-wrapping to the value constructors.
func (c *compiler) item(elem bin.Type, n *yaml.Node) (any, error) {
	if n.Kind == yaml.MappingNode && (hasKey(n, "type") || hasKey(n, "helper")) {
		return c.value(n)
	}
	return decodeFor(elem, n)
}

func (c *compiler) helper(n *yaml.Node, spec *valueSpec) (value.Value, error) {
	if spec.Type != "" {
		return value.Value{}, scriptError(n, "value has both type and helper")
	}
	if len(spec.RGB) > 0 {
		if spec.Helper != "ValueColor" {
			return value.Value{}, scriptError(n, "rgb is only valid for ValueColor")
		}
		if len(spec.RGB) != 3 {
			return value.Value{}, scriptError(n, "rgb needs 3 channels, got %d", len(spec.RGB))
		}
		opacity := float32(1)
		if spec.Opacity != nil {
			opacity = *spec.Opacity
		}
		return types.ValueColor(types.RGB(spec.RGB[0], spec.RGB[1], spec.RGB[2], opacity)), nil
	}

	if spec.Value.Kind == 0 {
		return value.Value{}, scriptError(n, "helper %s needs a value", spec.Helper)
	}
	var arg any
	if err := spec.Value.Decode(&arg); err != nil {
		return value.Value{}, scriptError(n, "helper %s: %v", spec.Helper, err)
	}
	v, err := types.ByName(spec.Helper, arg)
	if err != nil {
		return value.Value{}, at(n, err)
	}
	return v, nil
}

func parseType(n *yaml.Node, s string) (bin.Type, error) {
	if s == "" {
		return "", scriptError(n, "missing type")
	}
	t, err := bin.ParseType(s)
	if err != nil {
		return "", scriptError(n, "unknown type %q", s)
	}
	return t, nil
}

// decodeFor decodes a scalar or tuple payload. Text types take the literal
// source of a scalar.
func decodeFor(t bin.Type, n *yaml.Node) (any, error) {
	switch t {
	case bin.TypeString, bin.TypeHash, bin.TypeFile, bin.TypeLink:
		if n.Kind == yaml.ScalarNode {
			return n.Value, nil
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, scriptError(n, "%v", err)
	}
	return v, nil
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

func at(n *yaml.Node, err error) error {
	return fmt.Errorf("line %d: %w", n.Line, err)
}
