package script

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/binpatch/pkg/bin/value"
	"github.com/matzehuels/binpatch/pkg/edit"
	"github.com/matzehuels/binpatch/pkg/errors"
)

type compiler struct {
	opts Options
}

// companions lists the keys a step may carry next to its operator.
var companions = map[string][]string{
	"try": {"or"},
	"if":  {"then", "else"},
}

var operators = []string{
	"select", "match", "nth", "filter", "chain", "iterate", "modify",
	"remove", "append", "try", "if", "stop", "pass", "print", "debug",
}

func isOperator(k string) bool {
	for _, op := range operators {
		if op == k {
			return true
		}
	}
	return false
}

func shapeError(n *yaml.Node, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidTransform, "line %d col %d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}

func scriptError(n *yaml.Node, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidScript, "line %d col %d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}

// step compiles one step. Strings select, sequences chain and one-key
// mappings name an operator.
func (c *compiler) step(n *yaml.Node) (edit.Transform, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return c.step(n.Alias)

	case yaml.ScalarNode:
		switch n.Tag {
		case "!!str":
			return edit.Key(n.Value), nil
		case "!!int":
			var i int
			if err := n.Decode(&i); err != nil {
				return nil, shapeError(n, "%v", err)
			}
			return edit.Nth(i), nil
		}
		return nil, shapeError(n, "%s %q is not a step", n.Tag, n.Value)

	case yaml.SequenceNode:
		chain := make(edit.Chain, len(n.Content))
		for i, child := range n.Content {
			t, err := c.step(child)
			if err != nil {
				return nil, err
			}
			chain[i] = t
		}
		return chain, nil

	case yaml.MappingNode:
		return c.operator(n)
	}
	return nil, shapeError(n, "unsupported step")
}

func (c *compiler) operator(n *yaml.Node) (edit.Transform, error) {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	var op string
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i].Value
		if _, dup := fields[k]; dup {
			return nil, shapeError(n.Content[i], "duplicate key %q", k)
		}
		fields[k] = n.Content[i+1]
		if isOperator(k) {
			if op != "" {
				return nil, shapeError(n.Content[i], "step has two operators %q and %q", op, k)
			}
			op = k
		}
	}
	if op == "" {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, shapeError(n, "unknown step {%s}", strings.Join(keys, ", "))
	}
	for k := range fields {
		if k != op && !contains(companions[op], k) {
			return nil, shapeError(n, "unexpected key %q in %s step", k, op)
		}
	}

	arg := fields[op]
	switch op {
	case "select":
		key, err := scalar(arg)
		if err != nil {
			return nil, err
		}
		return edit.Key(key), nil

	case "match":
		src, err := scalar(arg)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, shapeError(arg, "match: %v", err)
		}
		return edit.SelectMatch(re), nil

	case "nth":
		var i int
		if err := arg.Decode(&i); err != nil {
			return nil, shapeError(arg, "nth needs an integer")
		}
		return edit.Nth(i), nil

	case "filter":
		key, err := scalar(arg)
		if err != nil {
			return nil, err
		}
		return edit.Filter(key), nil

	case "chain":
		if arg.Kind != yaml.SequenceNode {
			return nil, shapeError(arg, "chain needs a list of steps")
		}
		return c.step(arg)

	case "iterate":
		body, err := c.body(arg)
		if err != nil {
			return nil, err
		}
		return edit.Iterate(body...), nil

	case "modify":
		return c.modify(arg)

	case "remove":
		key, err := scalar(arg)
		if err != nil {
			return nil, err
		}
		return edit.Remove(key), nil

	case "append":
		return c.append(arg)

	case "try":
		t, err := c.step(arg)
		if err != nil {
			return nil, err
		}
		if or, ok := fields["or"]; ok {
			fb, err := c.step(or)
			if err != nil {
				return nil, err
			}
			return edit.Try(t, fb), nil
		}
		return edit.Try(t), nil

	case "if":
		key, err := scalar(arg)
		if err != nil {
			return nil, err
		}
		then, ok := fields["then"]
		if !ok {
			return nil, shapeError(n, "if step needs a then branch")
		}
		th, err := c.step(then)
		if err != nil {
			return nil, err
		}
		if els, ok := fields["else"]; ok {
			el, err := c.step(els)
			if err != nil {
				return nil, err
			}
			return edit.If(key, th, el), nil
		}
		return edit.If(key, th), nil

	case "stop":
		return edit.Stop(), nil

	case "pass":
		return edit.Pass(), nil

	case "print":
		msg, err := scalar(arg)
		if err != nil {
			return nil, err
		}
		return edit.Print(c.opts.Logger, msg), nil

	case "debug":
		return edit.Debug(c.opts.Debug), nil
	}
	return nil, shapeError(n, "unhandled operator %q", op)
}

// body compiles the argument of iterate: a list of steps or a single step.
func (c *compiler) body(n *yaml.Node) ([]edit.Transform, error) {
	if n.Kind != yaml.SequenceNode {
		t, err := c.step(n)
		if err != nil {
			return nil, err
		}
		return []edit.Transform{t}, nil
	}
	res := make([]edit.Transform, len(n.Content))
	for i, child := range n.Content {
		t, err := c.step(child)
		if err != nil {
			return nil, err
		}
		res[i] = t
	}
	return res, nil
}

func (c *compiler) modify(n *yaml.Node) (edit.Transform, error) {
	if err := checkKeys(n, "key", "value", "expr", "set_bits", "clear_bits"); err != nil {
		return nil, err
	}
	var spec struct {
		Key       string    `yaml:"key"`
		Value     yaml.Node `yaml:"value"`
		Expr      string    `yaml:"expr"`
		SetBits   *uint64   `yaml:"set_bits"`
		ClearBits *uint64   `yaml:"clear_bits"`
	}
	if err := n.Decode(&spec); err != nil {
		return nil, scriptError(n, "modify: %v", err)
	}
	if spec.Key == "" {
		return nil, scriptError(n, "modify needs a key")
	}

	var updates []edit.Update
	if spec.Value.Kind != 0 {
		var v any
		if err := spec.Value.Decode(&v); err != nil {
			return nil, scriptError(&spec.Value, "modify value: %v", err)
		}
		if spec.Value.Kind == yaml.ScalarNode {
			// Text fields take the literal source, so 0x-prefixed hashes
			// survive YAML number parsing.
			raw := spec.Value.Value
			updates = append(updates, func(old any) (any, error) {
				if _, ok := old.(string); ok {
					return raw, nil
				}
				return v, nil
			})
		} else {
			updates = append(updates, edit.Set(v))
		}
	}
	if spec.Expr != "" {
		u, err := compileExpr(spec.Expr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		updates = append(updates, u)
	}
	if spec.SetBits != nil {
		updates = append(updates, edit.SetBits(*spec.SetBits))
	}
	if spec.ClearBits != nil {
		updates = append(updates, edit.ClearBits(*spec.ClearBits))
	}
	if len(updates) != 1 {
		return nil, scriptError(n, "modify needs exactly one of value, expr, set_bits or clear_bits")
	}
	return edit.Modify(spec.Key, updates[0]), nil
}

func (c *compiler) append(n *yaml.Node) (edit.Transform, error) {
	if err := checkKeys(n, "key", "value"); err != nil {
		return nil, err
	}
	var spec struct {
		Key   string    `yaml:"key"`
		Value yaml.Node `yaml:"value"`
	}
	if err := n.Decode(&spec); err != nil {
		return nil, scriptError(n, "append: %v", err)
	}
	if spec.Key == "" || spec.Value.Kind == 0 {
		return nil, scriptError(n, "append needs a key and a value")
	}
	v, err := c.value(&spec.Value)
	if err != nil {
		return nil, err
	}
	field, err := value.ToNode(spec.Key, v)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return edit.Append(field), nil
}

// scalar returns the source text of a scalar node, so that keys such as
// 0x1f2e3d4c are kept verbatim instead of being read as numbers.
func scalar(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", shapeError(n, "expected a key")
	}
	return n.Value, nil
}

func checkKeys(n *yaml.Node, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return scriptError(n, "expected a mapping")
	}
	for i := 0; i < len(n.Content); i += 2 {
		if k := n.Content[i].Value; !contains(allowed, k) {
			return scriptError(n.Content[i], "unknown key %q", k)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}
