package edit

import (
	"fmt"
	"regexp"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/bin/value"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// =============================================================================
// Selection
// =============================================================================

// Select returns the first item whose key equals key, or an undefined result
// if there is none. Map entries are matched on their key rendered as text.
func Select(key string) Func {
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("select %q: %w", key, err)
		}
		if i := it.index(key); i >= 0 {
			return Continue(it.at(i)), nil
		}
		return Continue(nil), nil
	}
}

// SelectMatch returns the first item whose key matches re.
func SelectMatch(re *regexp.Regexp) Func {
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("select /%s/: %w", re, err)
		}
		if i := it.matching(re); i >= 0 {
			return Continue(it.at(i)), nil
		}
		return Continue(nil), nil
	}
}

// Nth returns the item at position n, or an undefined result if n is out of
// range.
func Nth(n int) Func {
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("nth %d: %w", n, err)
		}
		if n < 0 || n >= it.len() {
			return Continue(nil), nil
		}
		return Continue(it.at(n)), nil
	}
}

// Filter returns a new bare container holding every item whose key equals
// key. The items themselves are shared with the subject.
func Filter(key string) Func {
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("filter %q: %w", key, err)
		}
		switch {
		case it.fields != nil:
			var res bin.Fields
			for _, n := range *it.fields {
				if n.Key == key {
					res = append(res, n)
				}
			}
			return Continue(&res), nil
		case it.m != nil:
			res := &bin.Map{KeyType: it.m.KeyType, ValueType: it.m.ValueType}
			for _, e := range it.m.Items {
				if fmt.Sprint(e.Key) == key {
					res.Items = append(res.Items, e)
				}
			}
			return Continue(res), nil
		}
		return Continue(&bin.List{ValueType: it.list.ValueType}), nil
	}
}

// =============================================================================
// Traversal and control flow
// =============================================================================

// Iterate applies the chain of ts to every item of the subject in document
// order. Each branch's result, including a stop, is discarded; errors abort
// the iteration. Iterate returns its subject unchanged.
func Iterate(ts ...Transform) Func {
	body := compile(ts)
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("iterate: %w", err)
		}

		subjects := make([]Subject, it.len())
		for i := range subjects {
			subjects[i] = it.at(i)
		}
		for i, sub := range subjects {
			if _, err := body(sub); err != nil {
				return Result{}, err
			}
			if it.list != nil {
				if err := writeBack(it.list, i, sub); err != nil {
					return Result{}, err
				}
			}
		}
		return Continue(s), nil
	}
}

// writeBack stores the payload of a scalar list element after the iteration
// body has run on its transient node.
func writeBack(l *bin.List, i int, sub Subject) error {
	n, ok := sub.(*bin.Node)
	if !ok || i >= len(l.Items) {
		return nil
	}
	v, err := bin.Coerce(l.ValueType, n.Value)
	if err != nil {
		return fmt.Errorf("list item %d: %w", i, err)
	}
	l.Items[i] = v
	return nil
}

// Try applies t and returns its result unless t fails or produces an
// undefined result, in which case fallback is applied to the original
// subject instead. Without a fallback, Try stops. A stop from t is returned
// as is.
func Try(t Transform, fallback ...Transform) Func {
	f := compile([]Transform{t})
	or := Stop()
	if len(fallback) > 0 {
		or = compile(fallback)
	}
	return func(s Subject) (Result, error) {
		r, err := f(s)
		if err == nil && !r.IsUndefined() {
			return r, nil
		}
		return or(s)
	}
}

// If applies then to the subject when an item with the given key exists,
// and otherwise applies els, if given.
func If(key string, then Transform, els ...Transform) Func {
	th := compile([]Transform{then})
	var el Func
	if len(els) > 0 {
		el = compile(els)
	}
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("if %q: %w", key, err)
		}
		if it.index(key) >= 0 {
			return th(s)
		}
		if el != nil {
			return el(s)
		}
		return Continue(s), nil
	}
}

// =============================================================================
// Mutation
// =============================================================================

// Update computes a field's new payload from its current one.
type Update func(old any) (any, error)

// Set returns an Update that replaces the payload with v.
func Set(v any) Update {
	return func(any) (any, error) { return v, nil }
}

// SetBits returns an Update that sets the bits of mask in an integer
// payload.
func SetBits(mask uint64) Update {
	return bitwise("set_bits", func(x uint64) uint64 { return x | mask })
}

// ClearBits returns an Update that clears the bits of mask in an integer
// payload.
func ClearBits(mask uint64) Update {
	return bitwise("clear_bits", func(x uint64) uint64 { return x &^ mask })
}

func bitwise(op string, f func(uint64) uint64) Update {
	return func(old any) (any, error) {
		switch v := old.(type) {
		case uint64:
			return f(v), nil
		case int64:
			return int64(f(uint64(v))), nil
		}
		return nil, errors.New(errors.ErrCodeInvalidValue, "%s needs an integer field, got %T", op, old)
	}
}

// Modify replaces the payload of the field with the given key by the result
// of u applied to its current payload. The result is coerced to the field's
// type. The field must exist: a miss is an ErrCodeStructuralLookup error.
func Modify(key string, u Update) Func {
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("modify %q: %w", key, err)
		}
		i := it.index(key)
		if i < 0 {
			return Result{}, errors.New(errors.ErrCodeStructuralLookup, "modify: key %q not found", key)
		}

		var (
			typ bin.Type
			old any
		)
		switch {
		case it.fields != nil:
			n := (*it.fields)[i]
			typ, old = n.Type, n.Value
		default:
			typ, old = it.m.ValueType, it.m.Items[i].Value
		}

		next, err := u(old)
		if err != nil {
			return Result{}, fmt.Errorf("modify %q: %w", key, err)
		}
		v, err := bin.Coerce(typ, next)
		if err != nil {
			return Result{}, fmt.Errorf("modify %q: %w", key, err)
		}

		if it.fields != nil {
			(*it.fields)[i].Value = v
		} else {
			it.m.Items[i].Value = v
		}
		return Continue(s), nil
	}
}

// Remove deletes the first item with the given key. A miss is an
// ErrCodeStructuralLookup error and leaves the subject untouched.
func Remove(key string) Func {
	return func(s Subject) (Result, error) {
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("remove %q: %w", key, err)
		}
		i := it.index(key)
		if i < 0 {
			return Result{}, errors.New(errors.ErrCodeStructuralLookup, "remove: key %q not found", key)
		}
		it.remove(i)
		return Continue(s), nil
	}
}

// Append pushes a deep copy of field onto the subject's items. Every call
// inserts a fresh copy, so one template can be appended to many subjects.
func Append(field *bin.Node) Func {
	return func(s Subject) (Result, error) {
		if field == nil {
			return Result{}, errors.New(errors.ErrCodeInvalidTransform, "append: nil field")
		}
		it, err := itemsOf(s)
		if err != nil {
			return Result{}, fmt.Errorf("append %q: %w", field.Key, err)
		}
		if err := it.push(field); err != nil {
			return Result{}, fmt.Errorf("append %q: %w", field.Key, err)
		}
		return Continue(s), nil
	}
}

// AppendValue converts v into a field named key and appends it.
func AppendValue(key string, v value.Value) Func {
	field, err := value.ToNode(key, v)
	if err != nil {
		return failing(err)
	}
	return Append(field)
}
