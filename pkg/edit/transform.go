package edit

import (
	"fmt"
	"regexp"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// Subject is the node a transform operates on: a field (*bin.Node), a map
// entry (*bin.MapEntry), a bare container (*bin.Struct, *bin.List,
// *bin.Map) or a raw field list (*bin.Fields).
type Subject = bin.Addressable

// Result is the outcome of one transform step. It either carries the next
// subject (possibly nil, meaning nothing was found) or is the stop sentinel.
type Result struct {
	subject Subject
	stopped bool
}

// Continue returns a result that passes s to the next step. A nil s marks an
// undefined result, such as a selector miss.
func Continue(s Subject) Result {
	return Result{subject: s}
}

// Stopped is the stop sentinel. A chain that produces it skips every
// remaining step.
var Stopped = Result{stopped: true}

// Subject returns the carried subject, or nil if the result is undefined or
// stopped.
func (r Result) Subject() Subject { return r.subject }

// IsStop reports whether r is the stop sentinel.
func (r Result) IsStop() bool { return r.stopped }

// IsUndefined reports whether r carries no subject and is not a stop.
func (r Result) IsUndefined() bool { return !r.stopped && r.subject == nil }

// String describes the result for logs.
func (r Result) String() string {
	if r.stopped {
		return "stop"
	}
	return Describe(r.subject)
}

// Func is the canonical form every transform normalizes to.
type Func func(Subject) (Result, error)

// Transform is one of the three accepted transform shapes: a [Key]
// selector, a [Chain] of transforms, or a [Func].
type Transform interface {
	normalize() (Func, error)
}

// Key selects the first item whose key equals it.
type Key string

// Chain applies its transforms left to right, feeding each result into the
// next, and short-circuits on the stop sentinel.
type Chain []Transform

func (k Key) normalize() (Func, error) {
	return Select(string(k)), nil
}

func (f Func) normalize() (Func, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidTransform, "nil transform function")
	}
	return f, nil
}

func (c Chain) normalize() (Func, error) {
	steps := make([]Func, len(c))
	for i, t := range c {
		if t == nil {
			return nil, errors.New(errors.ErrCodeInvalidTransform, "chain step %d is nil", i)
		}
		f, err := t.normalize()
		if err != nil {
			return nil, err
		}
		steps[i] = f
	}

	return func(s Subject) (Result, error) {
		acc := Continue(s)
		for _, step := range steps {
			r, err := step(acc.subject)
			if err != nil {
				return Result{}, err
			}
			if r.stopped {
				return Stopped, nil
			}
			acc = r
		}
		return acc, nil
	}, nil
}

// Normalize resolves a transform given in any accepted shape into a Func.
// Besides the Transform types it accepts a string (selector), a slice of
// accepted shapes (chain), a plain func(Subject) (Result, error), a
// *regexp.Regexp (pattern selector) and an int (positional selector).
// Anything else is an ErrCodeInvalidTransform error.
func Normalize(t any) (Func, error) {
	switch v := t.(type) {
	case nil:
		return nil, errors.New(errors.ErrCodeInvalidTransform, "transform is nil")
	case Transform:
		return v.normalize()
	case string:
		return Key(v).normalize()
	case func(Subject) (Result, error):
		return Func(v).normalize()
	case *regexp.Regexp:
		if v == nil {
			return nil, errors.New(errors.ErrCodeInvalidTransform, "nil pattern")
		}
		return SelectMatch(v), nil
	case int:
		return Nth(v), nil
	case []Transform:
		return Chain(v).normalize()
	case []any:
		c := make(Chain, len(v))
		for i, it := range v {
			f, err := Normalize(it)
			if err != nil {
				return nil, fmt.Errorf("chain step %d: %w", i, err)
			}
			c[i] = f
		}
		return c.normalize()
	}
	return nil, errors.New(errors.ErrCodeInvalidTransform, "unsupported transform shape %T", t)
}

// MustNormalize is like Normalize but panics on error. It is intended for
// transforms written as Go literals.
func MustNormalize(t any) Func {
	f, err := Normalize(t)
	if err != nil {
		panic(err)
	}
	return f
}

// Exec applies t once to root. It is the entry point for one edit unit.
func Exec(root Subject, t any) (Result, error) {
	f, err := Normalize(t)
	if err != nil {
		return Result{}, err
	}
	return f(root)
}

// compile normalizes the arguments of a combinator. A combinator cannot
// return an error itself, so a malformed argument yields a Func that fails
// with the configuration error on every call.
func compile(ts []Transform) Func {
	f, err := Chain(ts).normalize()
	if err != nil {
		return failing(err)
	}
	return f
}

func failing(err error) Func {
	return func(Subject) (Result, error) { return Result{}, err }
}

// Stop returns the stop sentinel unconditionally.
func Stop() Func {
	return func(Subject) (Result, error) { return Stopped, nil }
}

// Pass returns its subject unchanged.
func Pass() Func {
	return func(s Subject) (Result, error) { return Continue(s), nil }
}
