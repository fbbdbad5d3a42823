package script

import (
	"bytes"
	"io"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/binpatch/pkg/edit"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// Script is a compiled edit script: an ordered list of units.
type Script struct {
	Path  string
	Units []*Unit
}

// Unit is one edit unit: a transform applied to the entries of one
// converted document inside one archive.
type Unit struct {
	// Wad is the archive path relative to the game directory, with forward
	// slashes.
	Wad string
	// Bin is the file name of the converted document inside the archive.
	Bin string
	// Transform is the compiled chain of the unit's steps.
	Transform edit.Transform
	// Steps is the number of top-level steps.
	Steps int
	// Line is the unit's position in the source file.
	Line int
}

// Target identifies one converted document.
type Target struct {
	Wad string
	Bin string
}

// String returns "wad:bin".
func (t Target) String() string { return t.Wad + ":" + t.Bin }

// Target returns the document the unit edits.
func (u *Unit) Target() Target { return Target{Wad: u.Wad, Bin: u.Bin} }

// String describes the unit for logs and pickers.
func (u *Unit) String() string { return u.Target().String() }

// Options configure compilation.
type Options struct {
	// Logger receives print steps. Nil disables them.
	Logger *log.Logger
	// Debug receives debug steps. Defaults to os.Stderr.
	Debug io.Writer
}

type fileSpec struct {
	Units []unitSpec `yaml:"units"`
}

type unitSpec struct {
	Wad        string    `yaml:"wad"`
	Bin        string    `yaml:"bin"`
	Transforms yaml.Node `yaml:"transforms"`
}

// Load reads and compiles the script at path.
func Load(path string, opts Options) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "edit script %s", path)
		}
		return nil, err
	}
	s, err := Parse(data, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "edit script %s", path)
	}
	s.Path = path
	return s, nil
}

// Parse compiles a script from YAML source.
func Parse(data []byte, opts Options) (*Script, error) {
	if opts.Debug == nil {
		opts.Debug = os.Stderr
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var spec fileSpec
	if err := dec.Decode(&spec); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "parse")
	}
	if len(spec.Units) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidScript, "script has no units")
	}

	c := &compiler{opts: opts}
	s := &Script{Units: make([]*Unit, 0, len(spec.Units))}
	for i, us := range spec.Units {
		u, err := c.unit(us)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "unit %d", i)
		}
		s.Units = append(s.Units, u)
	}
	return s, nil
}

func (c *compiler) unit(us unitSpec) (*Unit, error) {
	wad := strings.ReplaceAll(us.Wad, "\\", "/")
	if err := errors.ValidatePath(wad); err != nil {
		return nil, err
	}
	if err := errors.ValidateFilename(us.Bin); err != nil {
		return nil, err
	}

	n := &us.Transforms
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New(errors.ErrCodeInvalidScript, "%s: transforms must be a list of steps", wad)
	}
	t, err := c.step(n)
	if err != nil {
		return nil, err
	}
	return &Unit{Wad: wad, Bin: us.Bin, Transform: t, Steps: len(n.Content), Line: n.Line}, nil
}

// Targets returns the documents the script edits, in order of first use.
func (s *Script) Targets() []Target {
	seen := make(map[Target]bool)
	var res []Target
	for _, u := range s.Units {
		if t := u.Target(); !seen[t] {
			seen[t] = true
			res = append(res, t)
		}
	}
	return res
}

// UnitsFor returns the units targeting t in script order.
func (s *Script) UnitsFor(t Target) []*Unit {
	var res []*Unit
	for _, u := range s.Units {
		if u.Target() == t {
			res = append(res, u)
		}
	}
	return res
}

// Wads returns the distinct archives the script touches, in order of first
// use.
func (s *Script) Wads() []string {
	seen := make(map[string]bool)
	var res []string
	for _, u := range s.Units {
		if !seen[u.Wad] {
			seen[u.Wad] = true
			res = append(res, u.Wad)
		}
	}
	return res
}

// Select returns a script holding the units for which keep returns true.
func (s *Script) Select(keep func(*Unit) bool) *Script {
	res := &Script{Path: s.Path}
	for _, u := range s.Units {
		if keep(u) {
			res.Units = append(res.Units, u)
		}
	}
	return res
}

// ForDocument returns the units whose bin matches the base name of file.
func (s *Script) ForDocument(file string) []*Unit {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	var res []*Unit
	for _, u := range s.Units {
		if u.Bin == base {
			res = append(res, u)
		}
	}
	return res
}
