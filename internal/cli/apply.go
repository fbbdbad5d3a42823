package cli

import (
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/edit"
	"github.com/matzehuels/binpatch/pkg/edit/script"
	"github.com/matzehuels/binpatch/pkg/errors"
	pkgio "github.com/matzehuels/binpatch/pkg/io"
)

// applyOpts holds options for the apply command.
type applyOpts struct {
	output string
	units  []int
	all    bool
}

// applyCommand creates the apply command for editing a local document.
func (c *CLI) applyCommand() *cobra.Command {
	opts := applyOpts{}

	cmd := &cobra.Command{
		Use:   "apply [script] [document]",
		Short: "Apply an edit script to a converted document",
		Long: `Apply the units of an edit script to a local converted document.

Units are matched by the base name of the document unless --all is given.
No external tools are run.`,
		Example: `  # Print the edited document
  binpatch apply edits.yaml a120033c1ad32987.json

  # Apply only the second unit and write the result
  binpatch apply edits.yaml a120033c1ad32987.json --unit 2 -o edited.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntSliceVar(&opts.units, "unit", nil, "apply only the given units (1-based, repeatable)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "apply every unit regardless of its document name")

	return cmd
}

// runApply applies the selected units of the script at scriptPath to the
// document at docPath.
func (c *CLI) runApply(w io.Writer, scriptPath, docPath string, opts applyOpts) error {
	prog := newProgress(c.Logger)

	s, err := c.loadScript(scriptPath)
	if err != nil {
		return err
	}
	units, err := applyUnits(s, docPath, opts)
	if err != nil {
		return err
	}

	doc, err := pkgio.ImportJSON(docPath)
	if err != nil {
		return err
	}
	stopped, err := applyToDocument(doc, units)
	if err != nil {
		return err
	}
	for _, u := range stopped {
		c.Logger.Warn("unit stopped early", "unit", u, "line", u.Line)
	}

	if opts.output == "" {
		if err := pkgio.WriteJSON(doc, w); err != nil {
			return err
		}
		prog.done("applied units", "units", len(units))
		return nil
	}
	if err := pkgio.ExportJSON(doc, opts.output); err != nil {
		return err
	}
	prog.done("applied units", "units", len(units))
	printSuccess("Applied %d units", len(units))
	printFile(opts.output)
	return nil
}

// applyUnits returns the units of s to run against the document at docPath.
func applyUnits(s *script.Script, docPath string, opts applyOpts) ([]*script.Unit, error) {
	units := s.Units
	if len(opts.units) > 0 {
		units = nil
		for _, n := range opts.units {
			if n < 1 || n > len(s.Units) {
				return nil, errors.New(errors.ErrCodeInvalidScript, "unit %d out of range (script has %d units)", n, len(s.Units))
			}
			units = append(units, s.Units[n-1])
		}
	}
	if !opts.all {
		matching := s.ForDocument(docPath)
		units = slices.DeleteFunc(slices.Clone(units), func(u *script.Unit) bool {
			return !slices.Contains(matching, u)
		})
	}
	if len(units) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidScript, "no units in %s match %s", s.Path, docPath)
	}
	return units, nil
}

// applyToDocument runs units against doc's entries in order and returns the
// units that stopped early.
func applyToDocument(doc *bin.Document, units []*script.Unit) ([]*script.Unit, error) {
	root, err := doc.Entries()
	if err != nil {
		return nil, err
	}
	var stopped []*script.Unit
	for _, u := range units {
		res, err := edit.Exec(root, u.Transform)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "unit %s (line %d)", u, u.Line)
		}
		if res.IsStop() {
			stopped = append(stopped, u)
		}
	}
	return stopped, nil
}
