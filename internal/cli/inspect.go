package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/edit"
	"github.com/matzehuels/binpatch/pkg/errors"
	pkgio "github.com/matzehuels/binpatch/pkg/io"
	"github.com/matzehuels/binpatch/pkg/render"
)

// Inspect output formats.
const (
	formatText = "text"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// inspectOpts holds options for the inspect command.
type inspectOpts struct {
	selects  []string
	section  string
	depth    int
	maxItems int
	format   string
	output   string
}

// inspectCommand creates the inspect command for viewing a document tree.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "Print the tree of a converted document",
		Long: `Inspect prints a converted document as a tree, optionally narrowed by a
chain of selectors the same way edit scripts select items.`,
		Example: `  # Show the first two levels of the entries
  binpatch inspect a120033c1ad32987.json --depth 2

  # Render one entry as SVG
  binpatch inspect a120033c1ad32987.json \
    --select Characters/Xerath/Skins/Skin5/Particles/Xerath_Skin05_Q_aoe_reticle_red \
    --format svg -o reticle.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.selects, "select", nil, "select an item by key (repeatable, applied in order)")
	cmd.Flags().StringVar(&opts.section, "section", bin.EntriesSection, "document section to inspect")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 0, "maximum depth (0 for unlimited)")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", 50, "maximum children shown per container (0 for all)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runInspect(w io.Writer, path string, opts inspectOpts) error {
	switch opts.format {
	case formatText, formatDOT, formatSVG:
	default:
		return fmt.Errorf("unknown format %q (want text, dot or svg)", opts.format)
	}

	doc, err := pkgio.ImportJSON(path)
	if err != nil {
		return err
	}
	sec := doc.Section(opts.section)
	if sec == nil {
		return errors.New(errors.ErrCodeStructuralLookup, "document has no %q section", opts.section)
	}
	root, err := selectPath(sec.Target(), opts.selects)
	if err != nil {
		return err
	}
	c.Logger.Debug("inspecting", "file", path, "section", opts.section, "selected", edit.Describe(root))

	item := render.Build(root, render.Options{Depth: opts.depth, MaxItems: opts.maxItems})

	var data []byte
	switch opts.format {
	case formatText:
		data = []byte(render.Text(item) + "\n")
	case formatDOT:
		data = []byte(render.ToDOT(item))
	case formatSVG:
		if data, err = render.RenderSVG(render.ToDOT(item)); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := w.Write(data)
		return err
	}
	if err := pkgio.WriteFile(opts.output, data); err != nil {
		return err
	}
	printFile(opts.output)
	return nil
}

// selectPath follows keys from root one selector at a time.
func selectPath(root bin.Addressable, keys []string) (bin.Addressable, error) {
	cur := root
	for _, k := range keys {
		res, err := edit.Exec(cur, edit.Select(k))
		if err != nil {
			return nil, err
		}
		if res.IsUndefined() {
			return nil, errors.New(errors.ErrCodeStructuralLookup, "no item %q in %s", k, edit.Describe(cur))
		}
		cur = res.Subject()
	}
	return cur, nil
}
