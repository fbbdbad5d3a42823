package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/binpatch/pkg/config"
	"github.com/matzehuels/binpatch/pkg/observability"
	"github.com/matzehuels/binpatch/pkg/pipeline"
)

// buildOpts holds options for the build command.
type buildOpts struct {
	script      string
	pick        bool
	noCache     bool
	refresh     bool
	skipOverlay bool
}

// buildCommand creates the build command for packaging a mod.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Apply an edit script to the game files and package the mod",
		Long: `Build extracts and converts the documents an edit script targets, applies
its units, converts the results back to bin files and packages them as an
overlay mod.

Converted documents are cached per game version, so only the first build
after a game update runs the extraction tools.`,
		Example: `  # Build with edits.yaml and binpatch.toml from the current directory
  binpatch build

  # Choose which units to include
  binpatch build --script skins.yaml --pick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			res, err := c.runBuild(cmd.Context(), cfg, opts)
			if err != nil || res == nil {
				return err
			}
			printBuildSummary(cfg, res, opts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.script, "script", "s", defaultScript, "edit script")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose units interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the document cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "reconvert cached documents")
	cmd.Flags().BoolVar(&opts.skipOverlay, "skip-overlay", false, "stop after packaging the mod")

	return cmd
}

// runBuild executes the pipeline. It returns a nil result when the user
// cancelled the unit picker.
func (c *CLI) runBuild(ctx context.Context, cfg *config.Config, opts buildOpts) (*pipeline.Result, error) {
	s, err := c.loadScript(opts.script)
	if err != nil {
		return nil, err
	}
	if opts.pick {
		if s, err = pickUnits(s); err != nil {
			return nil, err
		}
		if s == nil {
			printInfo("Build cancelled")
			return nil, nil
		}
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	c.Logger.Debug("building", "script", s.Path, "units", len(s.Units), "wads", len(s.Wads()))
	prog := newProgress(c.Logger)

	if c.Logger.GetLevel() > LogDebug {
		spinner := newSpinnerWithContext(ctx, "Building mod...")
		prev := observability.Pipeline()
		observability.SetPipelineHooks(spinnerHooks{spinner: spinner})
		defer observability.SetPipelineHooks(prev)
		spinner.Start()
		defer spinner.Stop()
	}

	res, err := runner.Execute(ctx, pipeline.Options{
		Script:      s,
		Refresh:     opts.refresh,
		SkipOverlay: opts.skipOverlay,
	})
	if err != nil {
		return nil, err
	}
	prog.done("build complete", "documents", res.Documents, "units", res.Units)
	return res, nil
}

func printBuildSummary(cfg *config.Config, res *pipeline.Result, opts buildOpts) {
	printNewline()
	printSuccess("Mod built")
	printStats(res)
	if len(res.Stopped) > 0 {
		printWarning("%d units stopped early", len(res.Stopped))
		for _, u := range res.Stopped {
			printDetail("%s", u)
		}
	}
	printFile(cfg.ModDir())
	printNewline()
	printKeyValue("Build", res.BuildID)
	printKeyValue("Load", res.Stats.LoadTime.String())
	printKeyValue("Edit", res.Stats.EditTime.String())
	printKeyValue("Rebuild", res.Stats.RebuildTime.String())
	printNewline()
	if opts.skipOverlay {
		printNextStep("Package the overlay", appName+" build --script "+opts.script)
		return
	}
	printNextStep("Start the game with the mod", appName+" run")
}

// spinnerHooks shows the running pipeline stage on a spinner.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
}

func (h spinnerHooks) OnStageStart(_ context.Context, stage string) {
	h.spinner.Update(fmt.Sprintf("Running %s stage...", stage))
}
