package cli

import (
	"github.com/spf13/cobra"
)

// runCommand creates the run command that activates the mod overlay.
func (c *CLI) runCommand() *cobra.Command {
	var (
		build  bool
		script string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Activate the mod overlay until interrupted",
		Long: `Run starts the overlay built by "binpatch build" so the game loads the
mod. It blocks until interrupted with Ctrl+C.`,
		Example: `  # Build and run in one step
  binpatch run --build`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if build {
				res, err := c.runBuild(ctx, cfg, buildOpts{script: script})
				if err != nil || res == nil {
					return err
				}
				printSuccess("Mod built")
				printStats(res)
			}

			runner, err := c.newRunner(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, "Overlay active, press Ctrl+C to stop...")
			spinner.Start()
			if err := runner.Run(ctx); err != nil {
				spinner.StopWithError("Overlay failed")
				return err
			}
			spinner.StopWithSuccess("Overlay stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&build, "build", false, "build the mod before running")
	cmd.Flags().StringVarP(&script, "script", "s", defaultScript, "edit script used with --build")

	return cmd
}
