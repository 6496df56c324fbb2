package main

import (
	"fmt"

	"github.com/openoceanspp/oopp/internal/projectconfig"
	"github.com/openoceanspp/oopp/internal/search"
	"github.com/spf13/cobra"
)

func newSearchCommand() *cobra.Command {
	var (
		build   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the shell commands for a hyperparameter sweep",
		Long: `Print the shell commands for a classifier hyperparameter sweep.

For every grid point the output clears the predictions directory, runs
make classify with one flag changed, runs make score and appends the
command and the scoring reports to the results log. Pipe the output into
a shell from the directory holding the Makefile.

The grid, predictions directory, results log and report files come from
.oopp.yaml; the defaults reproduce the stock sweep.

--build only accepts debug or release; any other value is rejected before
anything is printed.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := projectconfig.Load(projectDir(cmd))
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("build") {
				build = ""
			}
			if !cmd.Flags().Changed("verbose") && cfg.Defaults.Verbose != nil {
				verbose = *cfg.Defaults.Verbose
			}

			script := search.ScriptFromConfig(cfg.Search, build)
			if err := search.ValidateBuild(script.Build); err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d grid points, build %s\n", script.Grid.Len(), script.Build) //nolint:errcheck
			}
			return script.Write(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&build, "build", "b", projectconfig.DefaultBuild, "Build string [debug|release]")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	return cmd
}
