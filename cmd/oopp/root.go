package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oopp",
		Short: "oopp - OpenOceans++ experiment tooling",
		Long: `oopp helps tune and evaluate the OpenOceans++ photon classifier.

It prints the shell commands for a hyperparameter sweep and compares the
per-file score tables produced by different models.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("project-dir", ".", "Directory to start the .oopp.yaml lookup from")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// Add subcommands
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newSearchCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

// projectDir returns the --project-dir value, defaulting to the working
// directory when the flag is not registered on cmd's tree.
func projectDir(cmd *cobra.Command) string {
	if f := cmd.Flag("project-dir"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "."
}

// usageArgs reports positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
