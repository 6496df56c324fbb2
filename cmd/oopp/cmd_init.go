package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openoceanspp/oopp/internal/projectconfig"
	"github.com/openoceanspp/oopp/internal/wizard"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .oopp.yaml project config",
		Long: `Create a .oopp.yaml project config with a short guided form.

Asks for the build type used by search, the number of samples shown by
compare and where compare writes its charts. Existing configs are left
alone unless --force is given.

If no directory is specified, the current directory is used.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return initCommandE(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .oopp.yaml")

	return cmd
}

func initCommandE(cmd *cobra.Command, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, projectconfig.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return &UsageError{Message: fmt.Sprintf("%s: %v", path, wizard.ErrConfigExists), Err: wizard.ErrConfigExists}
	}

	cfg := projectconfig.New()
	answers, err := wizard.Run(cmd.InOrStdin(), cmd.OutOrStdout(), wizard.DefaultAnswers(cfg))
	if err != nil {
		return err
	}
	wizard.Apply(cfg, answers)

	path, err = wizard.WriteConfig(dir, cfg, force)
	if errors.Is(err, wizard.ErrConfigExists) {
		return &UsageError{Message: fmt.Sprintf("%s: %v", path, err), Err: err}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path) //nolint:errcheck
	return nil
}
