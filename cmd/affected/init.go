package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"affected/internal/config"
	"affected/internal/errors"
	"affected/internal/paths"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName,
		Long:  "Creates " + config.FileName + " with default settings in the repository root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, force bool) error {
	root := opts.repositoryPath
	if root == "" {
		root = "."
	}
	repoRoot, err := paths.ResolveRepoRoot(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	configPath := filepath.Join(repoRoot, config.FileName)

	if _, statErr := os.Stat(configPath); statErr == nil && !force {
		// Already initialized is success
		fmt.Fprintf(out, "Configuration already exists at: %s\n", configPath)
		fmt.Fprintln(out, "Run 'affected init --force' to overwrite it.")
		return nil
	}

	if err := config.DefaultConfig().Save(repoRoot); err != nil {
		return errors.New(errors.InternalError, "failed to write "+config.FileName, err)
	}

	fmt.Fprintf(out, "Wrote default configuration to: %s\n", configPath)
	return nil
}
