package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yarlson/gflow/internal/config"
	"github.com/yarlson/gflow/internal/git"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize gflow in a repository",
		Long: `Write a default gflow.yaml, initializing a git repository first when the
directory is not one yet, and create the develop branch off the stable
branch if it is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing gflow.yaml")
	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	ctx := cmd.Context()
	mgr := git.NewShellManager(workDir)
	if err := mgr.Init(ctx); err != nil {
		return err
	}

	cfg := config.Default()
	path := filepath.Join(workDir, config.ConfigFileName)
	if err := cfg.Write(path, force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", config.ConfigFileName)

	stableExists, err := mgr.BranchExists(ctx, cfg.Branch.Stable)
	if err != nil {
		return err
	}
	developExists, err := mgr.BranchExists(ctx, cfg.Branch.Develop)
	if err != nil {
		return err
	}
	if stableExists && !developExists {
		if err := mgr.CreateBranch(ctx, cfg.Branch.Develop, cfg.Branch.Stable); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created branch %q based on %q\n", cfg.Branch.Develop, cfg.Branch.Stable)
	}

	return nil
}
