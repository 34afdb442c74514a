// Package cmd defines the gflow command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yarlson/gflow/internal/config"
	"github.com/yarlson/gflow/internal/flow"
	"github.com/yarlson/gflow/internal/git"
)

var cfgFile string

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// NewRootCmd creates the root command for the gflow CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gflow",
		Short: "Git branching workflow helper",
		Long: `gflow is a convenience layer over git implementing a branching workflow
with feature, release, hotfix, and support branches. All state lives in
git; gflow sequences branch, merge, tag, and push operations and checks
their preconditions first.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: gflow.yaml in the working directory)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newFeatureCmd())
	rootCmd.AddCommand(newReleaseCmd())
	rootCmd.AddCommand(newHotfixCmd())
	rootCmd.AddCommand(newSupportCmd())

	return rootCmd
}

// newFlow builds a Flow over the current working directory.
func newFlow(cmd *cobra.Command) (*flow.Flow, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfigWithFile(workDir, GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return flow.New(git.NewShellManager(workDir), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()), nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
