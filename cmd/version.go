package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the gflow release version.
const Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gflow version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gflow version %s\n", Version)
			return err
		},
	}
}
