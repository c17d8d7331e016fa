package cli

import (
	"fmt"

	"github.com/etherfi-protocol/cash-safe/internal/config"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of safectl",
		Run: func(cmd *cobra.Command, args []string) {
			if info := config.BuildInfo(); info != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "safectl version %s (%s)\n", config.Version, info)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "safectl version %s\n", config.Version)
		},
	}
}
