package cli

import (
	"context"
	"fmt"

	"github.com/etherfi-protocol/cash-safe/internal/app"
	"github.com/etherfi-protocol/cash-safe/internal/config"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// skipsApp reports whether a command runs without configuration
func skipsApp(name string) bool {
	switch name {
	case "version", "help", "completion", "methods":
		return true
	}
	return false
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "safectl",
		Short: "Multi-signature safe authorization core for EtherFi Cash",
		Long: `safectl manages EtherFi Cash safes: owner quorums, admin-signed cash
operations, module capabilities, time-locked recovery and spending limits.

Operations are authorized by signatures over a per-safe, per-nonce digest.
Use 'digest' to compute what signers must sign, 'sign' to sign it with a
local key and 'exec' to submit the collected signatures.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd.Name()) {
				return nil
			}

			v := config.SetupViper(config.FindProjectRoot())

			// Bind flags that have been set
			config.BindFlags(v, cmd)

			// Initialize app with DI
			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// The daemon runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON")
	rootCmd.PersistentFlags().Uint64("chain-id", 0, "Chain ID (overrides safe.toml)")
	rootCmd.PersistentFlags().String("data-dir", "", "State directory (overrides safe.toml)")
	rootCmd.PersistentFlags().String("project-root", "", "Directory containing safe.toml")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "safe",
		Title: "Safe Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "operations",
		Title: "Signed Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cash",
		Title: "Cash Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{NewCreateCmd(), NewShowCmd(), NewListCmd(), NewModuleEnabledCmd()} {
		c.GroupID = "safe"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewMethodsCmd(), NewDigestCmd(), NewSignCmd(), NewExecCmd()} {
		c.GroupID = "operations"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewSpendCmd(), NewCanSpendCmd(), NewWithdrawalCmd()} {
		c.GroupID = "cash"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewRegistryCmd(), NewServeCmd()} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
