package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/etherfi-protocol/cash-safe/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the safe HTTP API",
		Long: `Run the HTTP API over the same state directory the CLI uses. Operations
on one safe are serialized; different safes are handled in parallel.

Listen address comes from --listen, SAFE_LISTEN or safe.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Serve(ctx, app, app.Config.ListenAddr)
		},
	}

	cmd.Flags().String("listen", "", "Listen address, e.g. 127.0.0.1:8545")

	return cmd
}
