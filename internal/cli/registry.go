package cli

import (
	"fmt"

	"github.com/etherfi-protocol/cash-safe/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewRegistryCmd creates the registry command group
func NewRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the global module allow-list",
		Long: `A module whitelisted on a safe is only enabled while it is also in the
global allow-list. Removing a module here disables it for every safe.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List allowed modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			modules, err := app.ModuleRegistry.List(cmd.Context())
			if err != nil {
				return err
			}
			if ok, err := printJSON(cmd, app, modules); ok {
				return err
			}
			if len(modules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No modules allowed")
				return nil
			}
			for _, m := range modules {
				fmt.Fprintln(cmd.OutOrStdout(), m.Hex())
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <module>",
		Short: "Allow a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			module, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			if err := app.ModuleRegistry.Add(cmd.Context(), module); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Module %s allowed", module.Hex())))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <module>",
		Short: "Disallow a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			module, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			if err := app.ModuleRegistry.Remove(cmd.Context(), module); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Module %s removed", module.Hex())))
			return nil
		},
	})

	return cmd
}
