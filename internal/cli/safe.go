package cli

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/cli/render"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/spf13/cobra"
)

// NewCreateCmd creates the create command
func NewCreateCmd() *cobra.Command {
	var (
		owners         []string
		admins         []string
		modules        []string
		threshold      uint8
		salt           string
		address        string
		dailyLimit     string
		monthlyLimit   string
		timezoneOffset time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new safe",
		Long: `Create a new safe with an owner quorum.

The cash module is enabled implicitly and initialized with the configured
default spending limits. Recovery signers and threshold come from safe.toml.
The safe address is derived from chain, owners, threshold and salt unless
--address is given.`,
		Example: `  # 2-of-3 safe
  safectl create --owner 0xA... --owner 0xB... --owner 0xC... --threshold 2

  # custom limits in a UTC+8 timezone
  safectl create --owner 0xA... --threshold 1 --daily-limit 500 --monthly-limit 5000 --timezone-offset 8h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.CreateSafeParams{Threshold: threshold}
			if params.Owners, err = parseAddresses(owners); err != nil {
				return err
			}
			if params.Admins, err = parseAddresses(admins); err != nil {
				return err
			}
			if params.Modules, err = parseAddresses(modules); err != nil {
				return err
			}
			if address != "" {
				if params.Address, err = parseAddress(address); err != nil {
					return err
				}
			}
			if salt != "" {
				params.Salt = common.HexToHash(salt)
			}
			if dailyLimit != "" {
				v, err := models.ParseUSD(dailyLimit)
				if err != nil {
					return err
				}
				params.DailyLimit = &v
			}
			if monthlyLimit != "" {
				v, err := models.ParseUSD(monthlyLimit)
				if err != nil {
					return err
				}
				params.MonthlyLimit = &v
			}
			if cmd.Flags().Changed("timezone-offset") {
				params.TimezoneOffset = &timezoneOffset
			}

			result, err := app.CreateSafe.Run(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to create safe: %w", err)
			}

			if ok, err := printJSON(cmd, app, result); ok {
				return err
			}
			return render.NewOperationRenderer(cmd.OutOrStdout()).RenderEvents(
				fmt.Sprintf("Safe %s created", result.Safe.Address.Hex()), result.Events)
		},
	}

	cmd.Flags().StringArrayVar(&owners, "owner", nil, "Owner address (repeatable)")
	cmd.Flags().Uint8Var(&threshold, "threshold", 1, "Owner signatures required")
	cmd.Flags().StringArrayVar(&admins, "admin", nil, "Admin address (repeatable, defaults to the owners)")
	cmd.Flags().StringArrayVar(&modules, "module", nil, "Additional allow-listed module to enable (repeatable)")
	cmd.Flags().StringVar(&salt, "salt", "", "Salt for address derivation (hex)")
	cmd.Flags().StringVar(&address, "address", "", "Explicit safe address")
	cmd.Flags().StringVar(&dailyLimit, "daily-limit", "", "Daily spending limit in USD (default from safe.toml)")
	cmd.Flags().StringVar(&monthlyLimit, "monthly-limit", "", "Monthly spending limit in USD (default from safe.toml)")
	cmd.Flags().DurationVar(&timezoneOffset, "timezone-offset", 0, "Timezone offset for limit renewal, e.g. -5h")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [safe]",
		Short: "Show the current state of a safe",
		Long: `Show the state of a safe as of now.

Time-triggered transitions (finalized recovery, activated limits, credit mode)
are applied to the view but only persisted by the next operation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if app.Config.JSON {
				format = "json"
			}

			addr, err := resolveSafe(cmd, app, args)
			if err != nil {
				return err
			}

			view, err := app.ShowSafe.Run(cmd.Context(), addr)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return render.WriteJSON(cmd.OutOrStdout(), view)
			case "yaml":
				return render.WriteYAML(cmd.OutOrStdout(), view)
			case "text", "":
				return render.NewSafeRenderer(cmd.OutOrStdout(), true).RenderSafe(view)
			default:
				return fmt.Errorf("unknown format %q (valid: text, json, yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "Output format (text, json, yaml)")

	return cmd
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored safes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			safes, err := app.ListSafes.Run(cmd.Context())
			if err != nil {
				return err
			}

			if ok, err := printJSON(cmd, app, safes); ok {
				return err
			}
			return render.NewSafeRenderer(cmd.OutOrStdout(), true).RenderSafeList(safes)
		},
	}
}

// NewModuleEnabledCmd creates the module-enabled command
func NewModuleEnabledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "module-enabled <safe> <module>",
		Short: "Check whether a module may act on a safe",
		Long: `A module is enabled when it is the cash module, or when it is both in the
safe's whitelist and in the global allow-list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			module, err := parseAddress(args[1])
			if err != nil {
				return err
			}

			enabled, err := app.CheckModule.Run(cmd.Context(), addr, module)
			if err != nil {
				return err
			}

			if ok, err := printJSON(cmd, app, map[string]any{"safe": addr, "module": module, "enabled": enabled}); ok {
				return err
			}
			if enabled {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Module %s is enabled", module.Hex())))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning(fmt.Sprintf("Module %s is not enabled", module.Hex())))
			}
			return nil
		},
	}
}
