package cli

import (
	"fmt"

	"github.com/etherfi-protocol/cash-safe/internal/cli/render"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/spf13/cobra"
)

// NewSpendCmd creates the spend command
func NewSpendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spend <safe> <tx-id> <amount>",
		Short: "Settle a card transaction against the spending limits",
		Long: `Charge a settled card transaction to the safe's daily and monthly limits.
Each transaction id is accepted once. The amount is in USD, e.g. 12.50.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := models.ParseUSD(args[2])
			if err != nil {
				return err
			}

			result, err := app.SettleSpend.Run(cmd.Context(), usecase.SpendParams{Safe: addr, TxID: args[1], Amount: amount})
			if err != nil {
				return fmt.Errorf("spend rejected: %w", err)
			}

			if ok, err := printJSON(cmd, app, result); ok {
				return err
			}
			return render.NewOperationRenderer(cmd.OutOrStdout()).RenderEvents(
				fmt.Sprintf("Spent %s from %s", render.USD(amount), addr.Hex()), result.Events)
		},
	}
}

// NewCanSpendCmd creates the can-spend command
func NewCanSpendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "can-spend <safe> [amount]",
		Short: "Check an amount against the spending limits",
		Long: `Report whether amount (USD) can be spent now and the maximum spendable
amount. Pending limit decreases count as already active.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			var amount uint64
			if len(args) == 2 {
				if amount, err = models.ParseUSD(args[1]); err != nil {
					return err
				}
			}

			report, err := app.CheckSpending.Run(cmd.Context(), addr, amount)
			if err != nil {
				return err
			}

			if ok, err := printJSON(cmd, app, report); ok {
				return err
			}
			return render.NewSafeRenderer(cmd.OutOrStdout(), true).RenderSpending(report)
		},
	}
}

// NewWithdrawalCmd creates the withdrawal command group
func NewWithdrawalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdrawal",
		Short: "Manage staged withdrawals",
		Long: `Withdrawals are requested and cancelled with admin-signed operations
('safectl exec <safe> request-withdrawal'). Once the withdrawal delay has
passed anyone may process them.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "process <safe>",
		Short: "Release a matured withdrawal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			result, err := app.ProcessWithdrawal.Run(cmd.Context(), addr)
			if err != nil {
				return err
			}

			if ok, err := printJSON(cmd, app, result); ok {
				return err
			}
			return render.NewOperationRenderer(cmd.OutOrStdout()).RenderEvents(
				fmt.Sprintf("Withdrawal to %s processed", result.Withdrawal.Recipient.Hex()), result.Events)
		},
	})

	return cmd
}
