package cli

import (
	"fmt"
	"os"

	"github.com/etherfi-protocol/cash-safe/internal/adapters/signer"
	"github.com/etherfi-protocol/cash-safe/internal/cli/render"
	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const argsHelp = `Arguments are a JSON object, given inline, as @file or as - for stdin.
Run 'safectl methods' for the method names.`

// NewMethodsCmd creates the methods command
func NewMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List signed operation methods and their tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.Style().Options.DrawBorder = false
			t.Style().Options.SeparateColumns = false
			t.AppendHeader(table.Row{"METHOD", "TAG"})
			for _, m := range digest.Methods {
				t.AppendRow(table.Row{m.Kebab(), m.Tag().Hex()})
			}
			t.Render()
			return nil
		},
	}
}

// NewDigestCmd creates the digest command
func NewDigestCmd() *cobra.Command {
	var opArgs string

	cmd := &cobra.Command{
		Use:   "digest <safe> <method>",
		Short: "Compute the digest signers must sign",
		Long: `Compute the digest of an operation against the safe's current nonce.

` + argsHelp,
		Example: `  safectl digest 0xSafe set-threshold --args '{"threshold":2}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			op, err := parseOperation(cmd.InOrStdin(), args[1], opArgs)
			if err != nil {
				return err
			}

			result, err := app.ComputeDigest.Run(cmd.Context(), usecase.ComputeDigestParams{Safe: addr, Operation: op})
			if err != nil {
				return err
			}

			if ok, err := printJSON(cmd, app, result); ok {
				return err
			}
			return render.NewOperationRenderer(cmd.OutOrStdout()).RenderDigest(result)
		},
	}

	cmd.Flags().StringVar(&opArgs, "args", "", "Operation arguments (JSON, @file or -)")

	return cmd
}

// NewSignCmd creates the sign command
func NewSignCmd() *cobra.Command {
	var (
		opArgs     string
		privateKey string
	)

	cmd := &cobra.Command{
		Use:   "sign <safe> <method>",
		Short: "Sign an operation digest with a local key",
		Long: `Sign the digest of an operation with a private key and print the
--signer value to pass to 'safectl exec'.

The key is read from --private-key or SAFE_PRIVATE_KEY.

` + argsHelp,
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
			op, err := parseOperation(cmd.InOrStdin(), args[1], opArgs)
			if err != nil {
				return err
			}

			if privateKey == "" {
				privateKey = os.Getenv("SAFE_PRIVATE_KEY")
			}
			if privateKey == "" {
				return fmt.Errorf("no private key: set --private-key or SAFE_PRIVATE_KEY")
			}
			keySigner, err := signer.NewKeySigner(privateKey)
			if err != nil {
				return err
			}

			result, err := app.SignOperation.Run(cmd.Context(), usecase.SignOperationParams{
				Safe:      addr,
				Operation: op,
				Signer:    keySigner,
			})
			if err != nil {
				return err
			}

			if ok, err := printJSON(cmd, app, result); ok {
				return err
			}
			return render.NewOperationRenderer(cmd.OutOrStdout()).RenderSignature(result)
		},
	}

	cmd.Flags().StringVar(&opArgs, "args", "", "Operation arguments (JSON, @file or -)")
	cmd.Flags().StringVar(&privateKey, "private-key", "", "Hex private key")

	return cmd
}

// NewExecCmd creates the exec command
func NewExecCmd() *cobra.Command {
	var (
		opArgs    string
		signers   []string
		proofFile string
	)

	cmd := &cobra.Command{
		Use:   "exec <safe> <method>",
		Short: "Execute a signed operation",
		Long: `Verify the collected signatures and apply the operation. On success the
nonce advances (except for recover-safe) and the emitted events are printed.

` + argsHelp,
		Example: `  safectl exec 0xSafe set-threshold --args '{"threshold":2}' \
    --signer 0xOwnerA=0x... --signer 0xOwnerB=0x...`,
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
			op, err := parseOperation(cmd.InOrStdin(), args[1], opArgs)
			if err != nil {
				return err
			}
			proof, err := parseProof(signers, proofFile)
			if err != nil {
				return err
			}

			if op.Method() == digest.CancelNonce && !app.Config.JSON {
				d, err := app.ComputeDigest.Run(cmd.Context(), usecase.ComputeDigestParams{Safe: addr, Operation: op})
				if err != nil {
					return err
				}
				ok, err := app.Selector.Confirm(cmd.Context(),
					fmt.Sprintf("Cancel nonce %d of %s? Signatures collected for it become invalid", d.Nonce, addr.Hex()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			result, err := app.ExecuteOperation.Run(cmd.Context(), usecase.ExecuteOperationParams{
				Safe:      addr,
				Operation: op,
				Proof:     proof,
			})
			if err != nil {
				return fmt.Errorf("%s rejected: %w", op.Method(), err)
			}

			if ok, err := printJSON(cmd, app, result); ok {
				return err
			}
			return render.NewOperationRenderer(cmd.OutOrStdout()).RenderEvents(
				fmt.Sprintf("%s committed at nonce %d", op.Method(), result.Nonce), result.Events)
		},
	}

	cmd.Flags().StringVar(&opArgs, "args", "", "Operation arguments (JSON, @file or -)")
	cmd.Flags().StringArrayVar(&signers, "signer", nil, "Signature as <address>=<signature> (repeatable, in signing order)")
	cmd.Flags().StringVar(&proofFile, "proof", "", `JSON file with {"signers":[...],"signatures":[...]}`)

	return cmd
}
