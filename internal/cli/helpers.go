package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/etherfi-protocol/cash-safe/internal/app"
	"github.com/etherfi-protocol/cash-safe/internal/cli/render"
	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/spf13/cobra"
)

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address: %s", s)
	}
	return common.HexToAddress(s), nil
}

func parseAddresses(in []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(in))
	for _, s := range in {
		a, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// resolveSafe takes the safe from the first argument or asks the user to pick one
func resolveSafe(cmd *cobra.Command, a *app.App, args []string) (common.Address, error) {
	if len(args) > 0 {
		return parseAddress(args[0])
	}

	safes, err := a.ListSafes.Run(cmd.Context())
	if err != nil {
		return common.Address{}, err
	}
	if len(safes) == 0 {
		return common.Address{}, fmt.Errorf("no safes found; create one with 'safectl create'")
	}
	selected, err := a.Selector.SelectSafe(cmd.Context(), safes, "Select a safe")
	if err != nil {
		return common.Address{}, err
	}
	return selected.Address, nil
}

// readArgs loads operation arguments from a literal, @file or - for stdin
func readArgs(in io.Reader, value string) (json.RawMessage, error) {
	var data []byte
	var err error
	switch {
	case value == "":
		return nil, nil
	case value == "-":
		data, err = io.ReadAll(in)
	case strings.HasPrefix(value, "@"):
		data, err = os.ReadFile(value[1:])
	default:
		data = []byte(value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read arguments: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("arguments are not valid JSON")
	}
	return data, nil
}

// parseOperation decodes method and its JSON arguments
func parseOperation(in io.Reader, method, args string) (safe.Operation, error) {
	m, err := digest.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	raw, err := readArgs(in, args)
	if err != nil {
		return nil, err
	}
	return safe.DecodeOperation(m, raw)
}

// parseProof builds a proof from address=signature pairs and an optional JSON file.
// File entries come first.
func parseProof(pairs []string, file string) (safe.Proof, error) {
	var proof safe.Proof
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return proof, fmt.Errorf("failed to read proof: %w", err)
		}
		if err := json.Unmarshal(data, &proof); err != nil {
			return proof, fmt.Errorf("failed to parse proof %s: %w", file, err)
		}
	}

	for _, pair := range pairs {
		addr, sig, ok := strings.Cut(pair, "=")
		if !ok {
			return proof, fmt.Errorf("invalid signer %q, expected <address>=<signature>", pair)
		}
		signer, err := parseAddress(addr)
		if err != nil {
			return proof, err
		}
		raw, err := hexutil.Decode(sig)
		if err != nil {
			return proof, fmt.Errorf("invalid signature for %s: %w", signer.Hex(), err)
		}
		proof.Signers = append(proof.Signers, signer)
		proof.Signatures = append(proof.Signatures, raw)
	}
	return proof, nil
}

// printJSON writes v when --json is set and reports whether it did
func printJSON(cmd *cobra.Command, a *app.App, v any) (bool, error) {
	if !a.Config.JSON {
		return false, nil
	}
	return true, render.WriteJSON(cmd.OutOrStdout(), v)
}
