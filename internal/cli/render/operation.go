package render

import (
	"fmt"
	"io"

	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/fatih/color"
)

// OperationRenderer renders digests, signatures and committed operations
type OperationRenderer struct {
	out io.Writer
}

// NewOperationRenderer creates a new operation renderer
func NewOperationRenderer(out io.Writer) *OperationRenderer {
	return &OperationRenderer{out: out}
}

// RenderDigest renders the payload signers must sign
func (r *OperationRenderer) RenderDigest(d *usecase.DigestResult) error {
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.Bold).Sprint("Method:"), d.Method)
	fmt.Fprintf(r.out, "Safe:             %s\n", d.Safe.Hex())
	fmt.Fprintf(r.out, "Chain ID:         %d\n", d.ChainID)
	fmt.Fprintf(r.out, "Nonce:            %d\n", d.Nonce)
	fmt.Fprintf(r.out, "Args hash:        %s\n", d.ArgsHash.Hex())
	fmt.Fprintf(r.out, "Domain separator: %s\n", d.DomainSeparator.Hex())
	fmt.Fprintf(r.out, "Digest:           %s\n", color.New(color.FgCyan).Sprint(d.Digest.Hex()))
	return nil
}

// RenderSignature renders one signer's contribution as a --signer flag value
func (r *OperationRenderer) RenderSignature(s *usecase.SignOperationResult) error {
	fmt.Fprintf(r.out, "Digest:    %s\n", s.Digest.Hex())
	fmt.Fprintf(r.out, "Signer:    %s\n", s.Signer.Hex())
	fmt.Fprintf(r.out, "Signature: %s\n", s.Signature)
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "--signer %s=%s\n", s.Signer.Hex(), s.Signature)
	return nil
}

// RenderEvents renders the events of a committed operation
func (r *OperationRenderer) RenderEvents(summary string, events []domain.Event) error {
	fmt.Fprintln(r.out, FormatSuccess(summary))
	for _, ev := range events {
		fmt.Fprintf(r.out, "  • %s\n", ev.String())
	}
	return nil
}
