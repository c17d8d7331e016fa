package signature

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Verifier dispatches to the contract scheme when the claimed signer is a
// known contract and to ECDSA recovery otherwise.
type Verifier struct {
	resolver ContractResolver
	eoa      Scheme
	contract Scheme
}

// NewVerifier creates a verifier. resolver may be nil when no contract signers exist.
func NewVerifier(resolver ContractResolver) *Verifier {
	return &Verifier{
		resolver: resolver,
		eoa:      EOAScheme{},
		contract: ContractScheme{Resolver: resolver},
	}
}

// Verify returns nil when sig is a valid signature of digest by signer.
// Failures unwrap to domain.ErrInvalidSigner or domain.ErrInvalidContractSigner.
func (v *Verifier) Verify(ctx context.Context, digest common.Hash, signer common.Address, sig []byte) error {
	if v.resolver != nil {
		if _, ok := v.resolver.ContractAt(signer); ok {
			return v.contract.Verify(ctx, digest, signer, sig)
		}
	}
	return v.eoa.Verify(ctx, digest, signer, sig)
}

// IsValid is the boolean form of Verify
func (v *Verifier) IsValid(ctx context.Context, digest common.Hash, signer common.Address, sig []byte) bool {
	return v.Verify(ctx, digest, signer, sig) == nil
}
