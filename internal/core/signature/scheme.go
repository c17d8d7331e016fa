package signature

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
)

// MagicValue is what a contract signer returns for a valid signature (EIP-1271)
var MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

// Scheme checks that sig over digest was produced by signer.
// A nil return means the signature is valid.
type Scheme interface {
	Verify(ctx context.Context, digest common.Hash, signer common.Address, sig []byte) error
}

// ContractSigner is an account that validates signatures through its own callback
type ContractSigner interface {
	IsValidSignature(ctx context.Context, digest common.Hash, sig []byte) ([4]byte, error)
}

// ContractResolver returns the contract signer deployed at an address, if any
type ContractResolver interface {
	ContractAt(addr common.Address) (ContractSigner, bool)
}

// EOAScheme recovers the signer from a 65-byte [R || S || V] secp256k1 signature.
// V may be 0/1 or 27/28. High-S signatures are rejected.
type EOAScheme struct{}

// Verify fails with ErrInvalidSigner unless sig recovers to signer.
func (EOAScheme) Verify(_ context.Context, digest common.Hash, signer common.Address, sig []byte) error {
	recovered, err := Recover(digest, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSigner, err)
	}
	if recovered != signer {
		return fmt.Errorf("%w: recovered %s, expected %s", domain.ErrInvalidSigner, recovered.Hex(), signer.Hex())
	}
	return nil
}

// Recover returns the address that produced sig over digest
func Recover(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature length %d, expected %d", len(sig), crypto.SignatureLength)
	}
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}

	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if !crypto.ValidateSignatureValues(normalized[crypto.RecoveryIDOffset], r, s, true) {
		return common.Address{}, fmt.Errorf("malformed signature values")
	}

	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// ContractScheme delegates validation to the signer's contract callback and
// compares the returned magic value.
type ContractScheme struct {
	Resolver ContractResolver
}

// Verify fails with ErrInvalidContractSigner unless the contract at signer
// returns MagicValue.
func (c ContractScheme) Verify(ctx context.Context, digest common.Hash, signer common.Address, sig []byte) error {
	if c.Resolver == nil {
		return fmt.Errorf("%w: no contract resolver", domain.ErrInvalidContractSigner)
	}
	contract, ok := c.Resolver.ContractAt(signer)
	if !ok {
		return fmt.Errorf("%w: no contract at %s", domain.ErrInvalidContractSigner, signer.Hex())
	}
	magic, err := contract.IsValidSignature(ctx, digest, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidContractSigner, err)
	}
	if magic != MagicValue {
		return fmt.Errorf("%w: returned %x", domain.ErrInvalidContractSigner, magic)
	}
	return nil
}
