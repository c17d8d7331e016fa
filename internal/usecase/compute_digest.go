package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
)

// ComputeDigestParams contains parameters for computing an operation digest
type ComputeDigestParams struct {
	Safe      common.Address
	Operation safe.Operation
}

// DigestResult is the message signers must sign for an operation
type DigestResult struct {
	Safe            common.Address `json:"safe"`
	ChainID         uint64         `json:"chainId"`
	Method          digest.Method  `json:"method"`
	Nonce           uint64         `json:"nonce"`
	ArgsHash        common.Hash    `json:"argsHash"`
	DomainSeparator common.Hash    `json:"domainSeparator"`
	Digest          common.Hash    `json:"digest"`
}

// ComputeDigest is the use case for computing the digest of an operation
// against the current nonce of a safe
type ComputeDigest struct {
	store SafeStore
	core  *safe.Core
}

// NewComputeDigest creates a new ComputeDigest use case
func NewComputeDigest(store SafeStore, core *safe.Core) *ComputeDigest {
	return &ComputeDigest{
		store: store,
		core:  core,
	}
}

// Run computes the digest
func (uc *ComputeDigest) Run(ctx context.Context, params ComputeDigestParams) (*DigestResult, error) {
	acct, err := uc.store.GetSafe(ctx, params.Safe)
	if err != nil {
		return nil, err
	}
	op := params.Operation
	return &DigestResult{
		Safe:            acct.Address,
		ChainID:         acct.ChainID,
		Method:          op.Method(),
		Nonce:           acct.Nonce,
		ArgsHash:        op.ArgsHash(),
		DomainSeparator: digest.DomainSeparator(acct.ChainID, acct.Address),
		Digest:          uc.core.Digest(acct, op),
	}, nil
}

// SignOperationParams contains parameters for signing an operation
type SignOperationParams struct {
	Safe      common.Address
	Operation safe.Operation
	Signer    DigestSigner
}

// SignOperationResult is a single signer's contribution to a proof
type SignOperationResult struct {
	DigestResult
	Signer    common.Address `json:"signer"`
	Signature hexutil.Bytes  `json:"signature"`
}

// SignOperation is the use case for signing an operation digest with a local key
type SignOperation struct {
	digest *ComputeDigest
}

// NewSignOperation creates a new SignOperation use case
func NewSignOperation(digest *ComputeDigest) *SignOperation {
	return &SignOperation{digest: digest}
}

// Run computes the digest and signs it
func (uc *SignOperation) Run(ctx context.Context, params SignOperationParams) (*SignOperationResult, error) {
	if params.Signer == nil {
		return nil, fmt.Errorf("no signer configured")
	}
	d, err := uc.digest.Run(ctx, ComputeDigestParams{Safe: params.Safe, Operation: params.Operation})
	if err != nil {
		return nil, err
	}
	sig, err := params.Signer.SignDigest(d.Digest)
	if err != nil {
		return nil, err
	}
	return &SignOperationResult{
		DigestResult: *d,
		Signer:       params.Signer.Address(),
		Signature:    sig,
	}, nil
}
