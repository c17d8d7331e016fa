package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// ExecuteOperationParams contains parameters for executing a signed operation
type ExecuteOperationParams struct {
	Safe      common.Address
	Operation safe.Operation
	Proof     safe.Proof
}

// ExecuteOperationResult contains the committed state and emitted events
type ExecuteOperationResult struct {
	Safe   *models.SafeAccount `json:"safe"`
	Events []domain.Event      `json:"events"`
	// Digest and Nonce the proof was checked against
	Digest common.Hash `json:"digest"`
	Nonce  uint64      `json:"nonce"`
}

// ExecuteOperation is the use case for applying a signed operation to a safe
type ExecuteOperation struct {
	exec *Executor
	core *safe.Core
}

// NewExecuteOperation creates a new ExecuteOperation use case
func NewExecuteOperation(exec *Executor, core *safe.Core) *ExecuteOperation {
	return &ExecuteOperation{
		exec: exec,
		core: core,
	}
}

// Run verifies the proof and commits the operation atomically
func (uc *ExecuteOperation) Run(ctx context.Context, params ExecuteOperationParams) (*ExecuteOperationResult, error) {
	result := &ExecuteOperationResult{}

	next, events, err := uc.exec.commit(ctx, params.Safe, string(params.Operation.Method()),
		func(acct *models.SafeAccount, now time.Time) (*models.SafeAccount, []domain.Event, error) {
			result.Digest = uc.core.Digest(acct, params.Operation)
			result.Nonce = acct.Nonce
			return uc.core.Apply(ctx, acct, params.Operation, params.Proof, now)
		})
	if err != nil {
		return nil, err
	}

	result.Safe = next
	result.Events = events
	return result, nil
}
