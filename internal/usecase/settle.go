package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// SpendParams contains parameters for settling a card transaction
type SpendParams struct {
	Safe   common.Address
	TxID   string
	Amount uint64
}

// SettleResult contains the committed state of an unsigned cash operation
type SettleResult struct {
	Safe       *models.SafeAccount       `json:"safe"`
	Events     []domain.Event            `json:"events"`
	Withdrawal *models.WithdrawalRequest `json:"withdrawal,omitempty"`
}

// SettleSpend is the use case for the platform's spend call
type SettleSpend struct {
	exec *Executor
	core *safe.Core
}

// NewSettleSpend creates a new SettleSpend use case
func NewSettleSpend(exec *Executor, core *safe.Core) *SettleSpend {
	return &SettleSpend{
		exec: exec,
		core: core,
	}
}

// Run charges the transaction against the safe's spending ledger
func (uc *SettleSpend) Run(ctx context.Context, params SpendParams) (*SettleResult, error) {
	next, events, err := uc.exec.commit(ctx, params.Safe, "Spend",
		func(acct *models.SafeAccount, now time.Time) (*models.SafeAccount, []domain.Event, error) {
			return uc.core.Spend(ctx, acct, params.TxID, params.Amount, now)
		})
	if err != nil {
		return nil, err
	}
	return &SettleResult{Safe: next, Events: events}, nil
}

// ProcessWithdrawal is the use case for releasing a matured withdrawal
type ProcessWithdrawal struct {
	exec *Executor
	core *safe.Core
}

// NewProcessWithdrawal creates a new ProcessWithdrawal use case
func NewProcessWithdrawal(exec *Executor, core *safe.Core) *ProcessWithdrawal {
	return &ProcessWithdrawal{
		exec: exec,
		core: core,
	}
}

// Run processes the pending withdrawal of addr
func (uc *ProcessWithdrawal) Run(ctx context.Context, addr common.Address) (*SettleResult, error) {
	var withdrawal *models.WithdrawalRequest
	next, events, err := uc.exec.commit(ctx, addr, "ProcessWithdrawal",
		func(acct *models.SafeAccount, now time.Time) (*models.SafeAccount, []domain.Event, error) {
			next, w, events, err := uc.core.ProcessWithdrawal(ctx, acct, now)
			withdrawal = w
			return next, events, err
		})
	if err != nil {
		return nil, err
	}
	return &SettleResult{Safe: next, Events: events, Withdrawal: withdrawal}, nil
}
