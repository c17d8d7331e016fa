package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Mode is the settlement mode of the cash module
type Mode string

const (
	ModeDebit  Mode = "debit"
	ModeCredit Mode = "credit"
)

// CashState is the per-safe state owned by the primary (cash) module
type CashState struct {
	Mode                        Mode      `json:"mode"`
	IncomingCreditModeStartTime time.Time `json:"incomingCreditModeStartTime"`

	SpendingLimit     SpendingLimit      `json:"spendingLimit"`
	PendingWithdrawal *WithdrawalRequest `json:"pendingWithdrawal,omitempty"`

	// Transaction ids already settled through spend, with settlement time
	ClearedTransactions map[string]time.Time `json:"clearedTransactions,omitempty"`
}

// WithdrawalRequest is a staged withdrawal of tokens to a recipient
type WithdrawalRequest struct {
	Tokens       []common.Address `json:"tokens"`
	Amounts      []uint64         `json:"amounts"`
	Recipient    common.Address   `json:"recipient"`
	FinalizeTime time.Time        `json:"finalizeTime"`
}

func (c CashState) clone() CashState {
	out := c
	if c.PendingWithdrawal != nil {
		w := *c.PendingWithdrawal
		w.Tokens = cloneAddrs(c.PendingWithdrawal.Tokens)
		w.Amounts = append([]uint64(nil), c.PendingWithdrawal.Amounts...)
		out.PendingWithdrawal = &w
	}
	if c.ClearedTransactions != nil {
		out.ClearedTransactions = make(map[string]time.Time, len(c.ClearedTransactions))
		for k, v := range c.ClearedTransactions {
			out.ClearedTransactions[k] = v
		}
	}
	return out
}
