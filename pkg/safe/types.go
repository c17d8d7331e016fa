package safe

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SafeAccount is the persisted state of one safe as served by the daemon
type SafeAccount struct {
	Address   common.Address   `json:"address"`
	ChainID   uint64           `json:"chainId"`
	Owners    []common.Address `json:"owners"`
	Threshold uint8            `json:"threshold"`
	Admins    []common.Address `json:"admins"`
	Nonce     uint64           `json:"nonce"`
	Modules   []common.Address `json:"modules"`
	Recovery  RecoveryConfig   `json:"recovery"`
	Cash      CashState        `json:"cash"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// RecoveryConfig is the recovery signer set and any pending owner swap
type RecoveryConfig struct {
	Enabled               bool             `json:"enabled"`
	Threshold             uint8            `json:"threshold"`
	PlatformSigners       []common.Address `json:"platformSigners"`
	OverrideSigners       []common.Address `json:"overrideSigners,omitempty"`
	UserSigners           []common.Address `json:"userSigners,omitempty"`
	PendingOwner          common.Address   `json:"pendingOwner"`
	PendingActivationTime time.Time        `json:"pendingActivationTime"`
	UsedDigests           []common.Hash    `json:"usedDigests,omitempty"`
}

// CashState is the card module state. Mode is "debit" or "credit".
type CashState struct {
	Mode                        string               `json:"mode"`
	IncomingCreditModeStartTime time.Time            `json:"incomingCreditModeStartTime"`
	SpendingLimit               SpendingLimit        `json:"spendingLimit"`
	PendingWithdrawal           *WithdrawalRequest   `json:"pendingWithdrawal,omitempty"`
	ClearedTransactions         map[string]time.Time `json:"clearedTransactions,omitempty"`
}

// SpendingLimit amounts are in USD with 6 decimals. TimezoneOffset is in
// nanoseconds.
type SpendingLimit struct {
	DailyLimit                       uint64        `json:"dailyLimit"`
	MonthlyLimit                     uint64        `json:"monthlyLimit"`
	SpentToday                       uint64        `json:"spentToday"`
	SpentThisMonth                   uint64        `json:"spentThisMonth"`
	NewDailyLimit                    uint64        `json:"newDailyLimit"`
	NewMonthlyLimit                  uint64        `json:"newMonthlyLimit"`
	DailyLimitChangeActivationTime   time.Time     `json:"dailyLimitChangeActivationTime"`
	MonthlyLimitChangeActivationTime time.Time     `json:"monthlyLimitChangeActivationTime"`
	DailyRenewalTimestamp            time.Time     `json:"dailyRenewalTimestamp"`
	MonthlyRenewalTimestamp          time.Time     `json:"monthlyRenewalTimestamp"`
	TimezoneOffset                   time.Duration `json:"timezoneOffset"`
}

// WithdrawalRequest is a delayed withdrawal waiting for FinalizeTime
type WithdrawalRequest struct {
	Tokens       []common.Address `json:"tokens"`
	Amounts      []uint64         `json:"amounts"`
	Recipient    common.Address   `json:"recipient"`
	FinalizeTime time.Time        `json:"finalizeTime"`
}

// Event is a state change emitted by an operation
type Event struct {
	Type   string            `json:"type"`
	Safe   common.Address    `json:"safe"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Proof pairs each signer with its signature over the operation digest
type Proof struct {
	Signers    []common.Address `json:"signers"`
	Signatures []hexutil.Bytes  `json:"signatures"`
}

// SafeView answers GET /safes/:address
type SafeView struct {
	Safe            *SafeAccount     `json:"safe"`
	EnabledModules  []common.Address `json:"enabledModules"`
	RecoverySigners []common.Address `json:"recoverySigners"`
	MaxCanSpend     uint64           `json:"maxCanSpend"`
	AsOf            time.Time        `json:"asOf"`
}

// Digest answers POST /safes/:address/digest. Signers sign Digest.
type Digest struct {
	Safe            common.Address `json:"safe"`
	ChainID         uint64         `json:"chainId"`
	Method          string         `json:"method"`
	Nonce           uint64         `json:"nonce"`
	ArgsHash        common.Hash    `json:"argsHash"`
	DomainSeparator common.Hash    `json:"domainSeparator"`
	Digest          common.Hash    `json:"digest"`
}

// SpendingReport answers GET /safes/:address/spending
type SpendingReport struct {
	Safe          common.Address `json:"safe"`
	Amount        uint64         `json:"amount"`
	CanSpend      bool           `json:"canSpend"`
	Reason        string         `json:"reason,omitempty"`
	MaxCanSpend   uint64         `json:"maxCanSpend"`
	SpendingLimit SpendingLimit  `json:"spendingLimit"`
	AsOf          time.Time      `json:"asOf"`
}

// OperationResult answers POST /safes/:address/operations. Digest and Nonce
// are what the proof was checked against.
type OperationResult struct {
	Safe   *SafeAccount `json:"safe"`
	Events []Event      `json:"events"`
	Digest common.Hash  `json:"digest"`
	Nonce  uint64       `json:"nonce"`
}

// CreateResult answers POST /safes
type CreateResult struct {
	Safe   *SafeAccount `json:"safe"`
	Events []Event      `json:"events"`
}

// SettleResult answers the spend and withdrawal processing endpoints
type SettleResult struct {
	Safe       *SafeAccount       `json:"safe"`
	Events     []Event            `json:"events"`
	Withdrawal *WithdrawalRequest `json:"withdrawal,omitempty"`
}

// CreateSafeRequest is the body of POST /safes
type CreateSafeRequest struct {
	Address   *common.Address  `json:"address,omitempty"`
	Salt      common.Hash      `json:"salt"`
	Owners    []common.Address `json:"owners"`
	Threshold uint8            `json:"threshold"`
	Admins    []common.Address `json:"admins,omitempty"`
	Modules   []common.Address `json:"modules,omitempty"`

	DailyLimit            *uint64 `json:"dailyLimit,omitempty"`
	MonthlyLimit          *uint64 `json:"monthlyLimit,omitempty"`
	TimezoneOffsetSeconds *int64  `json:"timezoneOffsetSeconds,omitempty"`
}

// DigestRequest is the body of POST /safes/:address/digest
type DigestRequest struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// OperationRequest is the body of POST /safes/:address/operations
type OperationRequest struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
	Proof  Proof           `json:"proof"`
}

// SpendRequest is the body of POST /safes/:address/spend
type SpendRequest struct {
	TxID   string `json:"txId"`
	Amount uint64 `json:"amount"`
}

// ModuleStatus answers GET /safes/:address/modules/:module
type ModuleStatus struct {
	Safe    common.Address `json:"safe"`
	Module  common.Address `json:"module"`
	Enabled bool           `json:"enabled"`
}

// SignatureFailure explains why one signature did not count toward quorum
type SignatureFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ErrorResponse is the body of every non-2xx response. Code is the
// message of the domain sentinel the error wraps.
type ErrorResponse struct {
	Error     string             `json:"error"`
	Code      string             `json:"code,omitempty"`
	Index     *int               `json:"index,omitempty"`
	Valid     int                `json:"valid,omitempty"`
	Threshold int                `json:"threshold,omitempty"`
	Failures  []SignatureFailure `json:"failures,omitempty"`
}
