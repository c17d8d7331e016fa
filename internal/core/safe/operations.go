package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	"github.com/etherfi-protocol/cash-safe/internal/core/quorum"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// Operation is a signed state transition. ArgsHash feeds the digest; Validate
// performs shape checks that need no state.
type Operation interface {
	Method() digest.Method
	ArgsHash() common.Hash
	Validate() error
}

// ConfigureOwners adds or removes owners and sets the owner threshold in one batch.
type ConfigureOwners struct {
	Owners    []common.Address `json:"owners"`
	ShouldAdd []bool           `json:"shouldAdd"`
	Threshold uint8            `json:"threshold"`
}

func (ConfigureOwners) Method() digest.Method { return digest.ConfigureOwners }

// ArgsHash encodes (address[], bool[], uint8).
func (o ConfigureOwners) ArgsHash() common.Hash {
	return digest.NewEncoder().AddressArray(o.Owners).BoolArray(o.ShouldAdd).Uint64(uint64(o.Threshold)).Hash()
}

// Validate checks the owner list against ShouldAdd.
func (o ConfigureOwners) Validate() error {
	return validateMembership(o.Owners, len(o.ShouldAdd), domain.ErrInvalidInput)
}

// ConfigureAdmins adds or removes admin accounts.
type ConfigureAdmins struct {
	Accounts  []common.Address `json:"accounts"`
	ShouldAdd []bool           `json:"shouldAdd"`
}

func (ConfigureAdmins) Method() digest.Method { return digest.ConfigureAdmins }

func (o ConfigureAdmins) ArgsHash() common.Hash {
	return digest.NewEncoder().AddressArray(o.Accounts).BoolArray(o.ShouldAdd).Hash()
}

func (o ConfigureAdmins) Validate() error {
	return validateMembership(o.Accounts, len(o.ShouldAdd), domain.ErrInvalidInput)
}

// SetThreshold changes the owner quorum.
type SetThreshold struct {
	Threshold uint8 `json:"threshold"`
}

func (SetThreshold) Method() digest.Method { return digest.SetThreshold }

func (o SetThreshold) ArgsHash() common.Hash {
	return digest.NewEncoder().Uint64(uint64(o.Threshold)).Hash()
}

func (o SetThreshold) Validate() error {
	if o.Threshold == 0 {
		return domain.ErrInvalidThreshold
	}
	return nil
}

// ConfigureModules whitelists or removes modules. A non-empty SetupData entry
// is handed to the module's setup hook.
type ConfigureModules struct {
	Modules         []common.Address `json:"modules"`
	ShouldWhitelist []bool           `json:"shouldWhitelist"`
	SetupData       []hexutil.Bytes  `json:"setupData"`
}

func (ConfigureModules) Method() digest.Method { return digest.ConfigureModules }

// ArgsHash encodes (address[], bool[], bytes[]).
func (o ConfigureModules) ArgsHash() common.Hash {
	data := make([][]byte, len(o.SetupData))
	for i, d := range o.SetupData {
		data[i] = d
	}
	return digest.NewEncoder().AddressArray(o.Modules).BoolArray(o.ShouldWhitelist).BytesArray(data).Hash()
}

// Validate requires one setup blob per module.
func (o ConfigureModules) Validate() error {
	if len(o.Modules) != len(o.SetupData) {
		return domain.ErrArrayLengthMismatch
	}
	return validateMembership(o.Modules, len(o.ShouldWhitelist), domain.ErrInvalidModule)
}

// CancelNonce burns the current nonce, invalidating every proof signed over it.
type CancelNonce struct{}

func (CancelNonce) Method() digest.Method { return digest.CancelNonce }
func (CancelNonce) ArgsHash() common.Hash { return digest.NewEncoder().Hash() }
func (CancelNonce) Validate() error { return nil }

// RecoverSafe proposes NewOwner as the sole owner once the recovery delay elapses.
// It is the only operation authorized by recovery signers.
type RecoverSafe struct {
	NewOwner common.Address `json:"newOwner"`
}

func (RecoverSafe) Method() digest.Method { return digest.RecoverSafe }

func (o RecoverSafe) ArgsHash() common.Hash {
	return digest.NewEncoder().Address(o.NewOwner).Hash()
}

// Validate rejects the zero address as new owner.
func (o RecoverSafe) Validate() error {
	if o.NewOwner == (common.Address{}) {
		return domain.ErrInvalidInput
	}
	return nil
}

// CancelRecovery drops a pending recovery.
type CancelRecovery struct{}

func (CancelRecovery) Method() digest.Method { return digest.CancelRecovery }
func (CancelRecovery) ArgsHash() common.Hash { return digest.NewEncoder().Hash() }
func (CancelRecovery) Validate() error { return nil }

// SetUserRecoverySigners adds or removes user-chosen recovery signers.
type SetUserRecoverySigners struct {
	Signers   []common.Address `json:"signers"`
	ShouldAdd []bool           `json:"shouldAdd"`
}

func (SetUserRecoverySigners) Method() digest.Method { return digest.SetUserRecoverySigners }

func (o SetUserRecoverySigners) ArgsHash() common.Hash {
	return digest.NewEncoder().AddressArray(o.Signers).BoolArray(o.ShouldAdd).Hash()
}

func (o SetUserRecoverySigners) Validate() error {
	return validateMembership(o.Signers, len(o.ShouldAdd), domain.ErrInvalidInput)
}

// OverrideRecoverySigners replaces the platform recovery signers.
type OverrideRecoverySigners struct {
	Signers []common.Address `json:"signers"`
}

func (OverrideRecoverySigners) Method() digest.Method { return digest.OverrideRecoverySigners }

func (o OverrideRecoverySigners) ArgsHash() common.Hash {
	return digest.NewEncoder().AddressArray(o.Signers).Hash()
}

// Validate requires a non-empty list of distinct non-zero signers.
func (o OverrideRecoverySigners) Validate() error {
	return validateMembership(o.Signers, len(o.Signers), domain.ErrInvalidInput)
}

// SetRecoveryThreshold changes the recovery quorum.
type SetRecoveryThreshold struct {
	Threshold uint8 `json:"threshold"`
}

func (SetRecoveryThreshold) Method() digest.Method { return digest.SetRecoveryThreshold }

func (o SetRecoveryThreshold) ArgsHash() common.Hash {
	return digest.NewEncoder().Uint64(uint64(o.Threshold)).Hash()
}

func (o SetRecoveryThreshold) Validate() error {
	if o.Threshold == 0 {
		return domain.ErrInvalidThreshold
	}
	return nil
}

// ToggleRecoveryEnabled switches recovery on or off.
type ToggleRecoveryEnabled struct {
	Enabled bool `json:"enabled"`
}

func (ToggleRecoveryEnabled) Method() digest.Method { return digest.ToggleRecoveryEnabled }

func (o ToggleRecoveryEnabled) ArgsHash() common.Hash {
	return digest.NewEncoder().Bool(o.Enabled).Hash()
}

func (ToggleRecoveryEnabled) Validate() error { return nil }

// SetMode switches the card between debit and credit.
type SetMode struct {
	Mode models.Mode `json:"mode"`
}

func (SetMode) Method() digest.Method { return digest.SetMode }

// ArgsHash encodes debit as 0 and credit as 1.
func (o SetMode) ArgsHash() common.Hash {
	var v uint64
	if o.Mode == models.ModeCredit {
		v = 1
	}
	return digest.NewEncoder().Uint64(v).Hash()
}

func (o SetMode) Validate() error {
	if o.Mode != models.ModeDebit && o.Mode != models.ModeCredit {
		return domain.ErrInvalidInput
	}
	return nil
}

// UpdateSpendingLimit sets new daily and monthly limits. Decreases are staged
// behind the limit delay.
type UpdateSpendingLimit struct {
	DailyLimit   uint64 `json:"dailyLimit"`
	MonthlyLimit uint64 `json:"monthlyLimit"`
}

func (UpdateSpendingLimit) Method() digest.Method { return digest.UpdateSpendingLimit }

func (o UpdateSpendingLimit) ArgsHash() common.Hash {
	return digest.NewEncoder().Uint64(o.DailyLimit).Uint64(o.MonthlyLimit).Hash()
}

// Validate requires the daily limit not to exceed the monthly one.
func (o UpdateSpendingLimit) Validate() error {
	if o.DailyLimit > o.MonthlyLimit {
		return domain.ErrDailyLimitCannotBeGreaterThanMonthlyLimit
	}
	return nil
}

// RequestWithdrawal queues a delayed withdrawal of Amounts of Tokens to Recipient,
// replacing any pending request.
type RequestWithdrawal struct {
	Tokens    []common.Address `json:"tokens"`
	Amounts   []uint64         `json:"amounts"`
	Recipient common.Address   `json:"recipient"`
}

func (RequestWithdrawal) Method() digest.Method { return digest.RequestWithdrawal }

// ArgsHash encodes (address[], uint256[], address).
func (o RequestWithdrawal) ArgsHash() common.Hash {
	return digest.NewEncoder().AddressArray(o.Tokens).Uint64Array(o.Amounts).Address(o.Recipient).Hash()
}

// Validate requires a non-zero amount per token and a recipient.
func (o RequestWithdrawal) Validate() error {
	if err := validateMembership(o.Tokens, len(o.Amounts), domain.ErrInvalidInput); err != nil {
		return err
	}
	for i, amount := range o.Amounts {
		if amount == 0 {
			return domain.AtIndex(domain.ErrInvalidInput, i)
		}
	}
	if o.Recipient == (common.Address{}) {
		return domain.ErrInvalidInput
	}
	return nil
}

// CancelWithdrawal drops the pending withdrawal request.
type CancelWithdrawal struct{}

func (CancelWithdrawal) Method() digest.Method { return digest.CancelWithdrawal }
func (CancelWithdrawal) ArgsHash() common.Hash { return digest.NewEncoder().Hash() }
func (CancelWithdrawal) Validate() error { return nil }

// authorityFor returns which signer set authorizes op
func authorityFor(op Operation) quorum.Kind {
	switch op.(type) {
	case RecoverSafe:
		return quorum.Recovery
	case SetMode, UpdateSpendingLimit, RequestWithdrawal, CancelWithdrawal:
		return quorum.Admins
	default:
		return quorum.Owners
	}
}

// validateMembership checks a batched address list: non-empty, parallel
// flags of the same length, no zero address, no repeats.
func validateMembership(addrs []common.Address, flags int, zeroErr error) error {
	if len(addrs) == 0 {
		return domain.ErrInvalidInput
	}
	if len(addrs) != flags {
		return domain.ErrArrayLengthMismatch
	}
	if i, dup := quorum.FirstDuplicate(addrs); dup {
		return domain.AtIndex(domain.ErrDuplicateElementFound, i)
	}
	for i, a := range addrs {
		if a == (common.Address{}) {
			return domain.AtIndex(zeroErr, i)
		}
	}
	return nil
}
