// Package cash holds the state transitions of the primary module: settlement
// mode, the spending ledger, staged withdrawals and spend settlement.
package cash

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	"github.com/etherfi-protocol/cash-safe/internal/core/spending"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// setupDataLen is three words: daily limit, monthly limit, timezone offset seconds
const setupDataLen = 3 * 32

// Delays are the time locks applied by the cash module
type Delays struct {
	Mode       time.Duration
	Withdrawal time.Duration
	Limit      time.Duration
}

// EncodeSetupData encodes the module setup payload passed on safe creation.
func EncodeSetupData(daily, monthly uint64, tz time.Duration) []byte {
	return digest.NewEncoder().Uint64(daily).Uint64(monthly).Int64(int64(tz / time.Second)).Bytes()
}

// DecodeSetupData is the inverse of EncodeSetupData.
func DecodeSetupData(data []byte) (daily, monthly uint64, tz time.Duration, err error) {
	if len(data) != setupDataLen {
		return 0, 0, 0, fmt.Errorf("%w: setup data must be %d bytes, got %d", domain.ErrInvalidInput, setupDataLen, len(data))
	}
	if daily, err = wordToUint64(data[0:32]); err != nil {
		return 0, 0, 0, err
	}
	if monthly, err = wordToUint64(data[32:64]); err != nil {
		return 0, 0, 0, err
	}
	secs, err := wordToInt64(data[64:96])
	if err != nil {
		return 0, 0, 0, err
	}
	return daily, monthly, time.Duration(secs) * time.Second, nil
}

// Setup initializes the cash state from module setup data.
func Setup(st *models.CashState, data []byte, now time.Time) error {
	daily, monthly, tz, err := DecodeSetupData(data)
	if err != nil {
		return err
	}
	limit, err := spending.Initialize(daily, monthly, tz, now)
	if err != nil {
		return err
	}
	*st = models.CashState{
		Mode:          models.ModeDebit,
		SpendingLimit: limit,
	}
	return nil
}

// Materialize applies time-triggered transitions: a staged switch to credit
// mode and the spending ledger windows.
func Materialize(st *models.CashState, now time.Time) bool {
	changed := false
	if !st.IncomingCreditModeStartTime.IsZero() && !now.Before(st.IncomingCreditModeStartTime) {
		st.Mode = models.ModeCredit
		st.IncomingCreditModeStartTime = time.Time{}
		changed = true
	}
	limit := spending.Current(st.SpendingLimit, now)
	if limit != st.SpendingLimit {
		st.SpendingLimit = limit
		changed = true
	}
	return changed
}

// SetMode switches settlement mode. Credit mode is staged by delay; debit
// mode is immediate and cancels a staged credit switch.
func SetMode(st *models.CashState, mode models.Mode, delay time.Duration, now time.Time) error {
	switch mode {
	case models.ModeCredit:
		if st.Mode == models.ModeCredit || !st.IncomingCreditModeStartTime.IsZero() {
			return domain.ErrModeAlreadySet
		}
		if delay == 0 {
			st.Mode = models.ModeCredit
			return nil
		}
		st.IncomingCreditModeStartTime = now.Add(delay)
	case models.ModeDebit:
		if st.Mode == models.ModeDebit && st.IncomingCreditModeStartTime.IsZero() {
			return domain.ErrModeAlreadySet
		}
		st.Mode = models.ModeDebit
		st.IncomingCreditModeStartTime = time.Time{}
	default:
		return fmt.Errorf("%w: mode %q", domain.ErrInvalidInput, mode)
	}
	return nil
}

// UpdateSpendingLimit changes the ledger limits.
func UpdateSpendingLimit(st *models.CashState, daily, monthly uint64, delay time.Duration, now time.Time) error {
	limit, err := spending.Update(st.SpendingLimit, daily, monthly, delay, now)
	if err != nil {
		return err
	}
	st.SpendingLimit = limit
	return nil
}

// RequestWithdrawal stages a withdrawal, replacing any pending one.
func RequestWithdrawal(st *models.CashState, tokens []common.Address, amounts []uint64, recipient common.Address, delay time.Duration, now time.Time) {
	st.PendingWithdrawal = &models.WithdrawalRequest{
		Tokens:       append([]common.Address(nil), tokens...),
		Amounts:      append([]uint64(nil), amounts...),
		Recipient:    recipient,
		FinalizeTime: now.Add(delay),
	}
}

// CancelWithdrawal drops the pending withdrawal.
func CancelWithdrawal(st *models.CashState) (*models.WithdrawalRequest, error) {
	if st.PendingWithdrawal == nil {
		return nil, domain.ErrNoPendingWithdrawal
	}
	w := st.PendingWithdrawal
	st.PendingWithdrawal = nil
	return w, nil
}

// ProcessWithdrawal releases the pending withdrawal once its delay elapsed.
func ProcessWithdrawal(st *models.CashState, now time.Time) (*models.WithdrawalRequest, error) {
	w := st.PendingWithdrawal
	if w == nil {
		return nil, domain.ErrNoPendingWithdrawal
	}
	if now.Before(w.FinalizeTime) {
		return nil, fmt.Errorf("%w: finalizes at %s", domain.ErrCannotProcessWithdrawalYet, w.FinalizeTime.Format(time.RFC3339))
	}
	st.PendingWithdrawal = nil
	return w, nil
}

// Spend settles a card transaction against the ledger. A transaction id is
// charged at most once.
func Spend(st *models.CashState, txID string, amount uint64, now time.Time) error {
	if txID == "" {
		return fmt.Errorf("%w: empty transaction id", domain.ErrInvalidInput)
	}
	if _, ok := st.ClearedTransactions[txID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrTransactionAlreadyCleared, txID)
	}
	limit, err := spending.Spend(st.SpendingLimit, amount, now)
	if err != nil {
		return err
	}
	st.SpendingLimit = limit
	if st.ClearedTransactions == nil {
		st.ClearedTransactions = make(map[string]time.Time)
	}
	st.ClearedTransactions[txID] = now
	return nil
}

func wordToUint64(w []byte) (uint64, error) {
	v := new(big.Int).SetBytes(w)
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: value %s overflows uint64", domain.ErrInvalidInput, v)
	}
	return v.Uint64(), nil
}

func wordToInt64(w []byte) (int64, error) {
	v := new(big.Int).SetBytes(w)
	if v.Bit(255) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("%w: value %s overflows int64", domain.ErrInvalidInput, v)
	}
	return v.Int64(), nil
}
