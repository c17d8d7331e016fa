package safe

import (
	"context"
	"strconv"
	"time"

	"github.com/etherfi-protocol/cash-safe/internal/core/cash"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

func (c *Core) setMode(acct *models.SafeAccount, o SetMode, now time.Time) ([]domain.Event, error) {
	if err := cash.SetMode(&acct.Cash, o.Mode, c.settings.CashDelays.Mode, now); err != nil {
		return nil, err
	}
	kv := []string{"mode", string(o.Mode)}
	if t := acct.Cash.IncomingCreditModeStartTime; !t.IsZero() {
		kv = append(kv, "activationTime", t.UTC().Format(time.RFC3339))
	}
	return []domain.Event{domain.NewEvent(domain.EventModeSet, acct.Address, kv...)}, nil
}

func (c *Core) updateSpendingLimit(acct *models.SafeAccount, o UpdateSpendingLimit, now time.Time) ([]domain.Event, error) {
	old := acct.Cash.SpendingLimit
	if err := cash.UpdateSpendingLimit(&acct.Cash, o.DailyLimit, o.MonthlyLimit, c.settings.CashDelays.Limit, now); err != nil {
		return nil, err
	}
	return []domain.Event{domain.NewEvent(domain.EventSpendingLimitChanged, acct.Address,
		"oldDailyLimit", strconv.FormatUint(old.DailyLimit, 10),
		"oldMonthlyLimit", strconv.FormatUint(old.MonthlyLimit, 10),
		"newDailyLimit", strconv.FormatUint(o.DailyLimit, 10),
		"newMonthlyLimit", strconv.FormatUint(o.MonthlyLimit, 10),
	)}, nil
}

func (c *Core) requestWithdrawal(acct *models.SafeAccount, o RequestWithdrawal, now time.Time) []domain.Event {
	cash.RequestWithdrawal(&acct.Cash, o.Tokens, o.Amounts, o.Recipient, c.settings.CashDelays.Withdrawal, now)
	return []domain.Event{domain.NewEvent(domain.EventWithdrawalRequested, acct.Address,
		"tokens", domain.JoinAddresses(o.Tokens),
		"recipient", o.Recipient.Hex(),
		"finalizeTime", acct.Cash.PendingWithdrawal.FinalizeTime.UTC().Format(time.RFC3339),
	)}
}

func cancelWithdrawal(acct *models.SafeAccount) ([]domain.Event, error) {
	w, err := cash.CancelWithdrawal(&acct.Cash)
	if err != nil {
		return nil, err
	}
	return []domain.Event{domain.NewEvent(domain.EventWithdrawalCancelled, acct.Address,
		"tokens", domain.JoinAddresses(w.Tokens),
		"recipient", w.Recipient.Hex(),
	)}, nil
}

// Spend settles a card transaction. It is called by the platform and carries
// no signatures; a transaction id is charged at most once.
func (c *Core) Spend(_ context.Context, acct *models.SafeAccount, txID string, amount uint64, now time.Time) (*models.SafeAccount, []domain.Event, error) {
	next, events := Materialize(acct, now)
	if err := cash.Spend(&next.Cash, txID, amount, now); err != nil {
		return nil, nil, err
	}
	next.UpdatedAt = now
	return next, append(events, domain.NewEvent(domain.EventSpend, next.Address,
		"txId", txID,
		"amount", strconv.FormatUint(amount, 10),
	)), nil
}

// ProcessWithdrawal releases a pending withdrawal whose delay has elapsed.
func (c *Core) ProcessWithdrawal(_ context.Context, acct *models.SafeAccount, now time.Time) (*models.SafeAccount, *models.WithdrawalRequest, []domain.Event, error) {
	next, events := Materialize(acct, now)
	w, err := cash.ProcessWithdrawal(&next.Cash, now)
	if err != nil {
		return nil, nil, nil, err
	}
	next.UpdatedAt = now
	return next, w, append(events, domain.NewEvent(domain.EventWithdrawalProcessed, next.Address,
		"tokens", domain.JoinAddresses(w.Tokens),
		"recipient", w.Recipient.Hex(),
	)), nil
}
