// Package spending implements the daily and monthly spending ledger of the
// cash module. All functions take and return values; callers decide when a
// materialized ledger is persisted.
package spending

import (
	"fmt"
	"time"

	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// MaxTimezoneOffset bounds the absolute timezone offset of a ledger
const MaxTimezoneOffset = 24 * time.Hour

// Initialize creates a ledger whose windows start at the local midnight and
// month start following now.
func Initialize(daily, monthly uint64, tz time.Duration, now time.Time) (models.SpendingLimit, error) {
	if daily > monthly {
		return models.SpendingLimit{}, domain.ErrDailyLimitCannotBeGreaterThanMonthlyLimit
	}
	if tz > MaxTimezoneOffset || tz < -MaxTimezoneOffset {
		return models.SpendingLimit{}, fmt.Errorf("%w: %s", domain.ErrInvalidTimezoneOffset, tz)
	}
	return models.SpendingLimit{
		DailyLimit:              daily,
		MonthlyLimit:            monthly,
		TimezoneOffset:          tz,
		DailyRenewalTimestamp:   StartOfNextDay(now, tz),
		MonthlyRenewalTimestamp: StartOfNextMonth(now, tz),
	}, nil
}

// Current materializes staged limit changes whose activation time has passed
// and rolls over any elapsed windows. It is idempotent for a fixed now.
func Current(l models.SpendingLimit, now time.Time) models.SpendingLimit {
	if l.HasIncomingDailyLimit() && !now.Before(l.DailyLimitChangeActivationTime) {
		l.DailyLimit = l.NewDailyLimit
		l.NewDailyLimit = 0
		l.DailyLimitChangeActivationTime = time.Time{}
	}
	if l.HasIncomingMonthlyLimit() && !now.Before(l.MonthlyLimitChangeActivationTime) {
		l.MonthlyLimit = l.NewMonthlyLimit
		l.NewMonthlyLimit = 0
		l.MonthlyLimitChangeActivationTime = time.Time{}
	}

	if !l.IsInitialized() {
		return l
	}

	// a skipped window still resets spent once; the timestamp advances past now
	if !now.Before(l.DailyRenewalTimestamp) {
		l.SpentToday = 0
		for !now.Before(l.DailyRenewalTimestamp) {
			l.DailyRenewalTimestamp = StartOfNextDay(l.DailyRenewalTimestamp, l.TimezoneOffset)
		}
	}
	if !now.Before(l.MonthlyRenewalTimestamp) {
		l.SpentThisMonth = 0
		for !now.Before(l.MonthlyRenewalTimestamp) {
			l.MonthlyRenewalTimestamp = StartOfNextMonth(l.MonthlyRenewalTimestamp, l.TimezoneOffset)
		}
	}
	return l
}

// Spend charges amount against both windows of the materialized ledger.
func Spend(l models.SpendingLimit, amount uint64, now time.Time) (models.SpendingLimit, error) {
	if amount == 0 {
		return l, domain.ErrInvalidInput
	}
	cur := Current(l, now)
	if cur.SpentToday+amount > cur.DailyLimit || cur.SpentToday+amount < amount {
		return l, fmt.Errorf("%w: spent %d of %d, requested %d",
			domain.ErrExceededDailySpendingLimit, cur.SpentToday, cur.DailyLimit, amount)
	}
	if cur.SpentThisMonth+amount > cur.MonthlyLimit || cur.SpentThisMonth+amount < amount {
		return l, fmt.Errorf("%w: spent %d of %d, requested %d",
			domain.ErrExceededMonthlySpendingLimit, cur.SpentThisMonth, cur.MonthlyLimit, amount)
	}
	cur.SpentToday += amount
	cur.SpentThisMonth += amount
	return cur, nil
}

// Update changes the limits. Increases take effect immediately; decreases are
// staged and activate after delay. A new call replaces any staged change for
// the same window.
func Update(l models.SpendingLimit, daily, monthly uint64, delay time.Duration, now time.Time) (models.SpendingLimit, error) {
	if daily > monthly {
		return l, domain.ErrDailyLimitCannotBeGreaterThanMonthlyLimit
	}
	cur := Current(l, now)

	if daily < cur.DailyLimit {
		cur.NewDailyLimit = daily
		cur.DailyLimitChangeActivationTime = now.Add(delay)
	} else {
		cur.DailyLimit = daily
		cur.NewDailyLimit = 0
		cur.DailyLimitChangeActivationTime = time.Time{}
	}

	if monthly < cur.MonthlyLimit {
		cur.NewMonthlyLimit = monthly
		cur.MonthlyLimitChangeActivationTime = now.Add(delay)
	} else {
		cur.MonthlyLimit = monthly
		cur.NewMonthlyLimit = 0
		cur.MonthlyLimitChangeActivationTime = time.Time{}
	}

	// a zero delay activates staged decreases in the same call
	return Current(cur, now), nil
}

// effectiveLimits returns the limits used for reporting: a staged decrease
// already counts even before it activates.
func effectiveLimits(l models.SpendingLimit) (daily, monthly uint64) {
	daily, monthly = l.DailyLimit, l.MonthlyLimit
	if l.HasIncomingDailyLimit() && l.NewDailyLimit < daily {
		daily = l.NewDailyLimit
	}
	if l.HasIncomingMonthlyLimit() && l.NewMonthlyLimit < monthly {
		monthly = l.NewMonthlyLimit
	}
	return daily, monthly
}

// MaxCanSpend returns the largest amount a spend at now could be guaranteed
// to clear, counting staged decreases.
func MaxCanSpend(l models.SpendingLimit, now time.Time) uint64 {
	cur := Current(l, now)
	daily, monthly := effectiveLimits(cur)

	var dailyLeft, monthlyLeft uint64
	if daily > cur.SpentToday {
		dailyLeft = daily - cur.SpentToday
	}
	if monthly > cur.SpentThisMonth {
		monthlyLeft = monthly - cur.SpentThisMonth
	}
	return min(dailyLeft, monthlyLeft)
}

// CanSpend reports whether amount fits in both windows, with a reason when it
// does not. Staged decreases are checked before the active limits, and an
// exhausted window is reported apart from one that is merely too small.
func CanSpend(l models.SpendingLimit, amount uint64, now time.Time) (bool, string) {
	if amount == 0 {
		return false, "amount must be positive"
	}
	cur := Current(l, now)

	if cur.HasIncomingDailyLimit() {
		if reason := shortfall("Incoming daily", cur.NewDailyLimit, cur.SpentToday, amount); reason != "" {
			return false, reason
		}
	}
	if cur.HasIncomingMonthlyLimit() {
		if reason := shortfall("Incoming monthly", cur.NewMonthlyLimit, cur.SpentThisMonth, amount); reason != "" {
			return false, reason
		}
	}
	if reason := shortfall("Daily", cur.DailyLimit, cur.SpentToday, amount); reason != "" {
		return false, reason
	}
	if reason := shortfall("Monthly", cur.MonthlyLimit, cur.SpentThisMonth, amount); reason != "" {
		return false, reason
	}
	return true, ""
}

func shortfall(window string, limit, spent, amount uint64) string {
	if spent >= limit {
		return window + " spending limit already exhausted"
	}
	if limit-spent < amount {
		return window + " available spending limit less than amount requested"
	}
	return ""
}

// StartOfNextDay returns the first local midnight strictly after t in the
// fixed zone tz.
func StartOfNextDay(t time.Time, tz time.Duration) time.Time {
	loc := zone(tz)
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc).UTC()
}

// StartOfNextMonth returns the first local month start strictly after t in
// the fixed zone tz.
func StartOfNextMonth(t time.Time, tz time.Duration) time.Time {
	loc := zone(tz)
	y, m, _ := t.In(loc).Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, loc).UTC()
}

func zone(tz time.Duration) *time.Location {
	return time.FixedZone("", int(tz/time.Second))
}
