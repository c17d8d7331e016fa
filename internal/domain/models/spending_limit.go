package models

import "time"

// USDDecimals is the fixed-point precision of every USD amount
const USDDecimals = 6

// SpendingLimit tracks daily and monthly spend windows for a safe.
// Amounts are USD with USDDecimals decimals.
type SpendingLimit struct {
	DailyLimit     uint64 `json:"dailyLimit"`
	MonthlyLimit   uint64 `json:"monthlyLimit"`
	SpentToday     uint64 `json:"spentToday"`
	SpentThisMonth uint64 `json:"spentThisMonth"`

	// Staged decreases, applied once their activation time passes
	NewDailyLimit                    uint64    `json:"newDailyLimit"`
	NewMonthlyLimit                  uint64    `json:"newMonthlyLimit"`
	DailyLimitChangeActivationTime   time.Time `json:"dailyLimitChangeActivationTime"`
	MonthlyLimitChangeActivationTime time.Time `json:"monthlyLimitChangeActivationTime"`

	DailyRenewalTimestamp   time.Time     `json:"dailyRenewalTimestamp"`
	MonthlyRenewalTimestamp time.Time     `json:"monthlyRenewalTimestamp"`
	TimezoneOffset          time.Duration `json:"timezoneOffset"`
}

// IsInitialized reports whether the ledger has renewal windows set
func (l SpendingLimit) IsInitialized() bool {
	return !l.DailyRenewalTimestamp.IsZero()
}

// HasIncomingDailyLimit reports whether a daily decrease is staged
func (l SpendingLimit) HasIncomingDailyLimit() bool {
	return !l.DailyLimitChangeActivationTime.IsZero()
}

// HasIncomingMonthlyLimit reports whether a monthly decrease is staged
func (l SpendingLimit) HasIncomingMonthlyLimit() bool {
	return !l.MonthlyLimitChangeActivationTime.IsZero()
}
