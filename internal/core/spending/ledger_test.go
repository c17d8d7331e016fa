package spending_test

import (
	"testing"
	"time"

	"github.com/etherfi-protocol/cash-safe/internal/core/spending"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newLedger(t *testing.T, daily, monthly uint64) models.SpendingLimit {
	t.Helper()
	l, err := spending.Initialize(daily, monthly, 0, t0)
	require.NoError(t, err)
	return l
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		daily       uint64
		monthly     uint64
		tz          time.Duration
		wantErr     error
		wantDaily   time.Time
		wantMonthly time.Time
	}{
		{
			name:        "utc",
			daily:       100,
			monthly:     1000,
			wantDaily:   time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
			wantMonthly: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "positive offset crosses local midnight",
			daily:       100,
			monthly:     1000,
			tz:          13 * time.Hour,
			wantDaily:   time.Date(2024, time.March, 11, 11, 0, 0, 0, time.UTC),
			wantMonthly: time.Date(2024, time.March, 31, 11, 0, 0, 0, time.UTC),
		},
		{
			name:        "negative offset",
			daily:       100,
			monthly:     1000,
			tz:          -5 * time.Hour,
			wantDaily:   time.Date(2024, time.March, 11, 5, 0, 0, 0, time.UTC),
			wantMonthly: time.Date(2024, time.April, 1, 5, 0, 0, 0, time.UTC),
		},
		{
			name:    "daily above monthly",
			daily:   1001,
			monthly: 1000,
			wantErr: domain.ErrDailyLimitCannotBeGreaterThanMonthlyLimit,
		},
		{
			name:    "offset out of range",
			daily:   1,
			monthly: 1,
			tz:      25 * time.Hour,
			wantErr: domain.ErrInvalidTimezoneOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := spending.Initialize(tt.daily, tt.monthly, tt.tz, t0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.DailyRenewalTimestamp.Equal(tt.wantDaily), "daily renewal %s", l.DailyRenewalTimestamp)
			assert.True(t, l.MonthlyRenewalTimestamp.Equal(tt.wantMonthly), "monthly renewal %s", l.MonthlyRenewalTimestamp)
			assert.Equal(t, tt.daily, l.DailyLimit)
			assert.Equal(t, tt.monthly, l.MonthlyLimit)
		})
	}
}

func TestSpend(t *testing.T) {
	t.Run("charges both windows", func(t *testing.T) {
		l, err := spending.Spend(newLedger(t, 100, 1000), 40, t0)
		require.NoError(t, err)
		assert.Equal(t, uint64(40), l.SpentToday)
		assert.Equal(t, uint64(40), l.SpentThisMonth)
	})

	t.Run("daily limit exceeded leaves ledger untouched", func(t *testing.T) {
		l := newLedger(t, 100, 1000)
		l, err := spending.Spend(l, 90, t0)
		require.NoError(t, err)

		after, err := spending.Spend(l, 11, t0)
		assert.ErrorIs(t, err, domain.ErrExceededDailySpendingLimit)
		assert.Equal(t, l, after)
	})

	t.Run("monthly limit exceeded", func(t *testing.T) {
		l := newLedger(t, 100, 150)
		l, err := spending.Spend(l, 100, t0)
		require.NoError(t, err)

		_, err = spending.Spend(l, 60, t0.Add(24*time.Hour))
		assert.ErrorIs(t, err, domain.ErrExceededMonthlySpendingLimit)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := spending.Spend(newLedger(t, 100, 1000), 0, t0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("skipped days reset once", func(t *testing.T) {
		l := newLedger(t, 100, 1000)
		l, err := spending.Spend(l, 90, t0)
		require.NoError(t, err)

		l, err = spending.Spend(l, 50, t0.Add(5*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, uint64(50), l.SpentToday)
		assert.Equal(t, uint64(140), l.SpentThisMonth)
		assert.True(t, l.DailyRenewalTimestamp.Equal(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("month rollover", func(t *testing.T) {
		l := newLedger(t, 100, 150)
		l, err := spending.Spend(l, 100, t0)
		require.NoError(t, err)

		l, err = spending.Spend(l, 100, time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, uint64(100), l.SpentThisMonth)
		assert.True(t, l.MonthlyRenewalTimestamp.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func TestUpdate(t *testing.T) {
	t.Run("increase is immediate", func(t *testing.T) {
		l, err := spending.Update(newLedger(t, 100, 1000), 200, 2000, time.Hour, t0)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), l.DailyLimit)
		assert.Equal(t, uint64(2000), l.MonthlyLimit)
		assert.False(t, l.HasIncomingDailyLimit())
		assert.False(t, l.HasIncomingMonthlyLimit())
	})

	t.Run("decrease waits for delay", func(t *testing.T) {
		l, err := spending.Update(newLedger(t, 100, 1000), 50, 1000, time.Hour, t0)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), l.DailyLimit)
		assert.Equal(t, uint64(50), l.NewDailyLimit)

		before := spending.Current(l, t0.Add(30*time.Minute))
		assert.Equal(t, uint64(100), before.DailyLimit)

		// reporting is pessimistic while enforcement still uses the old limit
		assert.Equal(t, uint64(50), spending.MaxCanSpend(l, t0.Add(30*time.Minute)))
		ok, _ := spending.CanSpend(l, 80, t0.Add(30*time.Minute))
		assert.False(t, ok)
		spent, err := spending.Spend(l, 80, t0.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, uint64(80), spent.SpentToday)

		after := spending.Current(l, t0.Add(time.Hour))
		assert.Equal(t, uint64(50), after.DailyLimit)
		assert.False(t, after.HasIncomingDailyLimit())
	})

	t.Run("increase cancels staged decrease", func(t *testing.T) {
		l, err := spending.Update(newLedger(t, 100, 1000), 50, 1000, time.Hour, t0)
		require.NoError(t, err)
		l, err = spending.Update(l, 150, 1000, time.Hour, t0.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, uint64(150), l.DailyLimit)
		assert.False(t, l.HasIncomingDailyLimit())
	})

	t.Run("zero delay applies decrease now", func(t *testing.T) {
		l, err := spending.Update(newLedger(t, 100, 1000), 10, 20, 0, t0)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), l.DailyLimit)
		assert.Equal(t, uint64(20), l.MonthlyLimit)
	})

	t.Run("daily above monthly", func(t *testing.T) {
		_, err := spending.Update(newLedger(t, 100, 1000), 500, 400, time.Hour, t0)
		assert.ErrorIs(t, err, domain.ErrDailyLimitCannotBeGreaterThanMonthlyLimit)
	})
}

func TestCurrentIsIdempotent(t *testing.T) {
	l := newLedger(t, 100, 1000)
	l, err := spending.Spend(l, 70, t0)
	require.NoError(t, err)
	l, err = spending.Update(l, 60, 900, time.Hour, t0)
	require.NoError(t, err)

	for _, at := range []time.Time{t0, t0.Add(2 * time.Hour), t0.Add(40 * 24 * time.Hour)} {
		once := spending.Current(l, at)
		assert.Equal(t, once, spending.Current(once, at))

		snapshot := l
		spending.MaxCanSpend(l, at)
		spending.CanSpend(l, 1, at)
		assert.Equal(t, snapshot, l)
	}
}

func TestCanSpend(t *testing.T) {
	spent := func(daily, monthly, amount uint64) func(t *testing.T) models.SpendingLimit {
		return func(t *testing.T) models.SpendingLimit {
			l := newLedger(t, daily, monthly)
			if amount == 0 {
				return l
			}
			l, err := spending.Spend(l, amount, t0)
			require.NoError(t, err)
			return l
		}
	}
	staged := func(base func(t *testing.T) models.SpendingLimit, daily, monthly uint64) func(t *testing.T) models.SpendingLimit {
		return func(t *testing.T) models.SpendingLimit {
			l, err := spending.Update(base(t), daily, monthly, time.Hour, t0)
			require.NoError(t, err)
			return l
		}
	}

	day2 := t0.Add(24 * time.Hour)
	monthlyDrained := func(t *testing.T) models.SpendingLimit {
		l, err := spending.Spend(spent(60, 1000, 60)(t), 30, day2)
		require.NoError(t, err)
		l, err = spending.Update(l, 60, 80, time.Hour, day2)
		require.NoError(t, err)
		return l
	}

	tests := []struct {
		name   string
		ledger func(t *testing.T) models.SpendingLimit
		amount uint64
		at     time.Time
		ok     bool
		reason string
	}{
		{"within limits", spent(100, 1000, 50), 50, t0, true, ""},
		{"daily exhausted", spent(100, 150, 100), 1, t0, false, "Daily spending limit already exhausted"},
		{"daily too small", spent(100, 1000, 50), 60, t0, false, "Daily available spending limit less than amount requested"},
		{"monthly exhausted", spent(100, 100, 100), 1, day2, false, "Monthly spending limit already exhausted"},
		{"monthly too small", spent(100, 150, 100), 51, day2, false, "Monthly available spending limit less than amount requested"},
		{"next day within monthly", spent(100, 150, 100), 50, day2, true, ""},
		{"incoming daily too small", staged(spent(100, 1000, 0), 40, 1000), 60, t0, false, "Incoming daily available spending limit less than amount requested"},
		{"incoming daily exhausted", staged(spent(100, 1000, 50), 40, 1000), 1, t0, false, "Incoming daily spending limit already exhausted"},
		{"incoming monthly too small", staged(spent(60, 1000, 20), 60, 80), 61, t0, false, "Incoming monthly available spending limit less than amount requested"},
		{"incoming monthly exhausted", monthlyDrained, 1, day2, false, "Incoming monthly spending limit already exhausted"},
		{"incoming applied after delay", staged(spent(100, 1000, 0), 40, 1000), 40, t0.Add(2 * time.Hour), true, ""},
		{"zero", spent(100, 1000, 0), 0, t0, false, "amount must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := spending.CanSpend(tt.ledger(t), tt.amount, tt.at)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestMaxCanSpend(t *testing.T) {
	l := newLedger(t, 100, 150)
	l, err := spending.Spend(l, 100, t0)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), spending.MaxCanSpend(l, t0))
	assert.Equal(t, uint64(50), spending.MaxCanSpend(l, t0.Add(24*time.Hour)))

	l, err = spending.Update(newLedger(t, 100, 1000), 40, 1000, time.Hour, t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), spending.MaxCanSpend(l, t0))
}

func TestStartOfNextMonthWrapsYear(t *testing.T) {
	got := spending.StartOfNextMonth(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC), 0)
	assert.True(t, got.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))

	got = spending.StartOfNextDay(time.Date(2024, time.February, 28, 1, 0, 0, 0, time.UTC), 0)
	assert.True(t, got.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))
}
