package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/core/spending"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// SafeView is a materialized read of a safe at a point in time
type SafeView struct {
	Safe            *models.SafeAccount `json:"safe"`
	EnabledModules  []common.Address    `json:"enabledModules"`
	RecoverySigners []common.Address    `json:"recoverySigners"`
	MaxCanSpend     uint64              `json:"maxCanSpend"`
	AsOf            time.Time           `json:"asOf"`
}

// ShowSafe is the use case for reading one safe. Reads never persist the
// time-triggered transitions they observe.
type ShowSafe struct {
	store SafeStore
	core  *safe.Core
	clock Clock
}

// NewShowSafe creates a new ShowSafe use case
func NewShowSafe(store SafeStore, core *safe.Core, clock Clock) *ShowSafe {
	return &ShowSafe{
		store: store,
		core:  core,
		clock: clock,
	}
}

// Run loads and materializes the safe
func (uc *ShowSafe) Run(ctx context.Context, addr common.Address) (*SafeView, error) {
	acct, err := uc.store.GetSafe(ctx, addr)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	view, _ := safe.Materialize(acct, now)

	modules, err := uc.core.EnabledModules(ctx, view)
	if err != nil {
		return nil, err
	}

	return &SafeView{
		Safe:            view,
		EnabledModules:  modules,
		RecoverySigners: view.Recovery.Signers(),
		MaxCanSpend:     spending.MaxCanSpend(view.Cash.SpendingLimit, now),
		AsOf:            now,
	}, nil
}

// ListSafes is the use case for listing all stored safes
type ListSafes struct {
	store SafeStore
	clock Clock
}

// NewListSafes creates a new ListSafes use case
func NewListSafes(store SafeStore, clock Clock) *ListSafes {
	return &ListSafes{
		store: store,
		clock: clock,
	}
}

// Run returns every safe, materialized at the current time
func (uc *ListSafes) Run(ctx context.Context) ([]*models.SafeAccount, error) {
	safes, err := uc.store.ListSafes(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	out := make([]*models.SafeAccount, len(safes))
	for i, acct := range safes {
		out[i], _ = safe.Materialize(acct, now)
	}
	return out, nil
}

// CheckModule is the use case for isModuleEnabled
type CheckModule struct {
	store SafeStore
	core  *safe.Core
}

// NewCheckModule creates a new CheckModule use case
func NewCheckModule(store SafeStore, core *safe.Core) *CheckModule {
	return &CheckModule{
		store: store,
		core:  core,
	}
}

// Run reports whether module may act on the safe
func (uc *CheckModule) Run(ctx context.Context, addr, module common.Address) (bool, error) {
	acct, err := uc.store.GetSafe(ctx, addr)
	if err != nil {
		return false, err
	}
	return uc.core.IsModuleEnabled(ctx, acct, module)
}

// SpendingReport answers canSpend and maxCanSpend for one safe
type SpendingReport struct {
	Safe          common.Address       `json:"safe"`
	Amount        uint64               `json:"amount"`
	CanSpend      bool                 `json:"canSpend"`
	Reason        string               `json:"reason,omitempty"`
	MaxCanSpend   uint64               `json:"maxCanSpend"`
	SpendingLimit models.SpendingLimit `json:"spendingLimit"`
	AsOf          time.Time            `json:"asOf"`
}

// CheckSpending is the use case for the read-only spending queries
type CheckSpending struct {
	store SafeStore
	clock Clock
}

// NewCheckSpending creates a new CheckSpending use case
func NewCheckSpending(store SafeStore, clock Clock) *CheckSpending {
	return &CheckSpending{
		store: store,
		clock: clock,
	}
}

// Run evaluates amount against the safe's ledger. A zero amount only
// reports the maximum.
func (uc *CheckSpending) Run(ctx context.Context, addr common.Address, amount uint64) (*SpendingReport, error) {
	acct, err := uc.store.GetSafe(ctx, addr)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	limit := spending.Current(acct.Cash.SpendingLimit, now)

	report := &SpendingReport{
		Safe:          addr,
		Amount:        amount,
		MaxCanSpend:   spending.MaxCanSpend(limit, now),
		SpendingLimit: limit,
		AsOf:          now,
	}
	if amount > 0 {
		report.CanSpend, report.Reason = spending.CanSpend(limit, amount, now)
	}
	return report, nil
}
