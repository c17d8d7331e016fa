// Package safe applies signed operations to a safe account: nonce handling,
// owner and admin sets, module whitelisting and the recovery time lock.
//
// Every exported transition takes the stored state and returns a new state;
// the input is never mutated, so a failed operation leaves nothing behind.
package safe

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/etherfi-protocol/cash-safe/internal/core/cash"
	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	"github.com/etherfi-protocol/cash-safe/internal/core/quorum"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/samber/lo"
)

// ModuleRegistry is the global module allow-list
type ModuleRegistry interface {
	IsWhitelistedModule(ctx context.Context, module common.Address) (bool, error)
}

// RecoveryDelaySource supplies the time lock between recoverSafe and ownership transfer
type RecoveryDelaySource interface {
	RecoveryDelayPeriod() time.Duration
}

// ModuleSetup initializes module state when a module is enabled with setup data
type ModuleSetup func(acct *models.SafeAccount, data []byte, now time.Time) error

// Proof is the (signers, signatures) pair submitted with an operation
type Proof struct {
	Signers    []common.Address `json:"signers"`
	Signatures []hexutil.Bytes  `json:"signatures"`
}

func (p Proof) raw() [][]byte {
	out := make([][]byte, len(p.Signatures))
	for i, s := range p.Signatures {
		out[i] = s
	}
	return out
}

// Settings configures a Core
type Settings struct {
	// PrimaryModule is implicitly enabled on every safe and cannot be removed
	PrimaryModule common.Address
	CashDelays    cash.Delays
}

// Core is the authorization core shared by all safes
type Core struct {
	engine   *quorum.Engine
	registry ModuleRegistry
	delays   RecoveryDelaySource
	settings Settings
	setups   map[common.Address]ModuleSetup
}

// NewCore creates a Core. The primary module's setup hook is the cash module.
func NewCore(engine *quorum.Engine, registry ModuleRegistry, delays RecoveryDelaySource, settings Settings) *Core {
	c := &Core{
		engine:   engine,
		registry: registry,
		delays:   delays,
		settings: settings,
		setups:   make(map[common.Address]ModuleSetup),
	}
	c.setups[settings.PrimaryModule] = setupCash
	return c
}

// RegisterModuleSetup installs a setup hook run when module is enabled
func (c *Core) RegisterModuleSetup(module common.Address, fn ModuleSetup) {
	c.setups[module] = fn
}

// PrimaryModule returns the implicitly enabled module address
func (c *Core) PrimaryModule() common.Address {
	return c.settings.PrimaryModule
}

func setupCash(acct *models.SafeAccount, data []byte, now time.Time) error {
	return cash.Setup(&acct.Cash, data, now)
}

// Digest returns the message a signer set must sign for op against the
// current nonce of acct.
func (c *Core) Digest(acct *models.SafeAccount, op Operation) common.Hash {
	return digest.Build(acct.ChainID, acct.Address, op.Method(), acct.Nonce, op.ArgsHash())
}

// Materialize returns a copy of acct with time-triggered transitions applied:
// an elapsed recovery becomes the new ownership, a staged credit mode
// activates and spending windows roll over. It is pure; calling it twice
// with the same now yields the same state.
func Materialize(acct *models.SafeAccount, now time.Time) (*models.SafeAccount, []domain.Event) {
	next := acct.Clone()
	var events []domain.Event

	r := &next.Recovery
	if r.IsPending() && !now.Before(r.PendingActivationTime) {
		owner := r.PendingOwner
		next.Owners = []common.Address{owner}
		next.Threshold = 1
		next.Admins = []common.Address{owner}
		r.ClearPending()
		events = append(events, domain.NewEvent(domain.EventRecoveryFinalized, next.Address, "newOwner", owner.Hex()))
	}

	cash.Materialize(&next.Cash, now)
	return next, events
}

// Apply authorizes op with proof and applies it to a materialized copy of
// acct. On success it returns the new state and the events emitted; on error
// acct is unchanged and the returned state is nil.
func (c *Core) Apply(ctx context.Context, acct *models.SafeAccount, op Operation, proof Proof, now time.Time) (*models.SafeAccount, []domain.Event, error) {
	if err := op.Validate(); err != nil {
		return nil, nil, err
	}

	next, events := Materialize(acct, now)
	d := c.Digest(next, op)

	if rec, ok := op.(RecoverSafe); ok {
		// recovery is authorized by its own signer set and does not consume the nonce
		ev, err := c.recoverSafe(ctx, next, rec, d, proof, now)
		if err != nil {
			return nil, nil, err
		}
		next.UpdatedAt = now
		return next, append(events, ev...), nil
	}

	if err := c.engine.Require(ctx, d, proof.Signers, proof.raw(), c.authority(next, authorityFor(op))); err != nil {
		return nil, nil, err
	}

	ev, err := c.apply(ctx, next, op, now)
	if err != nil {
		return nil, nil, err
	}
	next.Nonce++
	// recovery digests embed the old nonce and can no longer verify
	next.Recovery.UsedDigests = nil
	next.UpdatedAt = now
	return next, append(events, ev...), nil
}

func (c *Core) authority(acct *models.SafeAccount, kind quorum.Kind) quorum.Authority {
	switch kind {
	case quorum.Recovery:
		return quorum.Authority{Kind: kind, Members: acct.Recovery.Signers(), Threshold: int(acct.Recovery.Threshold)}
	case quorum.Admins:
		// owners may act wherever an admin may
		return quorum.Authority{Kind: kind, Members: lo.Union(acct.Admins, acct.Owners), Threshold: 1}
	default:
		return quorum.Authority{Kind: kind, Members: acct.Owners, Threshold: int(acct.Threshold)}
	}
}

func (c *Core) apply(ctx context.Context, acct *models.SafeAccount, op Operation, now time.Time) ([]domain.Event, error) {
	switch o := op.(type) {
	case ConfigureOwners:
		return configureOwners(acct, o)
	case ConfigureAdmins:
		return configureAdmins(acct, o), nil
	case SetThreshold:
		return setThreshold(acct, o)
	case ConfigureModules:
		return c.configureModules(ctx, acct, o, now)
	case CancelNonce:
		return []domain.Event{domain.NewEvent(domain.EventNonceCancelled, acct.Address,
			"nonce", hexutil.EncodeUint64(acct.Nonce))}, nil
	case CancelRecovery:
		return cancelRecovery(acct), nil
	case SetUserRecoverySigners:
		return setUserRecoverySigners(acct, o)
	case OverrideRecoverySigners:
		return overrideRecoverySigners(acct, o)
	case SetRecoveryThreshold:
		return setRecoveryThreshold(acct, o)
	case ToggleRecoveryEnabled:
		return toggleRecoveryEnabled(acct, o)
	case SetMode:
		return c.setMode(acct, o, now)
	case UpdateSpendingLimit:
		return c.updateSpendingLimit(acct, o, now)
	case RequestWithdrawal:
		return c.requestWithdrawal(acct, o, now), nil
	case CancelWithdrawal:
		return cancelWithdrawal(acct)
	default:
		return nil, domain.ErrUnknownMethod
	}
}
