package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// transition computes the next state of a safe from its stored state
type transition func(acct *models.SafeAccount, now time.Time) (*models.SafeAccount, []domain.Event, error)

// Executor runs the load, apply, save sequence for one safe under its lock.
// A failed transition leaves the stored state untouched.
type Executor struct {
	store SafeStore
	locks *SafeLocks
	clock Clock
	log   *slog.Logger
}

// NewExecutor creates a new Executor
func NewExecutor(store SafeStore, locks *SafeLocks, clock Clock, log *slog.Logger) *Executor {
	return &Executor{
		store: store,
		locks: locks,
		clock: clock,
		log:   log,
	}
}

func (e *Executor) commit(ctx context.Context, addr common.Address, action string, fn transition) (*models.SafeAccount, []domain.Event, error) {
	unlock := e.locks.Lock(addr)
	defer unlock()

	acct, err := e.store.GetSafe(ctx, addr)
	if err != nil {
		return nil, nil, err
	}

	next, events, err := fn(acct, e.clock.Now())
	if err != nil {
		e.log.Warn("operation rejected", "safe", addr.Hex(), "method", action, "nonce", acct.Nonce, "error", err)
		return nil, nil, err
	}

	if err := e.store.SaveSafe(ctx, next); err != nil {
		return nil, nil, err
	}

	e.log.Info("operation committed", "safe", addr.Hex(), "method", action, "nonce", acct.Nonce)
	for _, ev := range events {
		e.log.Debug("event", "type", ev.Type, "safe", ev.Safe.Hex(), "fields", ev.Fields)
	}
	return next, events, nil
}
