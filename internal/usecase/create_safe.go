package usecase

import (
	"context"
	"encoding/binary"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/etherfi-protocol/cash-safe/internal/core/cash"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// CreateSafeParams contains parameters for creating a safe
type CreateSafeParams struct {
	// Address is derived from the owners and Salt when zero
	Address common.Address
	Salt    common.Hash

	Owners    []common.Address
	Threshold uint8
	Admins    []common.Address
	Modules   []common.Address

	// Optional overrides of the configured cash defaults
	DailyLimit     *uint64
	MonthlyLimit   *uint64
	TimezoneOffset *time.Duration
}

// CreateSafeResult contains the created safe
type CreateSafeResult struct {
	Safe   *models.SafeAccount `json:"safe"`
	Events []domain.Event      `json:"events"`
}

// CreateSafe is the use case for creating a new safe
type CreateSafe struct {
	store SafeStore
	locks *SafeLocks
	core  *safe.Core
	clock Clock
	cfg   *config.RuntimeConfig
	log   *slog.Logger
}

// NewCreateSafe creates a new CreateSafe use case
func NewCreateSafe(store SafeStore, locks *SafeLocks, core *safe.Core, clock Clock, cfg *config.RuntimeConfig, log *slog.Logger) *CreateSafe {
	return &CreateSafe{
		store: store,
		locks: locks,
		core:  core,
		clock: clock,
		cfg:   cfg,
		log:   log,
	}
}

// Run validates the genesis parameters and stores the new safe
func (uc *CreateSafe) Run(ctx context.Context, params CreateSafeParams) (*CreateSafeResult, error) {
	addr := params.Address
	if addr == (common.Address{}) {
		addr = DeriveSafeAddress(uc.cfg.ChainID, params.Owners, params.Threshold, params.Salt)
	}

	daily, monthly, tz := uc.cfg.Cash.DefaultDailyLimit, uc.cfg.Cash.DefaultMonthlyLimit, uc.cfg.Cash.TimezoneOffset
	if params.DailyLimit != nil {
		daily = *params.DailyLimit
	}
	if params.MonthlyLimit != nil {
		monthly = *params.MonthlyLimit
	}
	if params.TimezoneOffset != nil {
		tz = *params.TimezoneOffset
	}

	unlock := uc.locks.Lock(addr)
	defer unlock()

	acct, events, err := uc.core.Create(ctx, safe.Genesis{
		Address:           addr,
		ChainID:           uc.cfg.ChainID,
		Owners:            params.Owners,
		Threshold:         params.Threshold,
		Admins:            params.Admins,
		Modules:           params.Modules,
		CashSetupData:     cash.EncodeSetupData(daily, monthly, tz),
		RecoverySigners:   uc.cfg.Recovery.PlatformSigners,
		RecoveryThreshold: uc.cfg.Recovery.Threshold,
	}, uc.clock.Now())
	if err != nil {
		uc.log.Warn("safe creation rejected", "safe", addr.Hex(), "error", err)
		return nil, err
	}

	if err := uc.store.CreateSafe(ctx, acct); err != nil {
		return nil, err
	}

	uc.log.Info("safe created", "safe", addr.Hex(), "owners", len(acct.Owners), "threshold", acct.Threshold)
	return &CreateSafeResult{Safe: acct, Events: events}, nil
}

// DeriveSafeAddress computes a deterministic address from the chain,
// owner set, threshold and salt.
func DeriveSafeAddress(chainID uint64, owners []common.Address, threshold uint8, salt common.Hash) common.Address {
	buf := make([]byte, 0, 8+1+32+len(owners)*common.AddressLength)
	buf = binary.BigEndian.AppendUint64(buf, chainID)
	buf = append(buf, threshold)
	buf = append(buf, salt.Bytes()...)
	for _, o := range owners {
		buf = append(buf, o.Bytes()...)
	}
	return common.BytesToAddress(crypto.Keccak256(buf)[12:])
}
