package safe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/core/quorum"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// Genesis describes a safe at creation
type Genesis struct {
	Address   common.Address
	ChainID   uint64
	Owners    []common.Address
	Threshold uint8
	// Admins defaults to Owners when empty
	Admins []common.Address

	// Extra modules to whitelist, with optional setup data per module
	Modules         []common.Address
	ModuleSetupData [][]byte

	// CashSetupData initializes the primary module, see cash.EncodeSetupData
	CashSetupData []byte

	RecoverySigners   []common.Address
	RecoveryThreshold uint8
}

// Create builds the initial state of a safe. Nonce starts at zero and
// recovery is enabled whenever platform recovery signers are configured.
func (c *Core) Create(ctx context.Context, g Genesis, now time.Time) (*models.SafeAccount, []domain.Event, error) {
	if g.Address == (common.Address{}) {
		return nil, nil, fmt.Errorf("%w: zero safe address", domain.ErrInvalidInput)
	}
	if err := validateMembership(g.Owners, len(g.Owners), domain.ErrInvalidInput); err != nil {
		return nil, nil, fmt.Errorf("owners: %w", err)
	}
	if g.Threshold == 0 || int(g.Threshold) > len(g.Owners) {
		return nil, nil, fmt.Errorf("%w: %d owners, threshold %d", domain.ErrInvalidThreshold, len(g.Owners), g.Threshold)
	}
	admins := g.Admins
	if len(admins) == 0 {
		admins = g.Owners
	}
	if err := validateMembership(admins, len(admins), domain.ErrInvalidInput); err != nil {
		return nil, nil, fmt.Errorf("admins: %w", err)
	}
	if i, dup := quorum.FirstDuplicate(g.RecoverySigners); dup {
		return nil, nil, fmt.Errorf("recovery signers: %w", domain.AtIndex(domain.ErrDuplicateElementFound, i))
	}

	acct := &models.SafeAccount{
		Address:   g.Address,
		ChainID:   g.ChainID,
		Owners:    append([]common.Address(nil), g.Owners...),
		Threshold: g.Threshold,
		Admins:    append([]common.Address(nil), admins...),
		Recovery: models.RecoveryConfig{
			Enabled:         len(g.RecoverySigners) > 0,
			Threshold:       g.RecoveryThreshold,
			PlatformSigners: append([]common.Address(nil), g.RecoverySigners...),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if acct.Recovery.Enabled {
		if g.RecoveryThreshold == 0 {
			return nil, nil, fmt.Errorf("recovery: %w", domain.ErrInvalidThreshold)
		}
		if err := checkRecoveryThreshold(acct.Recovery); err != nil {
			return nil, nil, err
		}
	}

	if err := setupCash(acct, g.CashSetupData, now); err != nil {
		return nil, nil, fmt.Errorf("cash module setup: %w", err)
	}

	if len(g.Modules) > 0 {
		setup := g.ModuleSetupData
		if setup == nil {
			setup = make([][]byte, len(g.Modules))
		}
		op := ConfigureModules{Modules: g.Modules, ShouldWhitelist: make([]bool, len(g.Modules))}
		for i := range g.Modules {
			op.ShouldWhitelist[i] = true
		}
		if len(setup) != len(g.Modules) {
			return nil, nil, domain.ErrArrayLengthMismatch
		}
		for _, d := range setup {
			op.SetupData = append(op.SetupData, d)
		}
		if err := op.Validate(); err != nil {
			return nil, nil, err
		}
		if _, err := c.configureModules(ctx, acct, op, now); err != nil {
			return nil, nil, err
		}
	}

	return acct, []domain.Event{domain.NewEvent(domain.EventSafeCreated, acct.Address,
		"owners", domain.JoinAddresses(acct.Owners),
		"threshold", strconv.Itoa(int(acct.Threshold)),
		"chainId", strconv.FormatUint(acct.ChainID, 10),
	)}, nil
}
