package safe

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/samber/lo"
)

// IsModuleEnabled reports whether module may act on acct: the primary module
// always may, any other module must be whitelisted both on the safe and in
// the global registry.
func (c *Core) IsModuleEnabled(ctx context.Context, acct *models.SafeAccount, module common.Address) (bool, error) {
	if module == c.settings.PrimaryModule {
		return true, nil
	}
	if !acct.HasModule(module) {
		return false, nil
	}
	return c.registry.IsWhitelistedModule(ctx, module)
}

// EnabledModules lists the primary module followed by the locally whitelisted
// modules that are still globally allowed.
func (c *Core) EnabledModules(ctx context.Context, acct *models.SafeAccount) ([]common.Address, error) {
	out := []common.Address{c.settings.PrimaryModule}
	for _, m := range acct.Modules {
		ok, err := c.registry.IsWhitelistedModule(ctx, m)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *Core) configureModules(ctx context.Context, acct *models.SafeAccount, o ConfigureModules, now time.Time) ([]domain.Event, error) {
	// checks run over every entry before anything is applied
	for i, m := range o.Modules {
		if !o.ShouldWhitelist[i] {
			if m == c.settings.PrimaryModule {
				return nil, domain.AtIndex(domain.ErrCannotRemoveCashModule, i)
			}
			continue
		}
		if m == c.settings.PrimaryModule {
			continue
		}
		ok, err := c.registry.IsWhitelistedModule(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("failed to check module registry: %w", err)
		}
		if !ok {
			return nil, domain.AtIndex(domain.ErrUnsupportedModule, i)
		}
	}

	for i, m := range o.Modules {
		if !o.ShouldWhitelist[i] {
			acct.Modules = lo.Without(acct.Modules, m)
			continue
		}
		if m == c.settings.PrimaryModule {
			continue
		}
		if !acct.HasModule(m) {
			acct.Modules = append(acct.Modules, m)
		}
		if setup, ok := c.setups[m]; ok && len(o.SetupData[i]) > 0 {
			if err := setup(acct, o.SetupData[i], now); err != nil {
				return nil, domain.AtIndex(fmt.Errorf("module setup failed: %w", err), i)
			}
		}
	}

	return []domain.Event{domain.NewEvent(domain.EventModulesConfigured, acct.Address,
		"modules", domain.JoinAddresses(o.Modules),
		"shouldWhitelist", formatFlags(o.ShouldWhitelist),
	)}, nil
}
