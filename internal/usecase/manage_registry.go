package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
)

// ManageModuleRegistry is the use case for editing the global module allow-list
type ManageModuleRegistry struct {
	registry ModuleRegistry
	log      *slog.Logger
}

// NewManageModuleRegistry creates a new ManageModuleRegistry use case
func NewManageModuleRegistry(registry ModuleRegistry, log *slog.Logger) *ManageModuleRegistry {
	return &ManageModuleRegistry{
		registry: registry,
		log:      log,
	}
}

// List returns the allowed modules
func (uc *ManageModuleRegistry) List(ctx context.Context) ([]common.Address, error) {
	return uc.registry.ListModules(ctx)
}

// Add allows module globally
func (uc *ManageModuleRegistry) Add(ctx context.Context, module common.Address) error {
	return uc.set(ctx, module, true)
}

// Remove disallows module globally. Safes keep it in their local whitelist
// but it stops being enabled for them.
func (uc *ManageModuleRegistry) Remove(ctx context.Context, module common.Address) error {
	return uc.set(ctx, module, false)
}

func (uc *ManageModuleRegistry) set(ctx context.Context, module common.Address, allowed bool) error {
	if module == (common.Address{}) {
		return fmt.Errorf("%w: zero module address", domain.ErrInvalidModule)
	}
	if err := uc.registry.SetModule(ctx, module, allowed); err != nil {
		return fmt.Errorf("failed to update module registry: %w", err)
	}
	uc.log.Info("module registry updated", "module", module.Hex(), "allowed", allowed)
	return nil
}
