package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/samber/lo"
)

// moduleRegistryFile is the on-disk allow-list document
type moduleRegistryFile struct {
	Modules []common.Address `json:"modules"`
}

// ModuleRegistryAdapter implements ModuleRegistry backed by modules.json.
// Until the file is first written the allow-list from safe.toml applies.
type ModuleRegistryAdapter struct {
	path string
	seed []common.Address

	mu sync.RWMutex
}

// NewModuleRegistryAdapter creates a new ModuleRegistryAdapter
func NewModuleRegistryAdapter(cfg *config.RuntimeConfig) *ModuleRegistryAdapter {
	return &ModuleRegistryAdapter{
		path: filepath.Join(cfg.DataDir, "modules.json"),
		seed: cfg.Modules.AllowList,
	}
}

func (r *ModuleRegistryAdapter) load() ([]common.Address, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return append([]common.Address(nil), r.seed...), nil
		}
		return nil, fmt.Errorf("failed to read module registry: %w", err)
	}

	var file moduleRegistryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse module registry: %w", err)
	}
	return file.Modules, nil
}

// IsWhitelistedModule reports whether module is globally allowed
func (r *ModuleRegistryAdapter) IsWhitelistedModule(_ context.Context, module common.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules, err := r.load()
	if err != nil {
		return false, err
	}
	return lo.Contains(modules, module), nil
}

// ListModules returns the allow-list ordered by address
func (r *ModuleRegistryAdapter) ListModules(_ context.Context) ([]common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Cmp(modules[j]) < 0 })
	return modules, nil
}

// SetModule adds or removes module from the allow-list
func (r *ModuleRegistryAdapter) SetModule(_ context.Context, module common.Address, allowed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	modules, err := r.load()
	if err != nil {
		return err
	}
	if allowed {
		modules = lo.Uniq(append(modules, module))
	} else {
		modules = lo.Without(modules, module)
	}

	data, err := json.MarshalIndent(moduleRegistryFile{Modules: modules}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal module registry: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

// Ensure ModuleRegistryAdapter implements ModuleRegistry
var _ usecase.ModuleRegistry = (*ModuleRegistryAdapter)(nil)
