package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
)

// SafeStoreAdapter implements SafeStore with one JSON document per safe
type SafeStoreAdapter struct {
	dir string
}

// NewSafeStoreAdapter creates a new SafeStoreAdapter
func NewSafeStoreAdapter(cfg *config.RuntimeConfig) *SafeStoreAdapter {
	return &SafeStoreAdapter{
		dir: filepath.Join(cfg.DataDir, "safes"),
	}
}

func (s *SafeStoreAdapter) path(addr common.Address) string {
	return filepath.Join(s.dir, strings.ToLower(addr.Hex())+".json")
}

// GetSafe reads the state of one safe
func (s *SafeStoreAdapter) GetSafe(_ context.Context, addr common.Address) (*models.SafeAccount, error) {
	acct, err := readSafe(s.path(addr))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSafeNotFound, addr.Hex())
	}
	return acct, err
}

// ListSafes reads every stored safe, ordered by address
func (s *SafeStoreAdapter) ListSafes(_ context.Context) ([]*models.SafeAccount, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read safes directory: %w", err)
	}

	var safes []*models.SafeAccount
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		acct, err := readSafe(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		safes = append(safes, acct)
	}

	sort.Slice(safes, func(i, j int) bool {
		return safes[i].Address.Cmp(safes[j].Address) < 0
	})
	return safes, nil
}

// CreateSafe stores a new safe, failing if one already exists at its address
func (s *SafeStoreAdapter) CreateSafe(ctx context.Context, acct *models.SafeAccount) error {
	if _, err := os.Stat(s.path(acct.Address)); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrSafeAlreadyExists, acct.Address.Hex())
	}
	return s.SaveSafe(ctx, acct)
}

// SaveSafe writes the safe atomically: a reader sees the old or the new
// document, never a partial one.
func (s *SafeStoreAdapter) SaveSafe(_ context.Context, acct *models.SafeAccount) error {
	data, err := json.MarshalIndent(acct, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal safe: %w", err)
	}
	return writeFileAtomic(s.path(acct.Address), data)
}

func readSafe(path string) (*models.SafeAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read safe file: %w", err)
	}

	var acct models.SafeAccount
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, fmt.Errorf("failed to parse safe file %s: %w", filepath.Base(path), err)
	}
	return &acct, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Ensure SafeStoreAdapter implements SafeStore
var _ usecase.SafeStore = (*SafeStoreAdapter)(nil)
