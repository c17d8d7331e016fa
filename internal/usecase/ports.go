package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

// SafeStore handles persistence of safe accounts
type SafeStore interface {
	// GetSafe returns domain.ErrSafeNotFound when no state is stored for addr
	GetSafe(ctx context.Context, addr common.Address) (*models.SafeAccount, error)
	ListSafes(ctx context.Context) ([]*models.SafeAccount, error)
	// CreateSafe returns domain.ErrSafeAlreadyExists when addr is taken
	CreateSafe(ctx context.Context, acct *models.SafeAccount) error
	SaveSafe(ctx context.Context, acct *models.SafeAccount) error
}

// ModuleRegistry is the global module allow-list
type ModuleRegistry interface {
	IsWhitelistedModule(ctx context.Context, module common.Address) (bool, error)
	ListModules(ctx context.Context) ([]common.Address, error)
	SetModule(ctx context.Context, module common.Address, allowed bool) error
}

// Clock supplies the current time to the use cases
type Clock interface {
	Now() time.Time
}

// DigestSigner produces signatures over operation digests
type DigestSigner interface {
	Address() common.Address
	SignDigest(digest common.Hash) ([]byte, error)
}

// SafeSelector handles interactive choices
type SafeSelector interface {
	SelectSafe(ctx context.Context, safes []*models.SafeAccount, prompt string) (*models.SafeAccount, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}
