package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// RecoveryConfig holds the recovery signer set and any pending ownership transfer
type RecoveryConfig struct {
	Enabled   bool  `json:"enabled"`
	Threshold uint8 `json:"threshold"`

	// Signer sources. OverrideSigners, when non-empty, replaces PlatformSigners.
	PlatformSigners []common.Address `json:"platformSigners"`
	OverrideSigners []common.Address `json:"overrideSigners,omitempty"`
	UserSigners     []common.Address `json:"userSigners,omitempty"`

	PendingOwner          common.Address `json:"pendingOwner"`
	PendingActivationTime time.Time      `json:"pendingActivationTime"`

	// Digests accepted by recoverSafe at the current nonce. Recovery does not
	// advance the nonce, so these are dropped only when the nonce moves.
	UsedDigests []common.Hash `json:"usedDigests,omitempty"`
}

// Signers returns the effective recovery signer set in deterministic order.
func (r RecoveryConfig) Signers() []common.Address {
	base := r.PlatformSigners
	if len(r.OverrideSigners) > 0 {
		base = r.OverrideSigners
	}
	return lo.Uniq(append(cloneAddrs(base), r.UserSigners...))
}

// DigestUsed reports whether d already authorized a recovery at the current nonce
func (r RecoveryConfig) DigestUsed(d common.Hash) bool {
	return lo.Contains(r.UsedDigests, d)
}

// IsPending reports whether an ownership transfer is scheduled
func (r RecoveryConfig) IsPending() bool {
	return r.PendingOwner != (common.Address{})
}

// ClearPending drops a scheduled ownership transfer
func (r *RecoveryConfig) ClearPending() {
	r.PendingOwner = common.Address{}
	r.PendingActivationTime = time.Time{}
}

func (r RecoveryConfig) clone() RecoveryConfig {
	c := r
	c.PlatformSigners = cloneAddrs(r.PlatformSigners)
	c.OverrideSigners = cloneAddrs(r.OverrideSigners)
	c.UserSigners = cloneAddrs(r.UserSigners)
	if r.UsedDigests != nil {
		c.UsedDigests = append([]common.Hash(nil), r.UsedDigests...)
	}
	return c
}
