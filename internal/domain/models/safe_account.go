package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// SafeAccount is the persisted state of one multi-signature safe
type SafeAccount struct {
	// Identification
	Address common.Address `json:"address"`
	ChainID uint64         `json:"chainId"`

	// Authority
	Owners    []common.Address `json:"owners"`
	Threshold uint8            `json:"threshold"`
	Admins    []common.Address `json:"admins"`
	Nonce     uint64           `json:"nonce"`

	// Local module whitelist; the primary module is implicit and never listed
	Modules []common.Address `json:"modules"`

	Recovery RecoveryConfig `json:"recovery"`
	Cash     CashState      `json:"cash"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsOwner reports whether addr is in the owner set
func (s *SafeAccount) IsOwner(addr common.Address) bool {
	return lo.Contains(s.Owners, addr)
}

// IsAdmin reports whether addr is in the admin set
func (s *SafeAccount) IsAdmin(addr common.Address) bool {
	return lo.Contains(s.Admins, addr)
}

// HasModule reports whether addr is in the local module whitelist
func (s *SafeAccount) HasModule(addr common.Address) bool {
	return lo.Contains(s.Modules, addr)
}

// Clone returns a deep copy that can be mutated without affecting s.
func (s *SafeAccount) Clone() *SafeAccount {
	c := *s
	c.Owners = cloneAddrs(s.Owners)
	c.Admins = cloneAddrs(s.Admins)
	c.Modules = cloneAddrs(s.Modules)
	c.Recovery = s.Recovery.clone()
	c.Cash = s.Cash.clone()
	return &c
}

func cloneAddrs(in []common.Address) []common.Address {
	if in == nil {
		return nil
	}
	out := make([]common.Address, len(in))
	copy(out, in)
	return out
}
