package signature

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// DelegateSigner is an in-process contract account that accepts any signature
// recovered to one of its delegate keys.
type DelegateSigner struct {
	Delegates []common.Address
}

// IsValidSignature returns MagicValue when sig recovers to a delegate.
func (d DelegateSigner) IsValidSignature(_ context.Context, digest common.Hash, sig []byte) ([4]byte, error) {
	recovered, err := Recover(digest, sig)
	if err != nil {
		return [4]byte{}, err
	}
	if !lo.Contains(d.Delegates, recovered) {
		return [4]byte{}, fmt.Errorf("%s is not a delegate", recovered.Hex())
	}
	return MagicValue, nil
}

// Registry is a ContractResolver backed by a map of deployed contract signers
type Registry struct {
	mu        sync.RWMutex
	contracts map[common.Address]ContractSigner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[common.Address]ContractSigner)}
}

// Register deploys contract at addr
func (r *Registry) Register(addr common.Address, contract ContractSigner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[addr] = contract
}

// ContractAt returns the contract registered at addr, if any.
func (r *Registry) ContractAt(addr common.Address) (ContractSigner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[addr]
	return c, ok
}

var _ ContractResolver = (*Registry)(nil)
