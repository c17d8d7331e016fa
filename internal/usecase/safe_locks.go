package usecase

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// SafeLocks serializes state transitions per safe address. Different safes
// never contend.
type SafeLocks struct {
	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

// NewSafeLocks creates an empty lock table
func NewSafeLocks() *SafeLocks {
	return &SafeLocks{locks: make(map[common.Address]*sync.Mutex)}
}

// Lock acquires the lock for addr and returns its release function
func (l *SafeLocks) Lock(addr common.Address) func() {
	l.mu.Lock()
	m, ok := l.locks[addr]
	if !ok {
		m = &sync.Mutex{}
		l.locks[addr] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
