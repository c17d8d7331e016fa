package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	ChainID     uint64

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Server settings
	ListenAddr string

	// Resolved safe.toml sections
	Modules         ModulesConfig
	Recovery        RecoveryConfig
	Cash            CashConfig
	ContractSigners map[common.Address][]common.Address

	// Config source tracking
	ConfigSource string // path of safe.toml, empty when defaults are used
}

// ModulesConfig holds the primary module and the initial global allow-list
type ModulesConfig struct {
	CashModule common.Address
	AllowList  []common.Address
}

// RecoveryConfig holds the platform recovery signers applied to new safes
type RecoveryConfig struct {
	Delay           time.Duration
	PlatformSigners []common.Address
	Threshold       uint8
}

// CashConfig holds cash module time locks and default limits.
// Limits are USD amounts scaled by models.USDDecimals.
type CashConfig struct {
	ModeDelay           time.Duration
	WithdrawalDelay     time.Duration
	LimitDelay          time.Duration
	DefaultDailyLimit   uint64
	DefaultMonthlyLimit uint64
	TimezoneOffset      time.Duration
}

// RecoveryDelayPeriod returns the time lock between recoverSafe and the ownership transfer
func (r RecoveryConfig) RecoveryDelayPeriod() time.Duration {
	return r.Delay
}
