package adapters

import (
	"github.com/etherfi-protocol/cash-safe/internal/adapters/clock"
	"github.com/etherfi-protocol/cash-safe/internal/adapters/fs"
	"github.com/etherfi-protocol/cash-safe/internal/adapters/interactive"
	"github.com/etherfi-protocol/cash-safe/internal/core/cash"
	"github.com/etherfi-protocol/cash-safe/internal/core/quorum"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/core/signature"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/google/wire"
)

// ProvideContractSigners registers the contract signers declared in safe.toml
func ProvideContractSigners(cfg *config.RuntimeConfig) *signature.Registry {
	reg := signature.NewRegistry()
	for addr, delegates := range cfg.ContractSigners {
		reg.Register(addr, signature.DelegateSigner{Delegates: delegates})
	}
	return reg
}

// ProvideRecoveryDelay provides the recovery time lock from RuntimeConfig
func ProvideRecoveryDelay(cfg *config.RuntimeConfig) safe.RecoveryDelaySource {
	return cfg.Recovery
}

// ProvideCore provides the authorization core with the configured cash module
func ProvideCore(cfg *config.RuntimeConfig, engine *quorum.Engine, registry safe.ModuleRegistry, delays safe.RecoveryDelaySource) *safe.Core {
	return safe.NewCore(engine, registry, delays, safe.Settings{
		PrimaryModule: cfg.Modules.CashModule,
		CashDelays: cash.Delays{
			Mode:       cfg.Cash.ModeDelay,
			Withdrawal: cfg.Cash.WithdrawalDelay,
			Limit:      cfg.Cash.LimitDelay,
		},
	})
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSafeStoreAdapter,
	wire.Bind(new(usecase.SafeStore), new(*fs.SafeStoreAdapter)),

	fs.NewModuleRegistryAdapter,
	wire.Bind(new(usecase.ModuleRegistry), new(*fs.ModuleRegistryAdapter)),
	wire.Bind(new(safe.ModuleRegistry), new(*fs.ModuleRegistryAdapter)),
)

// ClockSet provides the wall clock
var ClockSet = wire.NewSet(
	clock.NewSystemClock,
	wire.Bind(new(usecase.Clock), new(*clock.SystemClock)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.SafeSelector), new(*interactive.SelectorAdapter)),
)

// SignatureSet provides signature verification and the quorum engine
var SignatureSet = wire.NewSet(
	ProvideContractSigners,
	wire.Bind(new(signature.ContractResolver), new(*signature.Registry)),
	signature.NewVerifier,
	wire.Bind(new(quorum.Verifier), new(*signature.Verifier)),
	quorum.NewEngine,
)

// CoreSet provides the authorization core
var CoreSet = wire.NewSet(
	SignatureSet,
	ProvideRecoveryDelay,
	ProvideCore,
)

// ServiceSet includes every adapter set except the clock
var ServiceSet = wire.NewSet(
	FSSet,
	InteractiveSet,
	CoreSet,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ServiceSet,
	ClockSet,
)
