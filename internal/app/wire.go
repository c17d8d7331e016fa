//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/etherfi-protocol/cash-safe/internal/adapters"
	"github.com/etherfi-protocol/cash-safe/internal/config"
	domainconfig "github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/logging"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		UseCaseSet,

		// App
		NewApp,
	)
	return nil, nil
}

// InitAppWithConfig wires an App around a resolved configuration, clock and logger
func InitAppWithConfig(cfg *domainconfig.RuntimeConfig, clock usecase.Clock, logger *slog.Logger) (*App, error) {
	wire.Build(
		adapters.ServiceSet,
		UseCaseSet,
		NewApp,
	)
	return nil, nil
}
