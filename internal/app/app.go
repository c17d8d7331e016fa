package app

import (
	"log/slog"

	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/google/wire"
)

// UseCaseSet provides the use cases and the per-safe executor
var UseCaseSet = wire.NewSet(
	usecase.NewSafeLocks,
	usecase.NewExecutor,
	usecase.NewCreateSafe,
	usecase.NewShowSafe,
	usecase.NewListSafes,
	usecase.NewCheckModule,
	usecase.NewCheckSpending,
	usecase.NewComputeDigest,
	usecase.NewSignOperation,
	usecase.NewExecuteOperation,
	usecase.NewSettleSpend,
	usecase.NewProcessWithdrawal,
	usecase.NewManageModuleRegistry,
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Shared dependencies
	Core     *safe.Core
	Selector usecase.SafeSelector

	// Use cases
	CreateSafe        *usecase.CreateSafe
	ShowSafe          *usecase.ShowSafe
	ListSafes         *usecase.ListSafes
	CheckModule       *usecase.CheckModule
	CheckSpending     *usecase.CheckSpending
	ComputeDigest     *usecase.ComputeDigest
	SignOperation     *usecase.SignOperation
	ExecuteOperation  *usecase.ExecuteOperation
	SettleSpend       *usecase.SettleSpend
	ProcessWithdrawal *usecase.ProcessWithdrawal
	ModuleRegistry    *usecase.ManageModuleRegistry
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	core *safe.Core,
	selector usecase.SafeSelector,
	createSafe *usecase.CreateSafe,
	showSafe *usecase.ShowSafe,
	listSafes *usecase.ListSafes,
	checkModule *usecase.CheckModule,
	checkSpending *usecase.CheckSpending,
	computeDigest *usecase.ComputeDigest,
	signOperation *usecase.SignOperation,
	executeOperation *usecase.ExecuteOperation,
	settleSpend *usecase.SettleSpend,
	processWithdrawal *usecase.ProcessWithdrawal,
	moduleRegistry *usecase.ManageModuleRegistry,
) (*App, error) {
	return &App{
		Config:            cfg,
		Logger:            logger,
		Core:              core,
		Selector:          selector,
		CreateSafe:        createSafe,
		ShowSafe:          showSafe,
		ListSafes:         listSafes,
		CheckModule:       checkModule,
		CheckSpending:     checkSpending,
		ComputeDigest:     computeDigest,
		SignOperation:     signOperation,
		ExecuteOperation:  executeOperation,
		SettleSpend:       settleSpend,
		ProcessWithdrawal: processWithdrawal,
		ModuleRegistry:    moduleRegistry,
	}, nil
}
