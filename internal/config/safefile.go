package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/joho/godotenv"
)

// SafeFileName is the project configuration file
const SafeFileName = "safe.toml"

// Defaults applied when safe.toml omits a setting
const (
	DefaultChainID         = 1
	DefaultDataDir         = ".safe"
	DefaultListenAddr      = "127.0.0.1:8545"
	DefaultRecoveryDelay   = 72 * time.Hour
	DefaultModeDelay       = 24 * time.Hour
	DefaultWithdrawalDelay = 72 * time.Hour
	DefaultLimitDelay      = 24 * time.Hour
	DefaultDailyLimit      = "10000"
	DefaultMonthlyLimit    = "100000"
)

// DefaultCashModule is used when [modules] cash_module is unset
var DefaultCashModule = common.HexToAddress("0x000000000000000000000000000000000000ca5e")

// loadEnvFiles loads .env files for variable expansion. Missing files are skipped.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadSafeFile loads and parses safe.toml if it exists.
// Returns (nil, nil) when safe.toml does not exist.
func loadSafeFile(projectRoot string) (*config.SafeFileConfig, error) {
	path := filepath.Join(projectRoot, SafeFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.SafeFileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SafeFileName, err)
	}
	return &cfg, nil
}

// resolveSafeFile converts the raw file into runtime settings, expanding
// environment variables in every string value. A nil file yields defaults.
func resolveSafeFile(file *config.SafeFileConfig, cfg *config.RuntimeConfig) error {
	if file == nil {
		file = &config.SafeFileConfig{}
	}

	var err error
	cfg.Modules.CashModule = DefaultCashModule
	if file.Modules.CashModule != "" {
		if cfg.Modules.CashModule, err = parseAddress(file.Modules.CashModule); err != nil {
			return fmt.Errorf("modules.cash_module: %w", err)
		}
	}
	if cfg.Modules.AllowList, err = parseAddresses(file.Modules.AllowList); err != nil {
		return fmt.Errorf("modules.allow_list: %w", err)
	}

	if cfg.Recovery.Delay, err = parseDuration(file.Recovery.Delay, DefaultRecoveryDelay); err != nil {
		return fmt.Errorf("recovery.delay: %w", err)
	}
	if cfg.Recovery.PlatformSigners, err = parseAddresses(file.Recovery.PlatformSigners); err != nil {
		return fmt.Errorf("recovery.platform_signers: %w", err)
	}
	cfg.Recovery.Threshold = file.Recovery.Threshold
	if cfg.Recovery.Threshold == 0 && len(cfg.Recovery.PlatformSigners) > 0 {
		cfg.Recovery.Threshold = 1
	}

	cash := file.Cash
	if cfg.Cash.ModeDelay, err = parseDuration(cash.ModeDelay, DefaultModeDelay); err != nil {
		return fmt.Errorf("cash.mode_delay: %w", err)
	}
	if cfg.Cash.WithdrawalDelay, err = parseDuration(cash.WithdrawalDelay, DefaultWithdrawalDelay); err != nil {
		return fmt.Errorf("cash.withdrawal_delay: %w", err)
	}
	if cfg.Cash.LimitDelay, err = parseDuration(cash.LimitDelay, DefaultLimitDelay); err != nil {
		return fmt.Errorf("cash.limit_delay: %w", err)
	}
	if cfg.Cash.TimezoneOffset, err = parseDuration(cash.TimezoneOffset, 0); err != nil {
		return fmt.Errorf("cash.timezone_offset: %w", err)
	}
	if cfg.Cash.DefaultDailyLimit, err = models.ParseUSD(orDefault(cash.DefaultDailyLimit, DefaultDailyLimit)); err != nil {
		return fmt.Errorf("cash.default_daily_limit: %w", err)
	}
	if cfg.Cash.DefaultMonthlyLimit, err = models.ParseUSD(orDefault(cash.DefaultMonthlyLimit, DefaultMonthlyLimit)); err != nil {
		return fmt.Errorf("cash.default_monthly_limit: %w", err)
	}

	cfg.ContractSigners = make(map[common.Address][]common.Address, len(file.ContractSigners))
	for addr, signer := range file.ContractSigners {
		contract, err := parseAddress(addr)
		if err != nil {
			return fmt.Errorf("contract_signers: %w", err)
		}
		delegates, err := parseAddresses(signer.Delegates)
		if err != nil {
			return fmt.Errorf("contract_signers.%s.delegates: %w", addr, err)
		}
		cfg.ContractSigners[contract] = delegates
	}

	return nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(os.ExpandEnv(s)); s == "" {
		return def
	}
	return s
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(os.ExpandEnv(s))
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func parseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(os.ExpandEnv(s))
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAddresses(in []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(in))
	for _, s := range in {
		a, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
