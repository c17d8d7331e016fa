package config

// SafeFileConfig represents the full safe.toml configuration file
type SafeFileConfig struct {
	ChainID         *uint64                         `toml:"chain_id,omitempty"`
	DataDir         string                          `toml:"data_dir,omitempty"`
	Listen          string                          `toml:"listen,omitempty"`
	Modules         ModulesFileConfig               `toml:"modules"`
	Recovery        RecoveryFileConfig              `toml:"recovery"`
	Cash            CashFileConfig                  `toml:"cash"`
	ContractSigners map[string]ContractSignerConfig `toml:"contract_signers"`
}

// ModulesFileConfig represents the [modules] section
type ModulesFileConfig struct {
	CashModule string   `toml:"cash_module"`
	AllowList  []string `toml:"allow_list"`
}

// RecoveryFileConfig represents the [recovery] section
type RecoveryFileConfig struct {
	Delay           string   `toml:"delay,omitempty"`
	PlatformSigners []string `toml:"platform_signers"`
	Threshold       uint8    `toml:"threshold"`
}

// CashFileConfig represents the [cash] section. Limits are decimal USD strings.
type CashFileConfig struct {
	ModeDelay           string `toml:"mode_delay,omitempty"`
	WithdrawalDelay     string `toml:"withdrawal_delay,omitempty"`
	LimitDelay          string `toml:"limit_delay,omitempty"`
	DefaultDailyLimit   string `toml:"default_daily_limit,omitempty"`
	DefaultMonthlyLimit string `toml:"default_monthly_limit,omitempty"`
	TimezoneOffset      string `toml:"timezone_offset,omitempty"`
}

// ContractSignerConfig represents a [contract_signers.<address>] section
type ContractSignerConfig struct {
	Delegates []string `toml:"delegates"`
}
