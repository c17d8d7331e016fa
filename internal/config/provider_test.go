package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSafeToml = `
chain_id = 10
data_dir = "state"

[modules]
cash_module = "0x00000000000000000000000000000000000c0ffe"
allow_list = ["0x0000000000000000000000000000000000000001"]

[recovery]
delay = "48h"
platform_signers = ["${PLATFORM_SIGNER}", "0x0000000000000000000000000000000000000003"]
threshold = 2

[cash]
mode_delay = "1h"
default_daily_limit = "2500.50"
default_monthly_limit = "10000"
timezone_offset = "-5h"

[contract_signers.0x00000000000000000000000000000000000000cc]
delegates = ["0x00000000000000000000000000000000000000dd"]
`

func writeSafeToml(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SafeFileName), []byte(content), 0644))
}

func TestProvider(t *testing.T) {
	t.Run("defaults without safe.toml", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Provider(SetupViper(dir))
		require.NoError(t, err)

		assert.Equal(t, uint64(DefaultChainID), cfg.ChainID)
		assert.Equal(t, filepath.Join(dir, DefaultDataDir), cfg.DataDir)
		assert.Empty(t, cfg.ConfigSource)
		assert.Equal(t, DefaultCashModule, cfg.Modules.CashModule)
		assert.Equal(t, DefaultRecoveryDelay, cfg.Recovery.Delay)
		assert.Equal(t, uint64(10_000_000_000), cfg.Cash.DefaultDailyLimit)
		assert.Equal(t, time.Minute, cfg.Timeout)
	})

	t.Run("reads safe.toml with env expansion", func(t *testing.T) {
		dir := t.TempDir()
		writeSafeToml(t, dir, sampleSafeToml)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("PLATFORM_SIGNER=0x0000000000000000000000000000000000000002\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("PLATFORM_SIGNER") })

		cfg, err := Provider(SetupViper(dir))
		require.NoError(t, err)

		assert.Equal(t, uint64(10), cfg.ChainID)
		assert.Equal(t, filepath.Join(dir, "state"), cfg.DataDir)
		assert.Equal(t, common.HexToAddress("0xc0ffe"), cfg.Modules.CashModule)
		assert.Equal(t, []common.Address{common.HexToAddress("0x01")}, cfg.Modules.AllowList)
		assert.Equal(t, 48*time.Hour, cfg.Recovery.Delay)
		assert.Equal(t, []common.Address{common.HexToAddress("0x02"), common.HexToAddress("0x03")}, cfg.Recovery.PlatformSigners)
		assert.Equal(t, uint8(2), cfg.Recovery.Threshold)
		assert.Equal(t, time.Hour, cfg.Cash.ModeDelay)
		assert.Equal(t, DefaultWithdrawalDelay, cfg.Cash.WithdrawalDelay)
		assert.Equal(t, uint64(2_500_500_000), cfg.Cash.DefaultDailyLimit)
		assert.Equal(t, -5*time.Hour, cfg.Cash.TimezoneOffset)
		assert.Equal(t, []common.Address{common.HexToAddress("0xdd")}, cfg.ContractSigners[common.HexToAddress("0xcc")])
	})

	t.Run("env overrides file", func(t *testing.T) {
		dir := t.TempDir()
		writeSafeToml(t, dir, "chain_id = 10\n")
		t.Setenv("SAFE_CHAIN_ID", "8453")

		cfg, err := Provider(SetupViper(dir))
		require.NoError(t, err)
		assert.Equal(t, uint64(8453), cfg.ChainID)
	})

	t.Run("invalid address", func(t *testing.T) {
		dir := t.TempDir()
		writeSafeToml(t, dir, "[modules]\nallow_list = [\"not-an-address\"]\n")

		_, err := Provider(SetupViper(dir))
		assert.ErrorContains(t, err, "modules.allow_list")
	})

	t.Run("invalid limit", func(t *testing.T) {
		dir := t.TempDir()
		writeSafeToml(t, dir, "[cash]\ndefault_daily_limit = \"lots\"\n")

		_, err := Provider(SetupViper(dir))
		assert.ErrorContains(t, err, "cash.default_daily_limit")
	})

	t.Run("malformed toml", func(t *testing.T) {
		dir := t.TempDir()
		writeSafeToml(t, dir, "chain_id = [")

		_, err := Provider(SetupViper(dir))
		assert.ErrorContains(t, err, "failed to parse safe.toml")
	})
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeSafeToml(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	got, err := filepath.EvalSymlinks(FindProjectRoot())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBuildInfo(t *testing.T) {
	defer SetBuildFlags(Version, Commit, Date)

	SetBuildFlags("dev", "unknown", "unknown")
	assert.Empty(t, BuildInfo())

	SetBuildFlags("v0.3.1", "a1b2c3d", "unknown")
	assert.Equal(t, "commit a1b2c3d", BuildInfo())

	SetBuildFlags("v0.3.1", "a1b2c3d", "2024-07-01")
	assert.Equal(t, "commit a1b2c3d, built 2024-07-01", BuildInfo())
}
