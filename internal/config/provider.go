package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	loadEnvFiles(projectRoot)

	file, err := loadSafeFile(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ChainID:        DefaultChainID,
		DataDir:        DefaultDataDir,
		ListenAddr:     DefaultListenAddr,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
	}

	// precedence: flags and SAFE_ env, then safe.toml, then defaults
	if file != nil {
		cfg.ConfigSource = filepath.Join(projectRoot, SafeFileName)
		if file.ChainID != nil {
			cfg.ChainID = *file.ChainID
		}
		if file.DataDir != "" {
			cfg.DataDir = os.ExpandEnv(file.DataDir)
		}
		if file.Listen != "" {
			cfg.ListenAddr = os.ExpandEnv(file.Listen)
		}
	}
	if v.IsSet("chain_id") {
		cfg.ChainID = v.GetUint64("chain_id")
	}
	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("listen") {
		cfg.ListenAddr = v.GetString("listen")
	}
	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(projectRoot, cfg.DataDir)
	}

	if err := resolveSafeFile(file, cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SafeFileName, err)
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find safe.toml.
// Falls back to the current directory.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, SafeFileName)); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("SAFE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "1m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)

	return v
}

// BindFlags binds command flags that have been set on the command line
func BindFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})
}
