// Package config resolves cmd/backtest's run configuration from a YAML
// file, environment variables, and built-in defaults via viper; flag
// overrides are applied afterwards by cmd/backtest itself. The simulation
// core never imports this package or viper itself.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the fully resolved configuration for one backtest run.
type Config struct {
	Strategy    string                 `mapstructure:"strategy"`
	Params      map[string]any         `mapstructure:"params"`
	DataFile    string                 `mapstructure:"data_file"`
	Symbol      string                 `mapstructure:"symbol"`
	InitialCash float64                `mapstructure:"initial_cash"`
	RiskFree    float64                `mapstructure:"risk_free"`
	Execution   ExecutionConfig        `mapstructure:"execution"`
	RecordBars  bool                   `mapstructure:"record_bars"`
	OutputDir   string                 `mapstructure:"output_dir"`
}

// ExecutionConfig selects slippage/fee behavior for the broker's resolver.
type ExecutionConfig struct {
	SlippageBps float64 `mapstructure:"slippage_bps"`
	FeePct      float64 `mapstructure:"fee_pct"`
}

// Load resolves configuration from an optional YAML file at path, then
// environment variables prefixed BACKTEST_, with the defaults from
// setDefaults applied first.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("backtest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(".", "config"))
	}

	v.SetEnvPrefix("BACKTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("config.Load: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("strategy", "buy_and_hold")
	v.SetDefault("initial_cash", 10_000.0)
	v.SetDefault("risk_free", 0.0)
	v.SetDefault("execution.slippage_bps", 0.0)
	v.SetDefault("execution.fee_pct", 0.0)
	v.SetDefault("record_bars", false)
	v.SetDefault("output_dir", "")
}
