// Package config layers file, environment, and flag configuration on top
// of built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shopspring/decimal"

	"github.com/spendify/spendify/internal/extraction"
	"github.com/spendify/spendify/internal/forecast"
)

// Config holds everything tunable about the analysis pipeline.
type Config struct {
	Normalize NormalizeConfig `mapstructure:"normalize"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	Classify  ClassifyConfig  `mapstructure:"classify"`
}

type NormalizeConfig struct {
	// BalanceTolerance is the maximum drift allowed between a stated
	// closing balance and the running total, in currency units.
	BalanceTolerance float64 `mapstructure:"balance_tolerance"`
}

type ForecastConfig struct {
	MaxHorizonDays int    `mapstructure:"max_horizon_days"`
	MinHistoryDays int    `mapstructure:"min_history_days"`
	HorizonPolicy  string `mapstructure:"horizon_policy"`
	Seed           int64  `mapstructure:"seed"`
}

type ClassifyConfig struct {
	// RulesFile optionally replaces the built-in category rules.
	RulesFile string `mapstructure:"rules_file"`
}

// flagBindings maps config keys to the CLI flags that may override them.
// Only flags actually registered on the given set are bound.
var flagBindings = map[string]string{
	"normalize.balance_tolerance": "balance-tolerance",
	"forecast.horizon_policy":     "horizon-policy",
	"forecast.seed":               "seed",
	"classify.rules_file":         "rules",
}

// Build loads configuration from an optional file, SPENDIFY_* environment
// variables, and flag overrides, in increasing order of precedence.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("normalize.balance_tolerance", 0.01)
	v.SetDefault("forecast.max_horizon_days", forecast.DefaultMaxHorizonDays)
	v.SetDefault("forecast.min_history_days", forecast.DefaultMinHistoryDays)
	v.SetDefault("forecast.horizon_policy", string(forecast.HorizonReject))
	v.SetDefault("forecast.seed", forecast.DefaultSeed)
	v.SetDefault("classify.rules_file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("spendify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/spendify")
	}

	v.SetEnvPrefix("SPENDIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing implicit config file is fine, defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	switch forecast.HorizonPolicy(cfg.Forecast.HorizonPolicy) {
	case forecast.HorizonReject, forecast.HorizonClamp:
	default:
		return nil, fmt.Errorf("invalid horizon policy %q, want %q or %q",
			cfg.Forecast.HorizonPolicy, forecast.HorizonReject, forecast.HorizonClamp)
	}

	return &cfg, nil
}

// NormalizeOptions converts the config into normalizer options.
func (c *Config) NormalizeOptions() extraction.NormalizeOptions {
	return extraction.NormalizeOptions{
		BalanceTolerance: decimal.NewFromFloat(c.Normalize.BalanceTolerance),
	}
}

// ForecastOptions converts the config into forecast options.
func (c *Config) ForecastOptions() forecast.Options {
	return forecast.Options{
		MaxHorizonDays: c.Forecast.MaxHorizonDays,
		MinHistoryDays: c.Forecast.MinHistoryDays,
		Policy:         forecast.HorizonPolicy(c.Forecast.HorizonPolicy),
		Seed:           c.Forecast.Seed,
	}
}
