package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix scopes environment overrides, e.g. ODATAPARSE_PRETTY=true.
const envPrefix = "ODATAPARSE"

// Config holds the CLI settings after flags, environment and defaults are merged.
type Config struct {
	Pretty      bool   `mapstructure:"pretty"`
	StrictArity bool   `mapstructure:"strict-arity"`
	Decode      bool   `mapstructure:"decode"`
	LogLevel    string `mapstructure:"log-level"`
	CacheSize   int    `mapstructure:"cache-size"`
}

// LoadConfig merges flags over ODATAPARSE_* environment variables over defaults.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pretty", false)
	v.SetDefault("strict-arity", false)
	v.SetDefault("decode", false)
	v.SetDefault("log-level", "warn")
	v.SetDefault("cache-size", 0)
}

// Level maps LogLevel onto a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
