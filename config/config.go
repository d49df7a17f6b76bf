package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SLOTPOOL"

//go:embed default-config.yml
var defaultConfig []byte

// Config is the configuration of the slot pool command line driver.
type Config struct {
	// Capacity is the number of slots of the pool.
	Capacity uint32 `validate:"gte=1,lte=1048576" mapstructure:"capacity"`
	// LogLevel is parsed with zerolog.ParseLevel.
	LogLevel        string        `validate:"oneof=trace debug info warn error fatal panic disabled" mapstructure:"log-level"`
	ShutdownTimeout time.Duration `validate:"gt=0" mapstructure:"shutdown-timeout"`
	Metrics         MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig configures the prometheus metrics server.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      uint   `validate:"gte=1,lte=65535" mapstructure:"port"`
	Namespace string `validate:"required" mapstructure:"namespace"`
}

// Validate checks the configuration values against their allowed ranges.
// Expected errors during normal operations:
//   - InvalidConfigError if any value is out of range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return NewInvalidConfigError(err)
	}
	return nil
}

// DefaultConfig returns the configuration embedded in the binary, ignoring the environment.
func DefaultConfig() (*Config, error) {
	conf, err := defaultStore()
	if err != nil {
		return nil, err
	}
	return decode(conf)
}

// Load builds the configuration from, in increasing order of precedence: the embedded defaults,
// the YAML file at path (skipped when empty), SLOTPOOL_ prefixed environment variables and the
// flags of the flag set that were set on the command line (skipped when nil).
// Expected errors during normal operations:
//   - InvalidConfigError if the resulting configuration does not validate.
//   - any error reading the config file or decoding a value.
func Load(flags *pflag.FlagSet, path string) (*Config, error) {
	conf, err := defaultStore()
	if err != nil {
		return nil, err
	}

	if path != "" {
		conf.SetConfigFile(path)
		if err := conf.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}

	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	conf.AutomaticEnv()

	if flags != nil {
		if err := bindPFlags(conf, flags); err != nil {
			return nil, err
		}
	}

	return decode(conf)
}

// defaultStore returns a viper store holding the embedded defaults.
func defaultStore() (*viper.Viper, error) {
	conf := viper.New()
	conf.SetConfigType("yaml")
	if err := conf.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, fmt.Errorf("could not read default config: %w", err)
	}
	return conf, nil
}

// decode unmarshals the store into a Config and validates it.
func decode(conf *viper.Viper) (*Config, error) {
	var c Config
	err := conf.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}
