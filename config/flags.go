package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// All constant strings are used for CLI flag names. The keys of the corresponding config values
	// are listed in flagKeys.
	configFile      = "config"
	capacity        = "capacity"
	logLevel        = "log-level"
	shutdownTimeout = "shutdown-timeout"
	// metrics server
	metricsEnabled   = "metrics-enabled"
	metricsPort      = "metrics-port"
	metricsNamespace = "metrics-namespace"
)

// flagKeys maps every flag overriding a config value to the full key of that value.
var flagKeys = map[string]string{
	capacity:         "capacity",
	logLevel:         "log-level",
	shutdownTimeout:  "shutdown-timeout",
	metricsEnabled:   "metrics.enabled",
	metricsPort:      "metrics.port",
	metricsNamespace: "metrics.namespace",
}

func AllFlagNames() []string {
	return []string{capacity, logLevel, shutdownTimeout, metricsEnabled, metricsPort, metricsNamespace}
}

// InitializePFlagSet registers the flags overriding the configuration on the provided pflag set.
// Args:
//
//	*pflag.FlagSet: the flag set of the command.
//	*Config: the default config used to set default values on the flags.
func InitializePFlagSet(flags *pflag.FlagSet, config *Config) {
	flags.String(configFile, "", "path of a YAML file overriding the default configuration")
	flags.Uint32(capacity, config.Capacity, "number of slots of the pool")
	flags.String(logLevel, config.LogLevel, "log level: trace, debug, info, warn, error, fatal, panic or disabled")
	flags.Duration(shutdownTimeout, config.ShutdownTimeout, "how long the metrics server is given to drain on shutdown")
	flags.Bool(metricsEnabled, config.Metrics.Enabled, "serve prometheus metrics over http")
	flags.Uint(metricsPort, config.Metrics.Port, "port of the metrics server")
	flags.String(metricsNamespace, config.Metrics.Namespace, "namespace of the exported metrics")
}

// ConfigFilePath returns the value of the config file flag, or an empty string when the flag is
// not registered on the flag set.
func ConfigFilePath(flags *pflag.FlagSet) string {
	f := flags.Lookup(configFile)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// bindPFlags binds each registered override flag to its config key, so that a flag set on the
// command line takes precedence over every other source.
// Returns:
// error: if a flag has no corresponding key in the viper store.
func bindPFlags(conf *viper.Viper, flags *pflag.FlagSet) error {
	for _, flagName := range AllFlagNames() {
		f := flags.Lookup(flagName)
		if f == nil {
			continue
		}
		key := flagKeys[flagName]
		if !conf.IsSet(key) {
			return fmt.Errorf("configuration key %s of flag %s missing from the default config", key, flagName)
		}
		if err := conf.BindPFlag(key, f); err != nil {
			return fmt.Errorf("could not bind flag %s to %s: %w", flagName, key, err)
		}
	}
	return nil
}
