package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/example/chainblock/pkg/transaction"
)

// ErrMissingStatus is returned when a seeded transaction has no status
var ErrMissingStatus = errors.New("transaction status is required")

// Config represents the application configuration
type Config struct {
	Log          LogConfig                 `mapstructure:"log"`
	Transactions []transaction.Transaction `mapstructure:"transactions"`
}

// LogConfig controls the logger built by the logging package
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// LoadConfig loads configuration from file and environment variables.
// Environment variables use the CHAINBLOCK_ prefix, e.g. CHAINBLOCK_LOG_LEVEL.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.SetEnvPrefix("chainblock")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	hook := viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())
	if err := v.Unmarshal(&config, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for i, tx := range config.Transactions {
		if !tx.Status.Valid() {
			return nil, fmt.Errorf("transaction %d (entry %d): %w", tx.ID, i, ErrMissingStatus)
		}
	}

	return &config, nil
}
