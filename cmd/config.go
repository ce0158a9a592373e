package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// SweepConfig holds default sweep settings, overridable by flags
type SweepConfig struct {
	Fill    string `mapstructure:"fill"`
	Workers int    `mapstructure:"workers"`
	DryRun  bool   `mapstructure:"dry_run"`
}

// LoadSweepConfig loads sweep defaults using Viper
func LoadSweepConfig() (*SweepConfig, error) {
	viper.SetConfigName("zerofree-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.zerofree")
	viper.AddConfigPath("/etc/zerofree")

	// Set defaults
	viper.SetDefault("fill", "0")
	viper.SetDefault("workers", 1)
	viper.SetDefault("dry_run", false)

	// Allow environment variables
	viper.SetEnvPrefix("ZEROFREE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config SweepConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// parseFillValue parses a fill byte argument. Base prefixes are honored, so
// 0, 0xff and 0o377 are all accepted; values above 255 are rejected.
func parseFillValue(s string) (byte, error) {
	if s == "" {
		return 0, fmt.Errorf("fill value cannot be empty")
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid fill value %q: %w", s, err)
	}
	if v > 0xFF {
		return 0, fmt.Errorf("fill value must be 0-255, got %d", v)
	}
	return byte(v), nil
}
