package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func (config MetricsConfig) validate() error {
	if config.Enabled && config.Address == "" {
		return fmt.Errorf("missing variable: address")
	}
	return nil
}

func (config MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.address", ":8080")
}

func (config MetricsConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("metrics.address", "METRICS_ADDRESS")
}
