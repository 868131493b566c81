package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	API       APIConfig       `mapstructure:"api"`
	Store     StoreConfig     `mapstructure:"store"`
	Search    SearchConfig    `mapstructure:"search"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type section interface {
	validate() error
	bindEnvironmentVariables(v *viper.Viper) error
	setDefaults(v *viper.Viper)
}

const defaultConfigFile = "./configs/config.yaml"

// Path returns the config file location, CONFIG_PATH overrides the default.
func Path() string {
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		return value
	}
	return defaultConfigFile
}

func Load(file string) (*Config, error) {

	v := viper.New()
	v.SetConfigFile(file)
	v.AutomaticEnv()

	sections := map[string]section{
		"LoggerConfig":    LoggerConfig{},
		"APIConfig":       APIConfig{},
		"StoreConfig":     StoreConfig{},
		"SearchConfig":    SearchConfig{},
		"AnalyticsConfig": AnalyticsConfig{},
		"MetricsConfig":   MetricsConfig{},
	}

	var errs []error
	for name, s := range sections {
		s.setDefaults(v)
		if err := s.bindEnvironmentVariables(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}
	if err := config.API.validate(); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}
	if err := config.Store.validate(); err != nil {
		errs = append(errs, fmt.Errorf("StoreConfig: %w", err))
	}
	if err := config.Search.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SearchConfig: %w", err))
	}
	if err := config.Analytics.validate(); err != nil {
		errs = append(errs, fmt.Errorf("AnalyticsConfig: %w", err))
	}
	if err := config.Metrics.validate(); err != nil {
		errs = append(errs, fmt.Errorf("MetricsConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func bindAll(v *viper.Viper, bindings map[string]string) error {
	var errs []error
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
