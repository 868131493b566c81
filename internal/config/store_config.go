package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type StoreDriver string

const (
	DriverMemory StoreDriver = "memory"
	DriverSqlite StoreDriver = "sqlite"
	DriverRedis  StoreDriver = "redis"
)

type StoreConfig struct {
	Driver           StoreDriver `mapstructure:"driver"`
	ConnectionString string      `mapstructure:"connection_string"`
	RedisURL         string      `mapstructure:"redis_url"`
	KeyPrefix        string      `mapstructure:"key_prefix"`
}

func (config StoreConfig) validate() error {
	switch config.Driver {
	case DriverMemory:
		return nil
	case DriverSqlite:
		if config.ConnectionString == "" {
			return fmt.Errorf("missing variable: connection_string")
		}
		return nil
	case DriverRedis:
		if config.RedisURL == "" {
			return fmt.Errorf("missing variable: redis_url")
		}
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", config.Driver)
	}
}

func (config StoreConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.key_prefix", "radar:")
}

func (config StoreConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"store.driver":            "STORE_DRIVER",
		"store.connection_string": "DB_CONNECTION_STRING",
		"store.redis_url":         "REDIS_URL",
	})
}
