package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	Token             string  `mapstructure:"token"`
	RequestsPerSecond float32 `mapstructure:"requests_per_second" validate:"gte=0"`
	PageSize          int     `mapstructure:"page_size" validate:"gte=1,lte=1000"`
	MaxPages          int     `mapstructure:"max_pages" validate:"gte=1"`
}

func (config APIConfig) validate() error {
	return validator.New().Struct(config)
}

func (config APIConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("api.requests_per_second", 5)
	v.SetDefault("api.page_size", 100)
	v.SetDefault("api.max_pages", 50)
}

func (config APIConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"api.base_url": "API_BASE_URL",
		"api.token":    "API_TOKEN",
	})
}
