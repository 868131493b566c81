package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type SearchConfig struct {
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CacheMaxEntries    int           `mapstructure:"cache_max_entries"`
	Debounce           time.Duration `mapstructure:"debounce"`
	MinQueryLength     int           `mapstructure:"min_query_length"`
	MaxOpportunities   int           `mapstructure:"max_opportunities"`
	MaxKeywordSearches int           `mapstructure:"max_keyword_searches"`
	FetchLimit         int           `mapstructure:"fetch_limit"`
}

func (config SearchConfig) validate() error {
	var errs []error

	if config.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must be positive"))
	}
	if config.CacheMaxEntries < 1 {
		errs = append(errs, fmt.Errorf("cache_max_entries must be at least 1"))
	}
	if config.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce can't be negative"))
	}
	if config.MaxOpportunities < 1 || config.MaxKeywordSearches < 1 || config.FetchLimit < 1 {
		errs = append(errs, fmt.Errorf("result limits must be at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}
	return nil
}

func (config SearchConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("search.cache_ttl", 5*time.Minute)
	v.SetDefault("search.cache_max_entries", 10)
	v.SetDefault("search.debounce", 300*time.Millisecond)
	v.SetDefault("search.min_query_length", 2)
	v.SetDefault("search.max_opportunities", 10)
	v.SetDefault("search.max_keyword_searches", 5)
	v.SetDefault("search.fetch_limit", 100)
}

func (config SearchConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"search.cache_ttl": "SEARCH_CACHE_TTL",
		"search.debounce":  "SEARCH_DEBOUNCE",
	})
}
