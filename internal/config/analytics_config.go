package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type AnalyticsConfig struct {
	SnapshotDays     int    `mapstructure:"snapshot_days"`
	SnapshotSchedule string `mapstructure:"snapshot_schedule"`
	RetentionDays    int    `mapstructure:"retention_days"`
}

func (config AnalyticsConfig) validate() error {
	if config.SnapshotDays < 1 {
		return fmt.Errorf("snapshot_days must be at least 1")
	}
	if config.RetentionDays < config.SnapshotDays {
		return fmt.Errorf("retention_days can't be shorter than snapshot_days")
	}
	if _, err := cron.ParseStandard(config.SnapshotSchedule); err != nil {
		return fmt.Errorf("invalid snapshot_schedule: %w", err)
	}
	return nil
}

func (config AnalyticsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("analytics.snapshot_days", 30)
	v.SetDefault("analytics.snapshot_schedule", "@every 1h")
	v.SetDefault("analytics.retention_days", 90)
}

func (config AnalyticsConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("analytics.snapshot_schedule", "SNAPSHOT_SCHEDULE")
}
