package configs

import "github.com/spf13/viper"

// TrashConfig 软删除数据的定期清理.
type TrashConfig struct {
	PurgeEnabled  bool   `mapstructure:"purge_enabled"`
	RetentionDays int    `mapstructure:"retention_days" rule:"min=1"`
	Cron          string `mapstructure:"cron"`
	BatchSize     int    `mapstructure:"batch_size"     rule:"min=1"`
}

func (c *TrashConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("trash.purge_enabled", true)
	v.SetDefault("trash.retention_days", 30)
	v.SetDefault("trash.cron", "0 3 * * *")
	v.SetDefault("trash.batch_size", 500)
}
