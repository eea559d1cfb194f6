package configs

import "github.com/spf13/viper"

// EventsConfig 控制实体变更事件的发布（全局与分动作开关）.
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // 总开关
	Entity  EntityEventsConfig `mapstructure:"entity"`
}

// EntityEventsConfig 针对分类、类型、演职人员与视频的事件开关.
type EntityEventsConfig struct {
	Created bool `mapstructure:"created"`
	Updated bool `mapstructure:"updated"`
	Deleted bool `mapstructure:"deleted"`
	Purged  bool `mapstructure:"purged"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", false)

	v.SetDefault("events.entity.created", true)
	v.SetDefault("events.entity.updated", true)
	v.SetDefault("events.entity.deleted", true)
	v.SetDefault("events.entity.purged", false)
}
