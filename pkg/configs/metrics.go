// Package configs 管理应用程序配置，包括 Metrics 的配置信息.
//
// Example:
//
//	if configs.GetConfig().Metrics.Enabled {
//		metrics.InitMetrics()
//	}
package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Metrics 相关配置.
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`         // 是否启用 Metrics
	ServiceName    string            `mapstructure:"service_name"`    // 服务名称
	ServiceVersion string            `mapstructure:"service_version"` // 服务版本
	Namespace      string            `mapstructure:"namespace"`       // 指标名前缀
	Endpoint       string            `mapstructure:"endpoint"`        // 独立指标服务监听地址，为空则挂在主服务 /metrics
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"` // 是否收集 Go 运行时指标
	DBMetrics      bool              `mapstructure:"db_metrics"`      // 是否启用 gorm 连接池指标
	Labels         map[string]string `mapstructure:"labels"`          // 默认标签
}

// setDefaults 设置 Metrics 配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.service_name", AppName)
	v.SetDefault("metrics.service_version", AppVersion)
	v.SetDefault("metrics.namespace", AppName)
	v.SetDefault("metrics.endpoint", ":9090")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.db_metrics", true)
	v.SetDefault("metrics.labels", map[string]string{
		"service": AppName,
	})
}
