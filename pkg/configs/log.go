package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLogEnableFile    = false                   // 是否同时写入日志文件
	DefaultLogFilePath      = "logs/videocatalog.log" // 日志文件路径
	DefaultLogMaxSize       = 100                     // 单个日志文件最大尺寸（MB）
	DefaultLogMaxBackups    = 7                       // 保留的历史文件数量
	DefaultLogMaxAge        = 28                      // 历史文件保留天数
	DefaultLogCompress      = true                    // 压缩历史文件
	DefaultLogLevel         = "info"                  // 日志级别
	DefaultLogFormat        = "console"               // console 或 json
	DefaultLogSlowThreshold = 200 * time.Millisecond  // gorm 慢查询阈值
)

type (
	// LogConfig 日志相关配置.
	LogConfig struct {
		EnableFile    bool          `mapstructure:"enable_file"`
		FilePath      string        `mapstructure:"file_path"`
		MaxSize       int           `mapstructure:"max_size_mb"    rule:"min=1"`
		MaxBackups    int           `mapstructure:"max_backups"    rule:"min=0"`
		MaxAge        int           `mapstructure:"max_age_days"   rule:"min=0"`
		Compress      bool          `mapstructure:"compress"`
		Level         string        `mapstructure:"level"          rule:"oneof=trace debug info warn error fatal panic disabled"`
		Format        string        `mapstructure:"format"         rule:"oneof=console json"`
		SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	}
)

func (l *LogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("log.enable_file", DefaultLogEnableFile)
	v.SetDefault("log.file_path", DefaultLogFilePath)
	v.SetDefault("log.max_size_mb", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age_days", DefaultLogMaxAge)
	v.SetDefault("log.compress", DefaultLogCompress)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.slow_threshold", DefaultLogSlowThreshold)
}
