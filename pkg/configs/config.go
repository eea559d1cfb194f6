// Package configs 管理应用程序配置，包括数据库、对象存储、缓存、消息队列与服务器配置.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
//
// Example accessing DB config:
//
//	dsn := configs.GetConfig().DB.GetDSN()
//	fmt.Println("DSN:", dsn)
//
// Example accessing upload limits:
//
//	limit := configs.GetConfig().Upload.VideoMaxSizeKB
//	fmt.Println("video limit (KB):", limit)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppName 应用名称，用于环境变量前缀与遥测服务名.
const AppName = "videocatalog"

// AppVersion 应用版本，构建时可通过 -ldflags 覆盖.
var AppVersion = "dev"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`          // ServerConfig 监听地址、超时等
		Log            LogConfig            `mapstructure:"log"`             // LogConfig 日志相关配置
		DB             DBConfig             `mapstructure:"db"`              // DBConfig 数据库配置
		S3             S3Config             `mapstructure:"s3"`              // S3Config 视频文件对象存储配置
		KV             KVConfig             `mapstructure:"kv"`              // KVConfig 缓存后端配置
		MQ             MQConfig             `mapstructure:"mq"`              // MQConfig 消息队列配置
		Events         EventsConfig         `mapstructure:"events"`          // EventsConfig 实体变更事件配置
		Cache          CacheConfig          `mapstructure:"cache"`           // CacheConfig 读缓存配置
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // MetricsConfig 指标配置
		Tracing        TracingConfig        `mapstructure:"tracing"`         // TracingConfig 链路追踪配置
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // RateLimitConfig 限流配置
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // CircuitBreakerConfig 熔断配置
		Upload         UploadConfig         `mapstructure:"upload"`          // UploadConfig 视频文件大小限制
		Trash          TrashConfig          `mapstructure:"trash"`           // TrashConfig 软删除数据清理
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// 找不到配置文件时使用默认值.
func InitConfig(path string) error {
	appViper = viper.New()
	// 设置默认值
	setAllDefaults(appViper)

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// 是文件，使用SetConfigFile，Viper会自动检测类型
		appViper.SetConfigFile(path)
	} else {
		// 是目录，设置配置名和路径
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.SetEnvPrefix("VIDEOCATALOG")
	appViper.AutomaticEnv()

	// 读取配置
	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 解析到全局配置
	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig   ServerConfig
		logConfig      LogConfig
		dbConfig       DBConfig
		s3Config       S3Config
		kvConfig       KVConfig
		mqConfig       MQConfig
		eventsConfig   EventsConfig
		cacheConfig    CacheConfig
		metricsConfig  MetricsConfig
		tracingConfig  TracingConfig
		rateLimit      RateLimitConfig
		circuitBreaker CircuitBreakerConfig
		uploadConfig   UploadConfig
		trashConfig    TrashConfig
	)

	serverConfig.setDefaults(v)
	logConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	s3Config.setDefaults(v)
	kvConfig.setDefaults(v)
	mqConfig.setDefaults(v)
	eventsConfig.setDefaults(v)
	cacheConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	tracingConfig.setDefaults(v)
	rateLimit.setDefaults(v)
	circuitBreaker.setDefaults(v)
	uploadConfig.setDefaults(v)
	trashConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload || v.ConfigFileUsed() == "" {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例，未初始化时返回 nil.
func GetViper() *viper.Viper {
	return appViper
}

// Defaults 返回仅包含默认值的配置，主要用于测试与命令行工具.
func Defaults() AppConfig {
	v := viper.New()
	setAllDefaults(v)

	var cfg AppConfig
	_ = v.Unmarshal(&cfg)

	return cfg
}
