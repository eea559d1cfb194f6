package configs

import (
	"time"

	"github.com/spf13/viper"
)

// ServerConfig HTTP 服务配置. PerPage 与 MaxPerPage 约束所有列表接口的分页.
type ServerConfig struct {
	Host         string `mapstructure:"host"          rule:"ip"`
	Port         int    `mapstructure:"port"          rule:"min=1,max=65535"`
	Debug        bool   `mapstructure:"debug"`
	ReloadConfig bool   `mapstructure:"reload_config"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" rule:"min=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"    rule:"min=0"`

	PerPage    int `mapstructure:"per_page"     rule:"min=1,ltefield=MaxPerPage"`
	MaxPerPage int `mapstructure:"max_per_page" rule:"min=1"`

	CORSOrigins []string `mapstructure:"cors_origins"`
	Gzip        bool     `mapstructure:"gzip"`
	Swagger     bool     `mapstructure:"swagger"`
}

func (s *ServerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.reload_config", true)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.per_page", 15)
	v.SetDefault("server.max_per_page", 100)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.gzip", true)
	v.SetDefault("server.swagger", true)
}
