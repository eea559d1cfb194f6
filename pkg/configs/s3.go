package configs

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// S3Config MinIO S3 存储配置，用于保存视频的缩略图、横幅、预告片与正片文件.
type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"          rule:"required_if=Enabled true"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"       rule:"required_if=Enabled true"`
	Region          string `mapstructure:"region"`
	// PublicURL 对外访问的基础地址，为空时使用 Endpoint.
	PublicURL string `mapstructure:"public_url"`
	// Prefix 所有视频文件对象键的公共前缀.
	Prefix string `mapstructure:"prefix"`
}

const (
	DefaultS3Enabled         = false            // 默认关闭，开启后才连接 MinIO
	DefaultS3Endpoint        = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL          = false            // 默认是否使用SSL
	DefaultS3BucketName      = "videocatalog"   // 默认存储桶名称
	DefaultS3Region          = "us-east-1"      // 默认区域
	DefaultS3Prefix          = "videos"         // 默认对象键前缀
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// GetPublicBaseURL 返回对象的公开访问前缀，形如 http://host:9000/bucket.
func (c *S3Config) GetPublicBaseURL() string {
	base := c.PublicURL
	if base == "" {
		base = c.GetEndpointURL()
	}

	return strings.TrimRight(base, "/") + "/" + c.BucketName
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.enabled", DefaultS3Enabled)
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.public_url", "")
	v.SetDefault("s3.prefix", DefaultS3Prefix)
}
