package configs

import "github.com/spf13/viper"

// 视频文件大小上限（KB）.
const (
	DefaultThumbMaxSizeKB   = 1024 * 5                // 5MB
	DefaultBannerMaxSizeKB  = 1024 * 10               // 10MB
	DefaultTrailerMaxSizeKB = 1024 * 1024 * 1         // 1GB
	DefaultVideoMaxSizeKB   = 1024 * 1024 * 50        // 50GB
	DefaultMultipartMemory  = 32 << 20                // multipart 表单驻留内存上限
	DefaultMaxRequestBytes  = 51 * 1024 * 1024 * 1024 // 请求体上限，略大于正片上限
)

// UploadConfig 视频文件上传限制.
type UploadConfig struct {
	ThumbMaxSizeKB   int64 `mapstructure:"thumb_max_size_kb"   rule:"min=1"`
	BannerMaxSizeKB  int64 `mapstructure:"banner_max_size_kb"  rule:"min=1"`
	TrailerMaxSizeKB int64 `mapstructure:"trailer_max_size_kb" rule:"min=1"`
	VideoMaxSizeKB   int64 `mapstructure:"video_max_size_kb"   rule:"min=1"`
	MultipartMemory  int64 `mapstructure:"multipart_memory"    rule:"min=1"`
	MaxRequestBytes  int64 `mapstructure:"max_request_bytes"   rule:"min=1"`
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.thumb_max_size_kb", DefaultThumbMaxSizeKB)
	v.SetDefault("upload.banner_max_size_kb", DefaultBannerMaxSizeKB)
	v.SetDefault("upload.trailer_max_size_kb", DefaultTrailerMaxSizeKB)
	v.SetDefault("upload.video_max_size_kb", DefaultVideoMaxSizeKB)
	v.SetDefault("upload.multipart_memory", DefaultMultipartMemory)
	v.SetDefault("upload.max_request_bytes", int64(DefaultMaxRequestBytes))
}
