package configs

import (
	"time"

	"github.com/spf13/viper"
)

// TracingExporter span 导出方式.
type TracingExporter string

const (
	ExporterOTLPHTTP TracingExporter = "otlp-http"
	ExporterOTLPGRPC TracingExporter = "otlp-grpc"
	ExporterZipkin   TracingExporter = "zipkin"
	// ExporterNone 只生成 trace_id 写入日志，不导出.
	ExporterNone TracingExporter = "none"
)

// TracingConfig OpenTelemetry 配置. 采样遵循上游 traceparent，根 span 按 SampleRate 采样.
type TracingConfig struct {
	Enabled      bool              `mapstructure:"enabled"`
	Exporter     TracingExporter   `mapstructure:"exporter"      rule:"oneof=otlp-http otlp-grpc zipkin none"`
	Endpoint     string            `mapstructure:"endpoint"`
	Insecure     bool              `mapstructure:"insecure"`
	SampleRate   float64           `mapstructure:"sample_rate"   rule:"min=0,max=1"`
	BatchTimeout time.Duration     `mapstructure:"batch_timeout"`
	MaxBatchSize int               `mapstructure:"max_batch_size" rule:"min=1"`
	MaxQueueSize int               `mapstructure:"max_queue_size" rule:"gtefield=MaxBatchSize"`
	Attributes   map[string]string `mapstructure:"attributes"` // 附加到 resource 的标签
}

func (c *TracingConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", ExporterOTLPHTTP)
	v.SetDefault("tracing.endpoint", "http://localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.batch_timeout", 5*time.Second)
	v.SetDefault("tracing.max_batch_size", 512)
	v.SetDefault("tracing.max_queue_size", 2048)
}
