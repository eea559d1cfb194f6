// Package tracing 初始化 OpenTelemetry 并提供 span 辅助函数.
//
// Example:
//
//	if err := tracing.InitTracer(cfg.Tracing); err != nil {
//		return err
//	}
//	defer tracing.ShutdownTracer(ctx)
//
//	ctx, span := tracing.StartSpan(ctx, "crud.create")
//	defer span.End()
package tracing

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/videocatalog/pkg/configs"
)

var tracerProvider *sdktrace.TracerProvider

type exporterFactory func(ctx context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error)

var exporters = map[configs.TracingExporter]exporterFactory{
	configs.ExporterOTLPHTTP: func(ctx context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error) {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	},
	configs.ExporterOTLPGRPC: func(ctx context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error) {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}

		return otlptracegrpc.New(ctx, opts...)
	},
	configs.ExporterZipkin: func(_ context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error) {
		return zipkin.New(cfg.Endpoint)
	},
}

// InitTracer 按配置安装全局 TracerProvider 与 W3C 传播器，未启用时什么都不做.
func InitTracer(cfg configs.TracingConfig) error {
	if !cfg.Enabled {
		return nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(cfg)...))
	if err != nil {
		return fmt.Errorf("tracing resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	}

	if cfg.Exporter != configs.ExporterNone {
		newExporter, ok := exporters[cfg.Exporter]
		if !ok {
			return fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
		}

		exp, err := newExporter(ctx, cfg)
		if err != nil {
			return fmt.Errorf("tracing exporter %s: %w", cfg.Exporter, err)
		}

		opts = append(opts, sdktrace.WithBatcher(exp,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithMaxExportBatchSize(cfg.MaxBatchSize),
			sdktrace.WithMaxQueueSize(cfg.MaxQueueSize),
		))
	}

	tracerProvider = sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return nil
}

func resourceAttributes(cfg configs.TracingConfig) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(configs.AppName),
		semconv.ServiceVersion(configs.AppVersion),
	}

	keys := make([]string, 0, len(cfg.Attributes))
	for k := range cfg.Attributes {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if k == string(semconv.ServiceNameKey) || k == string(semconv.ServiceVersionKey) {
			continue
		}

		attrs = append(attrs, attribute.String(k, cfg.Attributes[k]))
	}

	return attrs
}

// ShutdownTracer 刷新未导出的 span 并关闭 TracerProvider.
func ShutdownTracer(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}

	return tracerProvider.Shutdown(ctx)
}

// StartSpan 开始一个 span，调用方负责 span.End().
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(configs.AppName).Start(ctx, name, opts...)
}

// SpanError 把错误记录到 span 上，err 为 nil 时忽略.
func SpanError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
