package tracing

import (
    "context"
    "fmt"

    "go.opentelemetry.io/otel"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
    "go.opentelemetry.io/otel/propagation"
    "go.opentelemetry.io/otel/sdk/resource"
    sdktrace "go.opentelemetry.io/otel/sdk/trace"
    semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

    "github.com/bubblecrawl/ingest-gateway/config"
)

// Init 初始化 OTLP HTTP 上报；endpoint 为空时返回空关闭函数
func Init(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
    if cfg.Trace.Endpoint == "" {
        return func(context.Context) error { return nil }, nil
    }

    exp, err := otlptrace.New(ctx, otlptracehttp.NewClient(
        otlptracehttp.WithEndpoint(cfg.Trace.Endpoint),
        otlptracehttp.WithInsecure(),
    ))
    if err != nil {
        return nil, fmt.Errorf("create otlp exporter: %w", err)
    }

    res := resource.NewWithAttributes(
        semconv.SchemaURL,
        semconv.ServiceName(cfg.Trace.Service),
    )

    tp := sdktrace.NewTracerProvider(
        sdktrace.WithBatcher(exp),
        sdktrace.WithResource(res),
    )
    otel.SetTracerProvider(tp)
    otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
        propagation.TraceContext{}, propagation.Baggage{},
    ))
    return tp.Shutdown, nil
}
