package util

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer trace.Tracer

// InitTracer installs a global tracer provider for serviceName. Spans go to
// the Jaeger collector at jaegerEndpoint; with an empty endpoint they are
// recorded but not exported, which is what local runs and tests use.
// The caller owns the returned provider and must Shutdown it to flush.
func InitTracer(serviceName, jaegerEndpoint string) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}
	if jaegerEndpoint != "" {
		exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(appName)

	GetLogger().Info("Tracing enabled",
		zap.String("service", serviceName),
		zap.Bool("exporting", jaegerEndpoint != ""),
		zap.String("endpoint", jaegerEndpoint))
	return tp, nil
}

// GetTracer returns the app tracer, falling back to the global provider
// (no-op until InitTracer runs).
func GetTracer() trace.Tracer {
	if tracer == nil {
		return otel.Tracer(appName)
	}
	return tracer
}

// StartSpan starts a span named after the operation, e.g. "OrderService.CreateOrder".
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, spanName)
}
