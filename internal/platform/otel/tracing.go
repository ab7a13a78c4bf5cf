package otel

import (
	"context"
	"errors"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// ShutdownFunc flushes pending spans and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Config controls the span exporter.
type Config struct {
	ServiceName string
	Version     string
	// Writer receives exported spans. Defaults to stderr.
	Writer      io.Writer
	PrettyPrint bool
}

// InitTracer sets up the global OpenTelemetry tracer provider backed by a
// stdout exporter. The returned ShutdownFunc must be called on exit.
func InitTracer(ctx context.Context, cfg Config, logger *zap.Logger) (ShutdownFunc, error) {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, err
	}

	// Not merged with resource.Default() to avoid schema URL conflicts.
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("OpenTelemetry tracer initialized", zap.String("service", cfg.ServiceName))

	return tp.Shutdown, nil
}
