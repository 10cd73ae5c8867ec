package tracing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nuts-foundation/charm-calculator/component"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var _ component.Lifecycle = (*Component)(nil)

const defaultServiceName = "charm-calculator"

type Config struct {
	OTLPEndpoint   string `koanf:"otlpendpoint"`
	Insecure       bool   `koanf:"insecure"`
	ServiceName    string `koanf:"servicename"`
	ServiceVersion string `koanf:"-"`
}

func DefaultConfig() Config {
	return Config{
		Insecure:    true,
		ServiceName: defaultServiceName,
	}
}

// Enabled returns true if traces and logs should be exported.
func (c Config) Enabled() bool {
	return c.OTLPEndpoint != ""
}

type Component struct {
	config        Config
	shutdownFuncs []func(context.Context) error
}

func New(cfg Config) *Component {
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	return &Component{config: cfg}
}

// Start sets up OTLP export of traces and logs. Without an endpoint it does nothing,
// in which case the global no-op tracer provider stays in place.
func (c *Component) Start() error {
	if !c.config.Enabled() {
		slog.Info("No OTLP endpoint configured, tracing disabled")
		return nil
	}
	ctx := context.Background()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(c.config.ServiceName),
			semconv.ServiceVersionKey.String(c.config.ServiceVersion),
		),
	)
	if err != nil {
		return err
	}

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(c.config.OTLPEndpoint)}
	if c.config.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return err
	}
	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	)
	// Provider shutdown also shuts down its exporter.
	c.shutdownFuncs = append(c.shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	logOpts := []otlploghttp.Option{otlploghttp.WithEndpoint(c.config.OTLPEndpoint)}
	if c.config.Insecure {
		logOpts = append(logOpts, otlploghttp.WithInsecure())
	}
	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return errors.Join(err, c.Stop(ctx))
	}
	loggerProvider := log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(logExporter)),
		log.WithResource(res),
	)
	c.shutdownFuncs = append(c.shutdownFuncs, loggerProvider.Shutdown)

	slog.SetDefault(slog.New(otelslog.NewHandler(c.config.ServiceName,
		otelslog.WithLoggerProvider(loggerProvider),
	)))
	slog.Info("OpenTelemetry tracing and logging initialized",
		slog.String("endpoint", c.config.OTLPEndpoint),
		slog.String("service", c.config.ServiceName))
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if len(c.shutdownFuncs) == 0 {
		return nil
	}
	slog.Info("Shutting down OpenTelemetry tracing")
	var errs error
	for _, fn := range c.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	c.shutdownFuncs = nil
	return errs
}

func (c *Component) RegisterHttpHandlers(_ *http.ServeMux, _ *http.ServeMux) {
	// No endpoints
}

// WrapTransport instruments outbound HTTP calls. If transport is nil, http.DefaultTransport is used.
func WrapTransport(transport http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(transport)
}
