package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/gostream/logger"
	"github.com/kbukum/gostream/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// Enabled turns on OTLP export. When false no provider is installed.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Get().Short(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for stream evaluations.
type Metrics struct {
	evaluations metric.Int64Counter
	duration    metric.Float64Histogram
	active      metric.Int64UpDownCounter
	leaves      metric.Int64Counter
	errors      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	evaluations, err := meter.Int64Counter("stream.evaluations",
		metric.WithDescription("Total number of terminal evaluations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.evaluations counter: %w", err)
	}

	duration, err := meter.Float64Histogram("stream.evaluation.duration",
		metric.WithDescription("Duration of terminal evaluations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.evaluation.duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter("stream.evaluations.active",
		metric.WithDescription("Number of evaluations currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.evaluations.active gauge: %w", err)
	}

	leaves, err := meter.Int64Counter("stream.leaf_tasks",
		metric.WithDescription("Leaf tasks executed by parallel evaluations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.leaf_tasks counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("stream.errors",
		metric.WithDescription("Failed evaluations by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.errors counter: %w", err)
	}

	return &Metrics{
		evaluations: evaluations,
		duration:    duration,
		active:      active,
		leaves:      leaves,
		errors:      errorTotal,
	}, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments registered on the global meter
// provider. Instruments created before InitMeter are delegated once a real
// provider is installed.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(Meter(defaultTracerName))
		if err != nil {
			logger.WithComponent("observability").Warn("metrics disabled", logger.Fields("error", err.Error()))
			return
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordStart increments the active evaluation count.
func (m *Metrics) RecordStart(ctx context.Context) {
	m.active.Add(ctx, 1)
}

// RecordEnd decrements active evaluations and records the completed one.
func (m *Metrics) RecordEnd(ctx context.Context, op, mode, status string, duration time.Duration) {
	m.active.Add(ctx, -1)
	m.evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("mode", mode),
	))
}

// RecordLeaves adds the number of leaf tasks a parallel evaluation ran.
func (m *Metrics) RecordLeaves(ctx context.Context, op string, n int64) {
	if n <= 0 {
		return
	}
	m.leaves.Add(ctx, n, metric.WithAttributes(attribute.String("op", op)))
}

// RecordError records a failed evaluation by error code.
func (m *Metrics) RecordError(ctx context.Context, code, op string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("op", op),
	))
}
