package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	duesGenerations    metric.Int64Counter
	duesCreated        metric.Int64Counter
	paymentsRegistered metric.Int64Counter
	overdueMarked      metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "club-backoffice"
	}
	meter := provider.Meter(name)

	duesGenerations, err := meter.Int64Counter("club_dues_generations_total")
	if err != nil {
		return nil, err
	}
	duesCreated, err := meter.Int64Counter("club_dues_created_total")
	if err != nil {
		return nil, err
	}
	paymentsRegistered, err := meter.Int64Counter("club_payments_registered_total")
	if err != nil {
		return nil, err
	}
	overdueMarked, err := meter.Int64Counter("club_dues_overdue_marked_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		duesGenerations:    duesGenerations,
		duesCreated:        duesCreated,
		paymentsRegistered: paymentsRegistered,
		overdueMarked:      overdueMarked,
	}, nil
}

func (m *Metrics) IncGeneration(ctx context.Context, status string) {
	if m == nil || m.duesGenerations == nil {
		return
	}
	m.duesGenerations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) AddDuesCreated(ctx context.Context, n int64) {
	if m == nil || m.duesCreated == nil {
		return
	}
	m.duesCreated.Add(ctx, n)
}

func (m *Metrics) IncPaymentRegistered(ctx context.Context) {
	if m == nil || m.paymentsRegistered == nil {
		return
	}
	m.paymentsRegistered.Add(ctx, 1)
}

func (m *Metrics) AddOverdueMarked(ctx context.Context, n int64) {
	if m == nil || m.overdueMarked == nil {
		return
	}
	m.overdueMarked.Add(ctx, n)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
