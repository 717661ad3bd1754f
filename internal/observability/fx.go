package observability

import (
	"github.com/smallbiznis/arbiter/internal/config"
	"github.com/smallbiznis/arbiter/internal/observability/metrics"
	"github.com/smallbiznis/arbiter/internal/observability/tracing"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
)

const serviceName = "arbiter"

// Version is stamped at build time via -ldflags.
var Version = "dev"

func provideTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Tracing.Enabled,
		ServiceName:      serviceName,
		ServiceVersion:   Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
		ExporterProtocol: cfg.Tracing.ExporterProtocol,
		SamplingRatio:    cfg.Tracing.SamplingRatio,
	}
}

func provideMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
	}
}

// provideMeterProvider exports OTel metrics through the default Prometheus
// registry so everything lands on one /metrics endpoint.
func provideMeterProvider() (metric.MeterProvider, error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)), nil
}

var Module = fx.Module("observability",
	fx.Provide(provideTracingConfig),
	fx.Provide(provideMetricsConfig),
	fx.Provide(provideMeterProvider),
	fx.Provide(tracing.NewProvider),
	fx.Provide(metrics.NewHTTPMetrics),
	fx.Provide(metrics.CaseWithConfig),
)
