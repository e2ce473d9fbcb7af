package observability

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics exporters.
const (
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Telemetry owns the process meter provider and its exporter.
type Telemetry struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler
}

// NewTelemetry builds a meter provider for the named exporter and installs
// it as the otel global. The prometheus exporter is scraped through Handler;
// stdout pushes periodically; none keeps instruments live without export.
func NewTelemetry(exporter string) (*Telemetry, error) {
	t := &Telemetry{}

	var opts []sdkmetric.Option
	switch strings.ToLower(exporter) {
	case ExporterPrometheus, "":
		registry := promclient.NewRegistry()
		reader, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(reader))
		t.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	case ExporterStdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)))

	case ExporterNone:

	default:
		return nil, fmt.Errorf("unknown metrics exporter: %q", exporter)
	}

	t.provider = sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(t.provider)

	return t, nil
}

// Meter returns the gateway meter.
func (t *Telemetry) Meter() metric.Meter {
	return t.provider.Meter(meterName)
}

// Handler serves the prometheus scrape endpoint. It is nil for push
// exporters.
func (t *Telemetry) Handler() http.Handler {
	if t == nil {
		return nil
	}
	return t.handler
}

// Shutdown flushes pending metrics and stops the exporter.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
