package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider makes a Prometheus-backed MeterProvider the global one and
// returns the handler to mount on /metrics.
func InitMeterProvider(ctx context.Context, serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	res, err := newResource(ctx, serviceName, serviceVersion)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics resource: %w", err)
	}
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	mp := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(mp)
	return promhttp.Handler(), mp.Shutdown, nil
}
