package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "github.com/riskibarqy/prode"

// Config controls the Prometheus exposition of metrics.
type Config struct {
	Enabled     bool
	ServiceName string
}

// Setup wires OpenTelemetry instruments to a Prometheus registry. When disabled it
// returns an in-memory recorder, a nil handler and a no-op shutdown.
func Setup(ctx context.Context, cfg Config) (*Recorder, http.Handler, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return NewRecorder(), nil, noop, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "prode-api"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, noop, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, nil, noop, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	inst, err := newOtelInstruments(ctx, provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, noop, err
	}

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return newRecorder(inst), handler, provider.Shutdown, nil
}

type otelInstruments struct {
	ctx               context.Context
	requests          metric.Int64Counter
	requestLatencyMs  metric.Float64Histogram
	providerAttempts  metric.Int64Counter
	providerErrors    metric.Int64Counter
	providerLatencyMs metric.Float64Histogram
	rateLimitHits     metric.Int64Counter
	cacheLookups      metric.Int64Counter
	breakerChanges    metric.Int64Counter
}

func newOtelInstruments(ctx context.Context, provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(meterName)
	inst := &otelInstruments{ctx: context.WithoutCancel(ctx)}

	var err error
	if inst.requests, err = meter.Int64Counter("http_requests_total"); err != nil {
		return nil, err
	}
	if inst.requestLatencyMs, err = meter.Float64Histogram("http_request_duration_ms"); err != nil {
		return nil, err
	}
	if inst.providerAttempts, err = meter.Int64Counter("provider_attempts_total"); err != nil {
		return nil, err
	}
	if inst.providerErrors, err = meter.Int64Counter("provider_errors_total"); err != nil {
		return nil, err
	}
	if inst.providerLatencyMs, err = meter.Float64Histogram("provider_duration_ms"); err != nil {
		return nil, err
	}
	if inst.rateLimitHits, err = meter.Int64Counter("provider_rate_limit_hits_total"); err != nil {
		return nil, err
	}
	if inst.cacheLookups, err = meter.Int64Counter("cache_lookups_total"); err != nil {
		return nil, err
	}
	if inst.breakerChanges, err = meter.Int64Counter("circuit_breaker_transitions_total"); err != nil {
		return nil, err
	}
	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, route string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrRoute, route),
		attribute.Int(AttrStatus, status),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
}

func (o *otelInstruments) recordProviderAttempt(provider, operation string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrOperation, operation),
	)
	o.providerAttempts.Add(o.ctx, 1, attrs)
	o.providerLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		o.providerErrors.Add(o.ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordRateLimit(provider string) {
	if o == nil {
		return
	}
	o.rateLimitHits.Add(o.ctx, 1, metric.WithAttributes(attribute.String(AttrProvider, provider)))
}

func (o *otelInstruments) recordCacheLookup(cache string, hit bool) {
	if o == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	o.cacheLookups.Add(o.ctx, 1, metric.WithAttributes(
		attribute.String(AttrCache, cache),
		attribute.String(AttrResult, result),
	))
}

func (o *otelInstruments) recordBreakerTransition(provider, state string) {
	if o == nil {
		return
	}
	o.breakerChanges.Add(o.ctx, 1, metric.WithAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrState, state),
	))
}
