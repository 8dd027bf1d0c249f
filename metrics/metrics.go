// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultSearchBuckets are histogram boundaries for lookup duration in
// seconds, from one microsecond to ten milliseconds.
var DefaultSearchBuckets = []float64{0.000001, 0.0000025, 0.000005, 0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.01}

// Provider selects the metrics exporter.
type Provider string

const (
	// PrometheusProvider exports through a Prometheus registry (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider exports to an OTLP HTTP endpoint.
	OTLPProvider Provider = "otlp"
	// StdoutProvider writes metrics to stdout (development).
	StdoutProvider Provider = "stdout"
	// CustomProvider uses a caller-supplied meter provider.
	CustomProvider Provider = "custom"
)

const meterName = "rivaas.dev/dispatch"

// noopLogger discards everything.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ErrMeterProviderNil indicates that WithMeterProvider was given nil.
var ErrMeterProviderNil = errors.New("custom meter provider is nil")

// Recorder records registry measurements. It is safe for concurrent use.
type Recorder struct {
	provider       Provider
	otlpEndpoint   string
	exportInterval time.Duration
	searchBuckets  []float64
	registerGlobal bool
	serviceName    string
	logger         *slog.Logger

	meterProvider      metric.MeterProvider
	sdkProvider        *sdkmetric.MeterProvider
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler

	routesInstalled metric.Int64Counter
	sourcesLoaded   metric.Int64Counter
	routesLoaded    metric.Int64Counter
	searches        metric.Int64Counter
	searchDuration  metric.Float64Histogram
}

// New creates a Recorder. Without a provider option the Prometheus provider
// is used.
//
// Errors:
//   - Returns [ErrMeterProviderNil] if WithMeterProvider was given nil
//   - Returns error if the exporter or an instrument cannot be created
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:       PrometheusProvider,
		exportInterval: 30 * time.Second,
		searchBuckets:  DefaultSearchBuckets,
		serviceName:    "dispatch",
		logger:         noopLogger,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.initializeProvider(); err != nil {
		return nil, err
	}
	if err := r.initializeInstruments(); err != nil {
		return nil, err
	}

	r.logger.Debug("metrics recorder ready", "provider", r.provider, "service", r.serviceName)
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

// Provider returns the configured provider.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// Handler returns the Prometheus scrape handler, or nil for other providers.
func (r *Recorder) Handler() http.Handler {
	return r.prometheusHandler
}

// Shutdown flushes and stops a provider created by the Recorder. A custom
// meter provider is left to its owner.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}
	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}

func (r *Recorder) initializeInstruments() error {
	meter := r.meterProvider.Meter(meterName)

	var err error
	if r.routesInstalled, err = meter.Int64Counter("dispatch.routes.installed",
		metric.WithDescription("Routes stored per domain and method"),
		metric.WithUnit("{route}"),
	); err != nil {
		return fmt.Errorf("failed to create routes.installed counter: %w", err)
	}
	if r.sourcesLoaded, err = meter.Int64Counter("dispatch.sources.loaded",
		metric.WithDescription("Declaration sources loaded"),
		metric.WithUnit("{source}"),
	); err != nil {
		return fmt.Errorf("failed to create sources.loaded counter: %w", err)
	}
	if r.routesLoaded, err = meter.Int64Counter("dispatch.routes.loaded",
		metric.WithDescription("Routes installed by source loads"),
		metric.WithUnit("{route}"),
	); err != nil {
		return fmt.Errorf("failed to create routes.loaded counter: %w", err)
	}
	if r.searches, err = meter.Int64Counter("dispatch.searches",
		metric.WithDescription("Route lookups"),
		metric.WithUnit("{search}"),
	); err != nil {
		return fmt.Errorf("failed to create searches counter: %w", err)
	}
	if r.searchDuration, err = meter.Float64Histogram("dispatch.search.duration",
		metric.WithDescription("Route lookup duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.searchBuckets...),
	); err != nil {
		return fmt.Errorf("failed to create search.duration histogram: %w", err)
	}

	return nil
}

// RouteInstalled counts a route stored under a domain and method.
func (r *Recorder) RouteInstalled(domain, method string) {
	r.routesInstalled.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("method", method),
	))
}

// SourceLoaded counts a finished source load and the routes it installed.
func (r *Recorder) SourceLoaded(ctx context.Context, source string, routes int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		r.logger.Debug("source load failed", "source", source, "error", err)
	}

	attrs := metric.WithAttributes(attribute.String("status", status))
	r.sourcesLoaded.Add(ctx, 1, attrs)
	r.routesLoaded.Add(ctx, int64(routes), attrs)
}

// SearchDone records a lookup. The domain is not recorded: request hosts
// are unbounded.
func (r *Recorder) SearchDone(method, _ string, matched bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("matched", matched),
	)
	ctx := context.Background()
	r.searches.Add(ctx, 1, attrs)
	r.searchDuration.Record(ctx, elapsed.Seconds(), attrs)
}
