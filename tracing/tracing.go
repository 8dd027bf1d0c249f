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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider selects the span exporter.
type Provider string

const (
	// NoopProvider records nothing.
	NoopProvider Provider = "noop"
	// StdoutProvider prints spans.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports spans over OTLP/gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports spans over OTLP/HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
	// CustomProvider marks a tracer provider supplied by the caller.
	CustomProvider Provider = "custom"
)

const instrumentationName = "rivaas.dev/dispatch/tracing"

var (
	// ErrUnsupportedProvider indicates an unknown provider name.
	ErrUnsupportedProvider = errors.New("unsupported tracing provider")

	// ErrInvalidSampleRate indicates a sample rate outside [0, 1].
	ErrInvalidSampleRate = errors.New("sample rate must be between 0 and 1")

	// ErrTracerProviderNil indicates that WithTracerProvider was given nil.
	ErrTracerProviderNil = errors.New("custom tracer provider is nil")
)

var noopLogger = slog.New(slog.DiscardHandler)

// Tracer owns a tracer provider and the propagator used for incoming requests.
type Tracer struct {
	provider       Provider
	endpoint       string
	insecure       bool
	sampleRate     float64
	serviceName    string
	serviceVersion string
	registerGlobal bool
	output         io.Writer
	logger         *slog.Logger

	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	tracer         trace.Tracer
	propagator     propagation.TextMapPropagator
}

// New creates a Tracer. The context bounds the creation of OTLP exporters.
//
// Errors:
//   - Returns [ErrInvalidSampleRate] for a rate outside [0, 1]
//   - Returns [ErrTracerProviderNil] if WithTracerProvider was given nil
//   - Returns [ErrUnsupportedProvider] for an unknown provider
//   - Returns error if the exporter cannot be created
func New(ctx context.Context, opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:    NoopProvider,
		sampleRate:  1.0,
		serviceName: "dispatch",
		logger:      noopLogger,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sampleRate < 0 || t.sampleRate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, t.sampleRate)
	}

	if err := t.initializeProvider(ctx); err != nil {
		return nil, err
	}
	t.tracer = t.tracerProvider.Tracer(instrumentationName)

	if t.registerGlobal {
		t.logger.Debug("setting global tracer provider", "provider", t.provider)
		otel.SetTracerProvider(t.tracerProvider)
		otel.SetTextMapPropagator(t.propagator)
	}

	t.logger.Info("tracing initialized", "provider", t.provider, "service", t.serviceName)
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(ctx context.Context, opts ...Option) *Tracer {
	t, err := New(ctx, opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing: %v", err))
	}
	return t
}

// Provider returns the configured provider.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// TracerProvider returns the provider to hand to instrumented components.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// IsEnabled reports whether spans are recorded.
func (t *Tracer) IsEnabled() bool {
	return t.provider != NoopProvider
}

// Shutdown flushes pending spans and stops a provider created by the Tracer.
// A custom tracer provider is left to its owner.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}

func (t *Tracer) initializeProvider(ctx context.Context) error {
	if t.provider == CustomProvider {
		if t.tracerProvider == nil {
			return ErrTracerProviderNil
		}
		return nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch t.provider {
	case NoopProvider:
		t.tracerProvider = noop.NewTracerProvider()
		return nil
	case StdoutProvider:
		exporter, err = newStdoutExporter(t.output)
	case OTLPProvider:
		exporter, err = newOTLPExporter(ctx, t.endpoint, t.insecure)
	case OTLPHTTPProvider:
		exporter, err = newOTLPHTTPExporter(ctx, t.endpoint, t.insecure)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, t.provider)
	}
	if err != nil {
		return err
	}

	t.sdkProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	)
	t.tracerProvider = t.sdkProvider
	return nil
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}
