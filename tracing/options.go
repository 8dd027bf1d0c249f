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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Tracer.
type Option func(*Tracer)

// WithProvider selects the provider by name.
func WithProvider(p Provider) Option {
	return func(t *Tracer) {
		t.provider = p
	}
}

// WithStdout prints spans to w, or to stdout when w is nil.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.output = w
	}
}

// WithOTLP exports spans over gRPC to endpoint (host:port).
func WithOTLP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.endpoint = endpoint
	}
}

// WithOTLPHTTP exports spans over HTTP to endpoint (host:port).
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.endpoint = endpoint
	}
}

// WithInsecure disables TLS for OTLP exporters.
func WithInsecure() Option {
	return func(t *Tracer) {
		t.insecure = true
	}
}

// WithSampleRate sets the ratio of root spans that are recorded.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = rate
	}
}

// WithTracerProvider uses a caller-owned provider. Shutdown leaves it running.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.provider = CustomProvider
		t.tracerProvider = tp
	}
}

// WithGlobalTracerProvider also installs the provider and propagator globally.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}
