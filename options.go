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

package dispatch

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// noopLogger discards everything.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Recorder receives registry measurements. Implementations must be safe for
// concurrent use; SearchDone is called from concurrent lookups.
type Recorder interface {
	// RouteInstalled is called once per domain and method a route is stored under.
	RouteInstalled(domain, method string)

	// SourceLoaded is called after a source load finishes.
	SourceLoaded(ctx context.Context, source string, routes int, err error)

	// SearchDone is called after every lookup.
	SearchDone(method, domain string, matched bool, elapsed time.Duration)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Installed routes are logged at debug level and
// loaded sources at info level.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	reg := dispatch.New(dispatch.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracerProvider sets the tracer provider used to trace loads.
// Without it loads are not traced.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Registry) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRecorder sets the measurement recorder, typically a
// [rivaas.dev/dispatch/metrics.Recorder].
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		r.recorder = rec
	}
}

// WithDiagnostics sets a diagnostic handler.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Registry) {
		r.diagnostics = handler
	}
}
