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

// Package tracing creates the OpenTelemetry tracer provider handed to a
// dispatch registry and traces the HTTP endpoints of dispatchctl.
//
// # Providers
//
//   - NoopProvider (default): no spans are recorded
//   - StdoutProvider: spans are printed as JSON, for development
//   - OTLPProvider: spans are sent to an OTLP collector over gRPC
//   - OTLPHTTPProvider: spans are sent to an OTLP collector over HTTP
//
// # Usage
//
//	tracer, err := tracing.New(ctx,
//	    tracing.WithOTLP("localhost:4317"),
//	    tracing.WithInsecure(),
//	    tracing.WithServiceName("dispatchctl"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	reg := dispatch.New(dispatch.WithTracerProvider(tracer.TracerProvider()))
//	handler := tracing.Middleware(tracer, tracing.WithExcludePaths("/metrics"))(mux)
//
// W3C trace context and baggage headers are extracted from incoming requests.
package tracing
