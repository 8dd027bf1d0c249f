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

// Package metrics records registry measurements with OpenTelemetry.
//
// A [Recorder] implements the dispatch registry's Recorder interface and
// exports through one of several providers:
//
//   - Prometheus (default): a private registry served by [Recorder.Handler]
//   - OTLP over HTTP: periodic export to a collector
//   - stdout: periodic export for development
//   - a custom [metric.MeterProvider] supplied by the caller
//
// Example:
//
//	rec, err := metrics.New(metrics.WithPrometheus())
//	if err != nil {
//	    return err
//	}
//	defer rec.Shutdown(context.Background())
//
//	reg := dispatch.New(dispatch.WithRecorder(rec))
//	http.Handle("/metrics", rec.Handler())
//
// # Instruments
//
//	dispatch.routes.installed  counter    domain, method
//	dispatch.sources.loaded    counter    status
//	dispatch.routes.loaded     counter    status
//	dispatch.searches          counter    method, matched
//	dispatch.search.duration   histogram  method, matched (seconds)
package metrics
