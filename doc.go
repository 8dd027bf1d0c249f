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

// Package dispatch stores compiled routes and resolves requests to them.
//
// A [Registry] keeps routes in buckets keyed by domain and method. Within a
// bucket routes are unique by rule and kept in registration order; storing a
// route under an existing rule replaces it in place.
//
// # Lookup
//
// [Registry.Search] strips the leading slashes from the path and tries the
// exact domain before the wildcard domain "*", and within each domain the
// exact method before the wildcard method. The first route of a bucket whose
// pattern matches wins:
//
//	reg := dispatch.New()
//	route.Get("users/{id}", route.Point("Users", "show")).
//	    Where(map[string]string{"id": `\d+`}).
//	    Install(reg)
//
//	m, ok := reg.Search("/users/42", "GET", "example.com")
//	// ok == true, m.Params["id"] == "42", m.Domain == "*"
//
// # Loading declarations
//
// [Registry.Load] installs the routes of a [declare.Source] through its
// group (a resource or a controller). Loading a source name twice is a no-op;
// [Registry.LoadAll] loads every source of a [declare.Provider].
//
// # Concurrency
//
// A Registry is built once and then only read. Writes (Set, Load, LoadAll,
// Clear) must not run concurrently with each other or with Search. Concurrent
// Search calls are safe.
//
// # Observability
//
// The Registry logs through [log/slog] ([WithLogger]), traces loads with
// OpenTelemetry ([WithTracerProvider]), reports measurements to a [Recorder]
// ([WithRecorder]) and emits [DiagnosticEvent] values ([WithDiagnostics]).
package dispatch
