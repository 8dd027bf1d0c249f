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

// Package route provides the compiled route record and the builder used to
// assemble it.
//
// This package contains:
//   - Route: immutable record of a rule, its handler reference, constraints,
//     middleware configuration and cache duration, with the compiled pattern
//   - Tap: mutable builder collecting prefixes, constraints, domains,
//     middlewares and a cache duration before installing a Route
//   - Handler: reference to the code serving a route, either a callable or a
//     "Class::method" name
//   - Middlewares: ordered middleware configuration (name to argument list)
//
// # Building Routes
//
// Taps are created through the method shorthands and installed into a Registrar:
//
//	err := route.Get("users/{id}", route.Named("Users::show")).
//	    Prefix("api").
//	    Where(map[string]string{"id": `[1-9]\d*`}).
//	    Domains("api.example.com").
//	    Middlewares(route.Use("auth"), route.Use("throttle", "60", "1")).
//	    Cache(30).
//	    Install(registry)
//
// Rules starting with '/' are absolute and never receive a prefix.
//
// # Merge Semantics
//
// Where and Middlewares never overwrite: the first value recorded for a
// parameter or middleware name wins. Callers that layer defaults apply the
// most specific values first.
//
// All operations in this package occur during the load phase. Routes are
// immutable once built and safe for concurrent matching.
package route
