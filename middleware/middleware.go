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

// Package middleware provides net/http middleware for the dispatchctl HTTP
// endpoint: request IDs, panic recovery, access logging and response
// compression.
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID(),
//	    middleware.Recovery(middleware.WithRecoveryLogger(logger)),
//	    middleware.AccessLog(logger, middleware.WithExcludePaths("/metrics")),
//	    middleware.Compression(),
//	)
//
// Middleware listed first runs first.
package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that mws run in the given order.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
