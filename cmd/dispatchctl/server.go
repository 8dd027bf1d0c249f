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

package main

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/middleware"
	"rivaas.dev/dispatch/openapi"
	"rivaas.dev/dispatch/problem"
	"rivaas.dev/dispatch/tracing"
)

const problemBaseURL = "https://rivaas.dev/dispatch/problems"

var errNoRoute = problem.WithCode(problem.WithStatus(errors.New("no route matches the request"), http.StatusNotFound), "route-not-found")

// newServer exposes a loaded registry read-only:
//
//	GET /routes                                  route table as JSON
//	GET /match?path=users/1&method=GET&domain=a  matched route as JSON, 404 problem detail on miss
//	GET /openapi.json                            OpenAPI description of the routes
//	GET /metrics                                 Prometheus scrape endpoint, when available
//
// Requests are traced, tagged with a request ID and access logged.
func newServer(reg *dispatch.Registry, metricsHandler http.Handler, tracer *tracing.Tracer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	problems := problem.New(problemBaseURL)

	mux.HandleFunc("GET /routes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, problems, newRouteList(reg.Routes()))
	})

	mux.HandleFunc("GET /match", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		method := q.Get("method")
		if method == "" {
			method = http.MethodGet
		}
		domain := q.Get("domain")
		if domain == "" {
			domain = dispatch.Wildcard
		}

		m, ok := reg.Search(q.Get("path"), method, domain)
		if !ok {
			problems.Write(w, r, errNoRoute, map[string]any{
				"path":   q.Get("path"),
				"method": method,
				"domain": domain,
			})
			return
		}

		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("dispatch.rule", m.Route.Rule()),
			attribute.String("dispatch.handler", m.Route.Handler().String()),
		)
		writeJSON(w, r, problems, newMatchView(m))
	})

	mux.HandleFunc("GET /openapi.json", func(w http.ResponseWriter, r *http.Request) {
		result, err := openapi.New().Build(reg.Routes())
		if err != nil {
			problems.Write(w, r, err)
			return
		}
		writeJSON(w, r, problems, result.Document)
	})

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return middleware.Chain(mux,
		middleware.Middleware(tracing.Middleware(tracer, tracing.WithExcludePaths("/metrics"))),
		middleware.RequestID(),
		middleware.Recovery(middleware.WithRecoveryLogger(logger)),
		middleware.AccessLog(logger, middleware.WithExcludePaths("/metrics")),
		middleware.Compression(middleware.WithCompressionExcludePaths("/metrics")),
	)
}

func writeJSON(w http.ResponseWriter, r *http.Request, problems *problem.Writer, v any) {
	data, err := codec.JSONCodec{}.Encode(v)
	if err != nil {
		problems.Write(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
