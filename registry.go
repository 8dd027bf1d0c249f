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
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/dispatch/declare"
	"rivaas.dev/dispatch/pattern"
	"rivaas.dev/dispatch/route"
)

// Wildcard is the domain and method key matching any value.
const Wildcard = route.AnyMethod

const tracerName = "rivaas.dev/dispatch"

// Match is the result of a successful lookup.
type Match struct {
	Route  *route.Route
	Params pattern.Params
	Domain string // Domain bucket the route was found in
	Method string // Method bucket the route was found in
}

// Entry is one stored route with its bucket keys.
type Entry struct {
	Domain string
	Method string
	Rule   string
	Route  *route.Route
}

// bucket holds the routes of one domain and method, unique by rule, in
// registration order.
type bucket struct {
	rules  []string
	routes map[string]*route.Route
}

// put stores r under its rule and reports whether a route was replaced.
func (b *bucket) put(r *route.Route) bool {
	_, exists := b.routes[r.Rule()]
	if !exists {
		b.rules = append(b.rules, r.Rule())
	}
	b.routes[r.Rule()] = r
	return exists
}

// methodTable holds the buckets of one domain.
type methodTable struct {
	methods []string
	buckets map[string]*bucket
}

func (t *methodTable) bucket(method string) *bucket {
	b, ok := t.buckets[method]
	if !ok {
		b = &bucket{routes: make(map[string]*route.Route)}
		t.buckets[method] = b
		t.methods = append(t.methods, method)
	}
	return b
}

// Registry stores routes by domain, method and rule.
//
// See the package documentation for the concurrency contract.
type Registry struct {
	domains []string
	tables  map[string]*methodTable
	count   int

	loaded           map[string]struct{}
	classComponents  map[string]declare.Components
	actionComponents map[string]map[string]declare.Components

	logger      *slog.Logger
	tracer      trace.Tracer
	recorder    Recorder
	diagnostics DiagnosticHandler
}

var _ route.Registrar = (*Registry)(nil)

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger: noopLogger,
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}
	r.reset()

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Registry) reset() {
	r.domains = nil
	r.tables = make(map[string]*methodTable)
	r.count = 0
	r.loaded = make(map[string]struct{})
	r.classComponents = make(map[string]declare.Components)
	r.actionComponents = make(map[string]map[string]declare.Components)
}

func (r *Registry) table(domain string) *methodTable {
	t, ok := r.tables[domain]
	if !ok {
		t = &methodTable{buckets: make(map[string]*bucket)}
		r.tables[domain] = t
		r.domains = append(r.domains, domain)
	}
	return t
}

// Set stores rt under every combination of domains and methods. Nil or empty
// lists stand for the wildcard. A route already stored under the same rule
// in a bucket is replaced and keeps its position.
func (r *Registry) Set(rt *route.Route, methods, domains []string) {
	if len(methods) == 0 {
		methods = []string{Wildcard}
	}
	if len(domains) == 0 {
		domains = []string{Wildcard}
	}

	for _, domain := range domains {
		t := r.table(domain)
		for _, method := range methods {
			if t.bucket(method).put(rt) {
				r.emit(DiagRouteOverwritten, "route replaced", map[string]any{
					"domain": domain,
					"method": method,
					"rule":   rt.Rule(),
				})
			} else {
				r.count++
			}

			r.logger.Debug("route installed",
				"domain", domain,
				"method", method,
				"rule", rt.Rule(),
				"handler", rt.Handler().String(),
			)
			if r.recorder != nil {
				r.recorder.RouteInstalled(domain, method)
			}
		}
	}
}

// candidates returns the keys tried for a domain or method, exact first.
func candidates(v string) []string {
	if v == "" || v == Wildcard {
		return []string{Wildcard}
	}
	return []string{v, Wildcard}
}

// Search resolves a request. Empty method and domain stand for the wildcard.
// Domains are tried before methods: an exact domain with a wildcard method
// wins over a wildcard domain with an exact method.
func (r *Registry) Search(path, method, domain string) (Match, bool) {
	var start time.Time
	if r.recorder != nil {
		start = time.Now()
	}

	m, ok := r.search(strings.TrimLeft(path, "/"), method, domain)

	if r.recorder != nil {
		r.recorder.SearchDone(method, domain, ok, time.Since(start))
	}
	return m, ok
}

func (r *Registry) search(path, method, domain string) (Match, bool) {
	for _, d := range candidates(domain) {
		t, ok := r.tables[d]
		if !ok {
			continue
		}
		for _, m := range candidates(method) {
			b, ok := t.buckets[m]
			if !ok {
				continue
			}
			for _, rule := range b.rules {
				rt := b.routes[rule]
				if params, ok := rt.Match(path); ok {
					return Match{Route: rt, Params: params, Domain: d, Method: m}, true
				}
			}
		}
	}
	return Match{}, false
}

// Routes returns a snapshot of the stored routes, ordered by domain, then
// method, then rule, each in first registration order.
func (r *Registry) Routes() []Entry {
	out := make([]Entry, 0, r.count)
	for _, domain := range r.domains {
		t := r.tables[domain]
		for _, method := range t.methods {
			b := t.buckets[method]
			for _, rule := range b.rules {
				out = append(out, Entry{Domain: domain, Method: method, Rule: rule, Route: b.routes[rule]})
			}
		}
	}
	return out
}

// Len returns the number of stored entries across all buckets.
func (r *Registry) Len() int {
	return r.count
}

// Clear removes every route and forgets loaded sources.
func (r *Registry) Clear() {
	r.reset()
}
