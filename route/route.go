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

package route

import (
	"maps"

	"rivaas.dev/dispatch/pattern"
)

// Route is an installed route: the final rule, the handler reference, the
// constraints and middleware configuration it was built with, the cache
// duration and the compiled pattern.
//
// Routes are immutable and safe for concurrent use.
type Route struct {
	rule          string
	handler       Handler
	where         map[string]string
	middlewares   Middlewares
	cacheDuration int
	pattern       *pattern.Pattern
}

// New compiles rule with the given constraints and returns the Route.
// A negative cache duration is treated as 0 (disabled).
//
// Errors:
//   - Returns [*pattern.CompileError] if the rule cannot be compiled
func New(rule string, h Handler, where map[string]string, middlewares []Middleware, cacheDuration int) (*Route, error) {
	p, err := pattern.Compile(rule, where)
	if err != nil {
		return nil, err
	}

	return &Route{
		rule:          rule,
		handler:       h,
		where:         p.Constraints(),
		middlewares:   NewMiddlewares(middlewares...),
		cacheDuration: max(cacheDuration, 0),
		pattern:       p,
	}, nil
}

// MustNew is like New but panics if the rule cannot be compiled.
func MustNew(rule string, h Handler, where map[string]string, middlewares []Middleware, cacheDuration int) *Route {
	r, err := New(rule, h, where, middlewares, cacheDuration)
	if err != nil {
		panic(err)
	}
	return r
}

// Match reports whether path (without its leading '/') matches the route and
// returns the extracted arguments.
func (r *Route) Match(path string) (pattern.Params, bool) {
	return r.pattern.Match(path)
}

// Rule returns the final rule, prefixes included.
func (r *Route) Rule() string {
	return r.rule
}

// Handler returns the handler reference.
func (r *Route) Handler() Handler {
	return r.handler
}

// Where returns a copy of the parameter constraints.
func (r *Route) Where() map[string]string {
	return maps.Clone(r.where)
}

// Middlewares returns the middleware configuration.
func (r *Route) Middlewares() Middlewares {
	return NewMiddlewares(r.middlewares.All()...)
}

// CacheDuration returns the cache duration in seconds, 0 when caching is disabled.
func (r *Route) CacheDuration() int {
	return r.cacheDuration
}

// Pattern returns the compiled pattern.
func (r *Route) Pattern() *pattern.Pattern {
	return r.pattern
}
