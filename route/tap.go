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
	"net/http"
	"slices"
	"strings"
)

// AnyMethod is the wildcard method and domain key.
const AnyMethod = "*"

// Tap accumulates the configuration of one route before it is installed.
//
// A Tap is owned by whoever created it until Install; afterwards its state is
// consumed and further calls to Install fail with ErrTapInstalled.
// Tap is not safe for concurrent use.
type Tap struct {
	methods []string
	rule    string
	handler Handler

	prefixes      []string
	where         map[string]string
	domains       []string
	middlewares   Middlewares
	cacheDuration int

	installed bool
}

// NewTap creates a Tap for the given methods, rule template and handler.
// Methods are stored as given; see Many for upper-casing.
func NewTap(methods []string, rule string, h Handler) *Tap {
	return &Tap{
		methods: slices.Clone(methods),
		rule:    rule,
		handler: h,
		where:   make(map[string]string),
	}
}

// Get creates a Tap for GET requests.
func Get(rule string, h Handler) *Tap {
	return NewTap([]string{http.MethodGet}, rule, h)
}

// Post creates a Tap for POST requests.
func Post(rule string, h Handler) *Tap {
	return NewTap([]string{http.MethodPost}, rule, h)
}

// Put creates a Tap for PUT requests.
func Put(rule string, h Handler) *Tap {
	return NewTap([]string{http.MethodPut}, rule, h)
}

// Patch creates a Tap for PATCH requests.
func Patch(rule string, h Handler) *Tap {
	return NewTap([]string{http.MethodPatch}, rule, h)
}

// Delete creates a Tap for DELETE requests.
func Delete(rule string, h Handler) *Tap {
	return NewTap([]string{http.MethodDelete}, rule, h)
}

// Any creates a Tap matching every method.
func Any(rule string, h Handler) *Tap {
	return NewTap([]string{AnyMethod}, rule, h)
}

// Many creates a Tap for several methods. Method names are upper-cased.
//
// Example:
//
//	route.Many([]string{"get", "head"}, "status", h)
func Many(methods []string, rule string, h Handler) *Tap {
	upper := make([]string, len(methods))
	for i, m := range methods {
		upper[i] = strings.ToUpper(m)
	}
	return NewTap(upper, rule, h)
}

// Prefix appends a path prefix segment. Slashes around the segment are
// trimmed. Nothing happens if the rule is absolute (starts with '/') or the
// trimmed segment is empty.
func (t *Tap) Prefix(segment string) *Tap {
	if strings.HasPrefix(t.rule, "/") {
		return t
	}
	if segment = strings.Trim(segment, "/"); segment != "" {
		t.prefixes = append(t.prefixes, segment)
	}
	return t
}

// Where adds parameter constraints. A parameter that already has a
// constraint keeps it.
func (t *Tap) Where(where map[string]string) *Tap {
	if t.where == nil {
		t.where = make(map[string]string, len(where))
	}
	for name, expr := range where {
		if _, ok := t.where[name]; !ok {
			t.where[name] = expr
		}
	}
	return t
}

// Domains appends domains the route is served on. Duplicates are kept.
func (t *Tap) Domains(domains ...string) *Tap {
	t.domains = append(t.domains, domains...)
	return t
}

// Middlewares adds middleware entries. An already configured name keeps its
// arguments.
func (t *Tap) Middlewares(ms ...Middleware) *Tap {
	t.middlewares.Add(ms...)
	return t
}

// Cache sets the cache duration in seconds, replacing any previous value.
func (t *Tap) Cache(seconds int) *Tap {
	t.cacheDuration = seconds
	return t
}

// Methods returns the methods the Tap was created with.
func (t *Tap) Methods() []string {
	return slices.Clone(t.methods)
}

// Rule returns the rule template as given, without prefixes.
func (t *Tap) Rule() string {
	return t.rule
}

// Handler returns the handler reference.
func (t *Tap) Handler() Handler {
	return t.handler
}

// Constraints returns a copy of the collected constraints.
func (t *Tap) Constraints() map[string]string {
	return maps.Clone(t.where)
}

// DomainList returns a copy of the collected domains.
func (t *Tap) DomainList() []string {
	return slices.Clone(t.domains)
}

// MiddlewareConfig returns the collected middleware configuration.
func (t *Tap) MiddlewareConfig() Middlewares {
	return NewMiddlewares(t.middlewares.All()...)
}

// CacheDuration returns the cache duration in seconds.
func (t *Tap) CacheDuration() int {
	return t.cacheDuration
}

// FullRule returns the rule the route will be installed under: the prefixes
// joined by '/' followed by the rule without its leading slashes.
//
//	prefixes [api v1], rule "users"  -> "api/v1/users"
//	prefixes [api],    rule "/"      -> "api"
//	no prefixes,       rule "/users" -> "users"
func (t *Tap) FullRule() string {
	rule := strings.TrimLeft(t.rule, "/")
	if len(t.prefixes) == 0 {
		return rule
	}
	prefix := strings.Join(t.prefixes, "/")
	if rule == "" {
		return prefix
	}
	return prefix + "/" + rule
}

// Build compiles the Route without installing it.
//
// Errors:
//   - Returns [*pattern.CompileError] if the rule cannot be compiled
func (t *Tap) Build() (*Route, error) {
	return New(t.FullRule(), t.handler, t.where, t.middlewares.All(), t.cacheDuration)
}

// Install builds the Route and stores it in reg under every combination of
// the Tap's domains and methods. Empty lists stand for the wildcard.
// The Tap's configuration is discarded afterwards.
//
// Errors:
//   - Returns [ErrRegistrarNil] if reg is nil
//   - Returns [ErrTapInstalled] if the Tap was already installed
//   - Returns [*pattern.CompileError] if the rule cannot be compiled
func (t *Tap) Install(reg Registrar) error {
	if reg == nil {
		return ErrRegistrarNil
	}
	if t.installed {
		return ErrTapInstalled
	}

	r, err := t.Build()
	if err != nil {
		return err
	}

	var methods, domains []string
	if len(t.methods) > 0 {
		methods = t.methods
	}
	if len(t.domains) > 0 {
		domains = t.domains
	}
	reg.Set(r, methods, domains)

	t.installed = true
	t.prefixes, t.where, t.domains = nil, nil, nil
	t.middlewares = Middlewares{}

	return nil
}
