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

package group

import (
	"maps"
	"net/http"
	"slices"

	"rivaas.dev/dispatch/route"
)

// Components are the route settings a group or an action can declare.
type Components struct {
	Domains     []string
	Middlewares []route.Middleware
	Where       map[string]string
	Cache       int
}

// inherit returns c completed with the group defaults d.
func (c Components) inherit(d Components) Components {
	out := Components{
		Domains: c.Domains,
		Cache:   c.Cache,
	}

	// Domains and cache are only replaced when the action leaves them unset
	// and the group actually has something to offer.
	if len(c.Domains) == 0 && len(d.Domains) > 0 {
		out.Domains = d.Domains
	}
	if c.Cache == 0 && d.Cache != 0 {
		out.Cache = d.Cache
	}

	mws := route.NewMiddlewares(c.Middlewares...)
	mws.Add(d.Middlewares...)
	out.Middlewares = mws.All()

	out.Where = maps.Clone(c.Where)
	if out.Where == nil {
		out.Where = make(map[string]string, len(d.Where))
	}
	for name, expr := range d.Where {
		if _, ok := out.Where[name]; !ok {
			out.Where[name] = expr
		}
	}

	return out
}

// DefaultMethods are the methods of a Map declared without any.
var DefaultMethods = []string{http.MethodGet, http.MethodPost}

// Map declares how an action is exposed: a rule template and methods.
// A nil Rule stands for the action name; no Methods stand for DefaultMethods.
type Map struct {
	Rule    *string
	Methods []string
}

// NewMap returns a Map with an explicit rule.
func NewMap(rule string, methods ...string) Map {
	return Map{Rule: &rule, Methods: methods}
}

// RuleFor returns the rule template used for the named action.
func (m Map) RuleFor(action string) string {
	if m.Rule == nil {
		return action
	}
	return *m.Rule
}

// MethodList returns the declared methods or DefaultMethods.
func (m Map) MethodList() []string {
	if len(m.Methods) == 0 {
		return slices.Clone(DefaultMethods)
	}
	return slices.Clone(m.Methods)
}

// Tap creates the route builder for an action and applies the components.
// Only a positive cache duration is applied.
func (m Map) Tap(action string, h route.Handler, c Components) *route.Tap {
	tap := route.Many(m.MethodList(), m.RuleFor(action), h)

	if len(c.Domains) > 0 {
		tap.Domains(c.Domains...)
	}
	if len(c.Middlewares) > 0 {
		tap.Middlewares(c.Middlewares...)
	}
	if len(c.Where) > 0 {
		tap.Where(c.Where)
	}
	if c.Cache > 0 {
		tap.Cache(c.Cache)
	}

	return tap
}
