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
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// Middleware is one middleware configuration entry: an identifier and the
// arguments it is applied with.
type Middleware struct {
	Name string
	Args []string
}

// Use returns a Middleware entry.
//
//	route.Use("auth")                 // auth, no arguments
//	route.Use("throttle", "60", "1")  // throttle:60,1
func Use(name string, args ...string) Middleware {
	return Middleware{Name: name, Args: args}
}

// Middlewares is an ordered middleware configuration keyed by name.
// The zero value is empty and ready to use.
type Middlewares struct {
	list []Middleware
}

// NewMiddlewares returns a configuration holding ms, see Add.
func NewMiddlewares(ms ...Middleware) Middlewares {
	var m Middlewares
	m.Add(ms...)
	return m
}

// Add appends entries whose name is not configured yet.
// An existing entry keeps its arguments and position.
func (m *Middlewares) Add(ms ...Middleware) {
	for _, mw := range ms {
		if mw.Name == "" || m.Has(mw.Name) {
			continue
		}
		m.list = append(m.list, Middleware{Name: mw.Name, Args: slices.Clone(mw.Args)})
	}
}

// Has reports whether name is configured.
func (m Middlewares) Has(name string) bool {
	return slices.ContainsFunc(m.list, func(mw Middleware) bool { return mw.Name == name })
}

// Args returns the arguments configured for name.
func (m Middlewares) Args(name string) ([]string, bool) {
	i := slices.IndexFunc(m.list, func(mw Middleware) bool { return mw.Name == name })
	if i < 0 {
		return nil, false
	}
	return slices.Clone(m.list[i].Args), true
}

// Names returns the configured names in insertion order.
func (m Middlewares) Names() []string {
	names := make([]string, len(m.list))
	for i, mw := range m.list {
		names[i] = mw.Name
	}
	return names
}

// All returns a copy of the entries in insertion order.
func (m Middlewares) All() []Middleware {
	out := make([]Middleware, len(m.list))
	for i, mw := range m.list {
		out[i] = Middleware{Name: mw.Name, Args: slices.Clone(mw.Args)}
	}
	return out
}

// Len returns the number of entries.
func (m Middlewares) Len() int {
	return len(m.list)
}

// ParseMiddlewares converts a declaration list into entries.
//
// Accepted items:
//   - string: positional entry, the value is the identifier with no arguments
//   - map[string]any: each key is an identifier, its value the argument list
//     (a scalar or a list, converted to strings); keys are taken in sorted order
//   - Middleware: used as is
//
// Example:
//
//	route.ParseMiddlewares("auth", map[string]any{"throttle": []any{60, 1}})
//	// [{auth []} {throttle [60 1]}]
func ParseMiddlewares(items ...any) ([]Middleware, error) {
	out := make([]Middleware, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, Middleware{Name: v})
		case Middleware:
			out = append(out, v)
		case map[string]any:
			for _, name := range slices.Sorted(maps.Keys(v)) {
				args, err := middlewareArgs(v[name])
				if err != nil {
					return nil, fmt.Errorf("middleware %q: %w", name, err)
				}
				out = append(out, Middleware{Name: name, Args: args})
			}
		case map[string][]string:
			for _, name := range slices.Sorted(maps.Keys(v)) {
				out = append(out, Middleware{Name: name, Args: slices.Clone(v[name])})
			}
		default:
			return nil, fmt.Errorf("middleware entry %d: unsupported type %T", i, item)
		}
	}
	return out, nil
}

// middlewareArgs converts a declared argument value into a string list.
func middlewareArgs(v any) ([]string, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{a}, nil
	case []string:
		return slices.Clone(a), nil
	case []any:
		return cast.ToStringSliceE(a)
	default:
		s, err := cast.ToStringE(a)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}
