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

package declare

import (
	"context"

	"rivaas.dev/dispatch/group"
)

// Kind identifies the group type of a source.
type Kind string

const (
	// KindController maps actions through their declared mappings.
	KindController Kind = "controller"

	// KindResource maps the RESTful action names to fixed rules.
	KindResource Kind = "resource"
)

// Components are the route settings declared on a class or an action.
type Components = group.Components

// Mapping declares a rule and methods for an action.
type Mapping = group.Map

// Group is the group descriptor of a source.
type Group struct {
	Kind   Kind
	Prefix group.Prefix
}

// ControllerGroup returns a controller descriptor.
func ControllerGroup(p group.Prefix) *Group {
	return &Group{Kind: KindController, Prefix: p}
}

// ResourceGroup returns a resource descriptor.
func ResourceGroup(p group.Prefix) *Group {
	return &Group{Kind: KindResource, Prefix: p}
}

// Source is one unit of declarations, typically a class with its actions.
//
// Implementations must return stable values for the duration of a load.
type Source interface {
	// Name returns the class identifier. It keys idempotent loading and
	// feeds the prefix of level-based groups.
	Name() string

	// Group returns the group descriptor, or nil for a source that
	// declares no routes.
	Group() *Group

	// Actions returns the action names in declaration order.
	Actions() []string

	// Maps returns the mappings declared for an action. An action of a
	// controller without mappings is exposed under the default mapping.
	Maps(action string) []Mapping

	// Components returns the components of an action, or the class-level
	// components for the empty action name.
	Components(action string) Components
}

// Provider enumerates declaration sources.
type Provider interface {
	Sources(ctx context.Context) ([]Source, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) ([]Source, error)

// Sources calls f(ctx).
func (f ProviderFunc) Sources(ctx context.Context) ([]Source, error) {
	return f(ctx)
}

// Static is a Provider over a fixed list of sources.
type Static []Source

// Sources returns the list.
func (s Static) Sources(context.Context) ([]Source, error) {
	return s, nil
}
