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
	"maps"
	"slices"
)

// Class is an in-memory Source.
type Class struct {
	name     string
	group    *Group
	defaults Components
	actions  []string
	maps     map[string][]Mapping
	comps    map[string]Components
}

var _ Source = (*Class)(nil)

// NewClass creates a Class. A nil group declares no routes.
func NewClass(name string, g *Group) *Class {
	return &Class{
		name:  name,
		group: g,
		maps:  make(map[string][]Mapping),
		comps: make(map[string]Components),
	}
}

// Defaults sets the class-level components.
func (c *Class) Defaults(comps Components) *Class {
	c.defaults = comps
	return c
}

// Action declares an action with its components and mappings. Declaring the
// same name again appends the mappings and replaces the components.
func (c *Class) Action(name string, comps Components, ms ...Mapping) *Class {
	if _, ok := c.comps[name]; !ok {
		c.actions = append(c.actions, name)
	}
	c.comps[name] = comps
	c.maps[name] = append(c.maps[name], ms...)
	return c
}

// Name returns the class identifier.
func (c *Class) Name() string {
	return c.name
}

// Group returns the group descriptor.
func (c *Class) Group() *Group {
	return c.group
}

// Actions returns the action names in declaration order.
func (c *Class) Actions() []string {
	return slices.Clone(c.actions)
}

// Maps returns the mappings of an action.
func (c *Class) Maps(action string) []Mapping {
	return slices.Clone(c.maps[action])
}

// Components returns the components of an action, or the class defaults for "".
func (c *Class) Components(action string) Components {
	comps := c.defaults
	if action != "" {
		comps = c.comps[action]
	}
	return Components{
		Domains:     slices.Clone(comps.Domains),
		Middlewares: slices.Clone(comps.Middlewares),
		Where:       maps.Clone(comps.Where),
		Cache:       comps.Cache,
	}
}
