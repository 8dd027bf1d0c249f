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
	"strings"
	"unicode"
	"unicode/utf8"

	"rivaas.dev/dispatch/route"
)

// Prefix selects how a group computes its path prefix: a literal string or
// the trailing components of the class identifier.
type Prefix struct {
	literal   string
	level     int
	isLiteral bool
}

// Literal uses s as the group prefix.
func Literal(s string) Prefix {
	return Prefix{literal: s, isLiteral: true}
}

// Level derives the prefix from the last n components of the class
// identifier, each with its first letter lower-cased:
//
//	Level(1) on `App\Http\UserPosts` -> "userPosts"
//	Level(2) on `App\Http\UserPosts` -> "http/userPosts"
//
// Components are separated by '\', '/' or '.'. A level of 0 or less, or one
// larger than the number of components, uses them all.
func Level(n int) Prefix {
	return Prefix{level: n}
}

// resolve computes the prefix for a class identifier.
func (p Prefix) resolve(class string) string {
	if p.isLiteral {
		return p.literal
	}

	parts := strings.FieldsFunc(class, func(r rune) bool {
		return r == '\\' || r == '/' || r == '.'
	})
	if p.level > 0 && p.level < len(parts) {
		parts = parts[len(parts)-p.level:]
	}
	for i, part := range parts {
		parts[i] = lowerFirst(part)
	}

	return strings.Join(parts, "/")
}

// lowerFirst lower-cases the first rune of s.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Controller owns the defaults of a group and the taps created for its
// actions until they are installed.
//
// Controller is not safe for concurrent use.
type Controller struct {
	setting  Prefix
	class    string
	prefix   string
	defaults Components

	taps  map[string][]*route.Tap
	order []string
}

// NewController creates a Controller. Call Init before declaring actions.
func NewController(p Prefix) *Controller {
	return &Controller{
		setting: p,
		taps:    make(map[string][]*route.Tap),
	}
}

// Init sets the class identifier and the group defaults, and computes the prefix.
func (c *Controller) Init(class string, defaults Components) {
	c.class = class
	c.prefix = c.setting.resolve(class)
	c.defaults = defaults
}

// Class returns the class identifier.
func (c *Controller) Class() string {
	return c.class
}

// Prefix returns the group prefix.
func (c *Controller) Prefix() string {
	return c.prefix
}

// Defaults returns the group defaults.
func (c *Controller) Defaults() Components {
	return c.defaults
}

// Action creates the tap for one mapping of an action, with the group
// defaults merged into the action components and the group prefix applied.
// The tap is retained until Loading.
func (c *Controller) Action(name string, m Map, comps Components) *route.Tap {
	merged := comps.inherit(c.defaults)
	tap := m.Tap(name, route.Point(c.class, name), merged).Prefix(c.prefix)

	if _, ok := c.taps[name]; !ok {
		c.order = append(c.order, name)
	}
	c.taps[name] = append(c.taps[name], tap)

	return tap
}

// Pending returns the number of taps waiting for Loading.
func (c *Controller) Pending() int {
	n := 0
	for _, taps := range c.taps {
		n += len(taps)
	}
	return n
}

// Loading installs every retained tap into reg, by action name in first
// declaration order and then in declaration order within an action, and
// clears the retained list.
//
// Errors:
//   - Returns [*InstallError] for the first tap that fails to install;
//     the remaining taps are dropped
func (c *Controller) Loading(reg route.Registrar) error {
	defer func() {
		c.taps = make(map[string][]*route.Tap)
		c.order = nil
	}()

	for _, name := range c.order {
		for _, tap := range c.taps[name] {
			rule := tap.FullRule()
			if err := tap.Install(reg); err != nil {
				return &InstallError{Class: c.class, Action: name, Rule: rule, Err: err}
			}
		}
	}

	return nil
}
