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

// Package group builds routes for a group of actions sharing defaults.
//
// A group is derived from a class-like declaration source. It owns a path
// prefix and default components (domains, middlewares, constraints, cache
// duration) that every action of the group inherits unless the action
// overrides them:
//
//   - Domains: an action without domains inherits the group's domains
//   - Middlewares and constraints: action entries win, defaults fill the gaps
//   - Cache duration: an action value of 0 inherits the group's value
//
// Two group kinds exist. A Controller maps each action through one or more
// Map declarations. A Resource maps the seven RESTful action names to fixed
// rules and methods:
//
//	index    GET        ""
//	create   GET        "create"
//	store    POST       ""
//	show     GET        "{id}"
//	edit     GET        "{id}/edit"
//	update   PUT,PATCH  "{id}"
//	destroy  DELETE     "{id}"
//
// Example:
//
//	c := group.NewController(group.Level(1))
//	c.Init(`App\Http\Users`, group.Components{Domains: []string{"a.com"}, Cache: 60})
//	c.Action("profile", group.NewMap("{id}/profile", "GET"), group.Components{})
//	err := c.Loading(registry) // installs "users/{id}/profile"
package group
