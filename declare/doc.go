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

// Package declare describes route declarations independently of where they
// come from.
//
// A [Source] is one class-like unit: a name, a group descriptor (controller
// or resource), class-level default components and a list of actions, each
// with its own components and mappings. A [Provider] enumerates sources.
//
// Sources are either built in memory with [NewClass]:
//
//	src := declare.NewClass(`App\Http\Users`, declare.ControllerGroup(group.Level(1))).
//	    Defaults(declare.Components{Domains: []string{"a.com"}}).
//	    Action("profile", declare.Components{}, group.NewMap("{id}/profile", "GET"))
//
// or decoded from a document with [Decode]. A document is a map with a
// "classes" list, usually read from YAML, TOML or JSON:
//
//	classes:
//	  - name: App\Http\Widgets
//	    group: { kind: resource }
//	    middlewares: [auth, { throttle: [60, 1] }]
//	    cache: 60
//	    actions:
//	      - name: index
//	      - name: show
//	        where: { id: '\d+' }
//
// Decode checks the document against an embedded JSON schema, decodes it
// with weak typing and validates the result before building sources.
package declare
