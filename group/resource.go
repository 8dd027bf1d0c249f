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
	"net/http"
	"slices"

	"rivaas.dev/dispatch/route"
)

// IDPattern constrains the id of an identified resource: digits without a
// leading zero.
const IDPattern = `[1-9]\d*`

// Restful describes one action of a Resource.
type Restful struct {
	Rule    string
	Methods []string
}

// RestfulActions lists the resource action names in table order.
var RestfulActions = []string{"index", "create", "store", "show", "edit", "update", "destroy"}

// restful is the resource action table.
var restful = map[string]Restful{
	"index":   {Rule: "", Methods: []string{http.MethodGet}},
	"create":  {Rule: "create", Methods: []string{http.MethodGet}},
	"store":   {Rule: "", Methods: []string{http.MethodPost}},
	"show":    {Rule: "{id}", Methods: []string{http.MethodGet}},
	"edit":    {Rule: "{id}/edit", Methods: []string{http.MethodGet}},
	"update":  {Rule: "{id}", Methods: []string{http.MethodPut, http.MethodPatch}},
	"destroy": {Rule: "{id}", Methods: []string{http.MethodDelete}},
}

// identified lists the actions operating on one resource.
var identified = []string{"show", "edit", "update", "destroy"}

// LookupRestful returns the table entry for a resource action.
func LookupRestful(name string) (Restful, bool) {
	r, ok := restful[name]
	if !ok {
		return Restful{}, false
	}
	return Restful{Rule: r.Rule, Methods: slices.Clone(r.Methods)}, true
}

// Resource is a Controller whose actions follow the RESTful table.
type Resource struct {
	*Controller
}

// NewResource creates a Resource. Call Init before registering actions.
func NewResource(p Prefix) *Resource {
	return &Resource{Controller: NewController(p)}
}

// Register creates the tap for a resource action. Identified actions (show,
// edit, update, destroy) additionally constrain id with IDPattern unless a
// constraint for id is already set. Unknown action names are ignored and
// return nil.
func (r *Resource) Register(name string, comps Components) *route.Tap {
	entry, ok := LookupRestful(name)
	if !ok {
		return nil
	}

	tap := r.Action(name, NewMap(entry.Rule, entry.Methods...), comps)
	if slices.Contains(identified, name) {
		tap.Where(map[string]string{"id": IDPattern})
	}

	return tap
}
