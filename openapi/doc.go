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

// Package openapi describes the routes of a registry as an OpenAPI 3.0
// document.
//
// Every stored (domain, method, rule) entry becomes an operation:
//
//   - the rule becomes the path, placeholders become path parameters whose
//     schema pattern is the route constraint (or \w+)
//   - optional placeholders cannot be expressed in OpenAPI, so a rule with
//     optional placeholders yields one path per present/absent combination
//   - the wildcard method yields one operation per standard method
//   - a domain other than the wildcard becomes an operation server
//   - the handler, middlewares and cache duration are kept as x- extensions
//
// Issues that do not stop generation are reported as warnings:
//
//	api := openapi.New(openapi.WithTitle("Widgets", "1.0.0"))
//	result, err := api.Build(reg.Routes())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    log.Println(w)
//	}
//	data, err := result.Encode(codec.TypeYAML)
//
// The document is checked against an embedded JSON schema before it is returned.
package openapi
