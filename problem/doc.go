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

// Package problem writes errors as RFC 9457 problem details
// (application/problem+json).
//
// Errors choose their status and type through optional interfaces:
//
//   - [StatusCoder]: HTTPStatus() int, defaults to 500
//   - [Coder]: Code() string, becomes the problem type (under the base URL) and a "code" member
//
// [WithStatus] and [WithCode] attach both to any error:
//
//	err := problem.WithCode(problem.WithStatus(errNoRoute, http.StatusNotFound), "route-not-found")
//	problem.New("https://dispatch.rivaas.dev/problems").Write(w, r, err)
package problem
