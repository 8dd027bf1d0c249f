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

// Registrar stores installed routes.
// It is implemented by the dispatch Registry; nil or empty methods and domains
// mean the wildcard "*".
type Registrar interface {
	Set(r *Route, methods, domains []string)
}

// RegistrarFunc adapts a function to the Registrar interface.
type RegistrarFunc func(r *Route, methods, domains []string)

// Set calls f(r, methods, domains).
func (f RegistrarFunc) Set(r *Route, methods, domains []string) {
	f(r, methods, domains)
}
