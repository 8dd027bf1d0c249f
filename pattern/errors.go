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

package pattern

import (
	"errors"
	"fmt"
)

// ErrEmptyParamName indicates that a constraint was registered under an empty name.
var ErrEmptyParamName = errors.New("parameter name cannot be empty")

// ErrDuplicateParam indicates that a rule uses the same parameter name twice,
// e.g. "{id}/{id}" or "a/{id?}/{id}".
var ErrDuplicateParam = errors.New("duplicate parameter name")

// CompileError reports a rule template that could not be turned into a valid
// regular expression. Expr holds the generated expression so that conflicting
// or malformed constraint fragments can be spotted in logs.
type CompileError struct {
	Rule string // Rule template as written
	Expr string // Generated regular expression, empty if generation failed
	Err  error  // Underlying error
}

// Error returns a formatted error message including the offending rule.
func (e *CompileError) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("pattern: cannot compile rule %q (%s): %v", e.Rule, e.Expr, e.Err)
	}
	return fmt.Sprintf("pattern: cannot compile rule %q: %v", e.Rule, e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
