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

package openapi

import "fmt"

// WarningCode identifies a kind of warning.
type WarningCode string

const (
	// WarnOperationConflict: two handlers map to the same path and method.
	// The first one is kept.
	WarnOperationConflict WarningCode = "OPERATION_CONFLICT"
	// WarnUnsupportedMethod: the method has no OpenAPI operation field.
	WarnUnsupportedMethod WarningCode = "UNSUPPORTED_METHOD"
	// WarnTooManyOptional: only the fullest and the shortest paths were emitted.
	WarnTooManyOptional WarningCode = "TOO_MANY_OPTIONAL"
)

// Warning is a non-fatal generation issue.
type Warning struct {
	Code    WarningCode
	Rule    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: rule %q: %s", w.Code, w.Rule, w.Message)
}
