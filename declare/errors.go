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
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind indicates a group kind other than controller or resource.
	ErrUnknownKind = errors.New("unknown group kind")

	// ErrPrefixAndLevel indicates a group declaring both a prefix and a level.
	ErrPrefixAndLevel = errors.New("group prefix and level are mutually exclusive")
)

// DecodeError reports a declaration document that could not be turned into sources.
type DecodeError struct {
	Stage string // "schema", "decode", "validate" or "build"
	Class string // Class name, when the failure is specific to one class
	Err   error  // Underlying error
}

// Error returns a formatted error message with the stage and class.
func (e *DecodeError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("declare: %s of class %s: %v", e.Stage, e.Class, e.Err)
	}
	return fmt.Sprintf("declare: %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
