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

package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNil indicates that a nil declaration source was loaded.
	ErrSourceNil = errors.New("declaration source is nil")

	// ErrProviderNil indicates that a nil declaration provider was loaded.
	ErrProviderNil = errors.New("declaration provider is nil")

	// ErrUnknownGroupKind indicates a group descriptor with an unsupported kind.
	ErrUnknownGroupKind = errors.New("unknown group kind")
)

// Load operations reported by [LoadError].
const (
	OpGroup   = "group"
	OpInstall = "install"
	OpLoad    = "load"
)

// LoadError reports a declaration source that could not be loaded.
type LoadError struct {
	Source string // Name of the declaration source
	Action string // Action being installed (optional)
	Rule   string // Final rule of the route (optional)
	Op     string // Operation: group, install or load
	Err    error  // Underlying error
}

// Error returns a formatted error message with the source context.
func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dispatch: %s of source %s", e.Op, e.Source)
	if e.Action != "" {
		fmt.Fprintf(&b, " action %s", e.Action)
	}
	if e.Rule != "" {
		fmt.Fprintf(&b, " rule %q", e.Rule)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}
