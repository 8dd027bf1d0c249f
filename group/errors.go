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

import "fmt"

// InstallError reports a route of a group that could not be installed.
type InstallError struct {
	Class  string // Class identifier of the group
	Action string // Action name
	Rule   string // Final rule of the route
	Err    error  // Underlying error
}

// Error returns a formatted error message with the group context.
func (e *InstallError) Error() string {
	return fmt.Sprintf("group %s: action %s: rule %q: %v", e.Class, e.Action, e.Rule, e.Err)
}

// Unwrap returns the underlying error.
func (e *InstallError) Unwrap() error {
	return e.Err
}
