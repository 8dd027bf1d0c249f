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

import "errors"

var (
	// ErrTapInstalled indicates that a Tap was installed more than once.
	ErrTapInstalled = errors.New("route: tap already installed")

	// ErrRegistrarNil indicates that Install was called without a registrar.
	ErrRegistrarNil = errors.New("route: registrar is nil")
)
