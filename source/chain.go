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

package source

import (
	"context"

	"rivaas.dev/dispatch/declare"
)

// Chain returns a provider listing the sources of every provider in order.
// The first provider error is returned.
func Chain(providers ...declare.Provider) declare.Provider {
	return declare.ProviderFunc(func(ctx context.Context) ([]declare.Source, error) {
		var all []declare.Source
		for _, p := range providers {
			sources, err := p.Sources(ctx)
			if err != nil {
				return nil, err
			}
			all = append(all, sources...)
		}
		return all, nil
	})
}
