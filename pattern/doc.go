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

// Package pattern compiles rule templates into anchored regular expressions.
//
// A rule template is a path string made of literal segments and placeholder
// tokens:
//
//	{name}   required parameter
//	{name?}  optional parameter
//
// The three separator characters '/', '-' and '.' are treated specially. When an
// optional placeholder directly follows one of them, the separator becomes part
// of the optional group and is recorded in the pattern's prefix table:
//
//	"user/{format?}"  matches "user" and "user/json"
//	"file.{ext?}"     matches "file" and "file.txt"
//
// # Compilation
//
// Compile runs in three passes:
//
//  1. Escape every '/', '-' and '.' of the template.
//  2. Substitute each explicitly constrained parameter with its fragment.
//  3. Substitute every remaining placeholder with DefaultFragment (\w+).
//
// The result is wrapped in ^…$ and compiled once. Patterns are immutable and
// safe for concurrent use by multiple goroutines.
//
// Example:
//
//	p, err := pattern.Compile("posts/{id}-{slug?}", map[string]string{"id": `[1-9]\d*`})
//	if err != nil {
//	    return err
//	}
//	params, ok := p.Match("posts/42-hello") // {"id": "42", "slug": "hello"}
//
// # Matching
//
// Match expects a path without its leading '/'. A failed match is reported by
// the boolean result, never by an error. Values captured by optional
// parameters that have a recorded separator are returned with every leading
// occurrence of that separator removed.
package pattern
