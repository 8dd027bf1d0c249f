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
	"regexp"
	"slices"
)

var placeholderRegex = regexp.MustCompile(`\{(\w+)(\?)?\}`)

// Placeholder is one {name} or {name?} token of a rule template.
type Placeholder struct {
	Name     string
	Optional bool
	// Separator is the '/', '-' or '.' directly before an optional token,
	// which Match treats as part of the optional value. 0 otherwise.
	Separator byte
	// Start and End are the byte offsets of the token in the rule.
	Start, End int
}

// Placeholders returns the tokens of rule in order of appearance.
//
// Example:
//
//	pattern.Placeholders("posts/{id}/{page?}")
//	// [{id false 0 6 10} {page true '/' 11 18}]
func Placeholders(rule string) []Placeholder {
	matches := placeholderRegex.FindAllStringSubmatchIndex(rule, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		ph := Placeholder{
			Name:     rule[m[2]:m[3]],
			Optional: m[4] >= 0,
			Start:    m[0],
			End:      m[1],
		}
		if ph.Optional && ph.Start > 0 && slices.Contains(separators[:], rule[ph.Start-1]) {
			ph.Separator = rule[ph.Start-1]
		}
		out = append(out, ph)
	}
	return out
}
