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
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// DefaultFragment is the expression used for placeholders without an explicit constraint.
const DefaultFragment = `\w+`

// separators lists the characters that may prefix an optional placeholder,
// in the order they are tried.
var separators = [...]byte{'/', '-', '.'}

// escaper escapes the separator characters before any substitution happens.
// Substitution inspects the escaped form (`\/{name?}`), so the order matters.
var escaper = strings.NewReplacer(`/`, `\/`, `-`, `\-`, `.`, `\.`)

// tokenRegex finds {name} and {name?} placeholders in an escaped template.
var tokenRegex = regexp.MustCompile(`\{(\w+)\??\}`)

// Params maps parameter names to captured values.
type Params map[string]string

// Pattern is a compiled rule template.
// It is built once by Compile and never modified afterwards.
type Pattern struct {
	rule        string
	expr        string
	re          *regexp.Regexp
	constraints map[string]string
	prefixes    map[string]byte
	names       []string
}

// Compile converts a rule template and its parameter constraints into a Pattern.
//
// Constraints map parameter names to regular-expression fragments. Parameters
// without a constraint use DefaultFragment. A constraint whose parameter does
// not appear in the rule is kept but has no effect on matching.
//
// Errors:
//   - Returns [*CompileError] wrapping [ErrEmptyParamName] for an empty constraint name
//   - Returns [*CompileError] wrapping [ErrDuplicateParam] if a parameter name is used twice
//   - Returns [*CompileError] if the generated expression is not a valid regular expression
func Compile(rule string, constraints map[string]string) (*Pattern, error) {
	b := builder{
		expr:     escaper.Replace(rule),
		prefixes: make(map[string]byte),
	}
	tokens := b.expr

	// Explicit constraints first, in a stable order.
	for _, name := range slices.Sorted(maps.Keys(constraints)) {
		if name == "" {
			return nil, &CompileError{Rule: rule, Err: ErrEmptyParamName}
		}
		b.replace(name, constraints[name])
	}

	// Remaining placeholders are discovered in the escaped template rather than
	// in the partially substituted expression, so a quantifier such as \d{2}
	// inside a constraint fragment is never taken for a placeholder.
	for _, m := range tokenRegex.FindAllStringSubmatch(tokens, -1) {
		if !strings.Contains(b.expr, m[0]) {
			continue
		}
		b.replace(m[1], DefaultFragment)
	}

	expr := "^" + b.expr + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &CompileError{Rule: rule, Expr: expr, Err: err}
	}
	names := make([]string, 0, re.NumSubexp())
	for _, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		if slices.Contains(names, name) {
			return nil, &CompileError{Rule: rule, Expr: expr, Err: fmt.Errorf("%w: %s", ErrDuplicateParam, name)}
		}
		names = append(names, name)
	}

	p := &Pattern{
		rule:        rule,
		expr:        expr,
		re:          re,
		constraints: maps.Clone(constraints),
		prefixes:    b.prefixes,
		names:       names,
	}
	if p.constraints == nil {
		p.constraints = map[string]string{}
	}

	return p, nil
}

// MustCompile is like Compile but panics if the rule cannot be compiled.
// Use it for rules known at build time.
func MustCompile(rule string, constraints map[string]string) *Pattern {
	p, err := Compile(rule, constraints)
	if err != nil {
		panic(err)
	}
	return p
}

// builder accumulates the substituted expression during compilation.
type builder struct {
	expr     string
	prefixes map[string]byte
}

// replace substitutes every token of the named parameter with a named capture
// group built around fragment. Checked in order: optional token preceded by an
// escaped separator, bare optional token, required token.
func (b *builder) replace(name, fragment string) {
	optional := "{" + name + "?}"

	for _, sep := range separators {
		escaped := `\` + string(sep)
		token := escaped + optional
		if strings.Contains(b.expr, token) {
			b.expr = strings.ReplaceAll(b.expr, token, "(?P<"+name+">("+escaped+fragment+")?)")
			b.prefixes[name] = sep
			return
		}
	}

	if strings.Contains(b.expr, optional) {
		b.expr = strings.ReplaceAll(b.expr, optional, "(?P<"+name+">("+fragment+")?)")
		return
	}

	b.expr = strings.ReplaceAll(b.expr, "{"+name+"}", "(?P<"+name+">"+fragment+")")
}

// Match reports whether path matches the pattern and returns the captured
// parameters. The caller strips the leading '/' from path.
//
// Every named group appears in the result; optional parameters that did not
// participate map to the empty string.
func (p *Pattern) Match(path string) (Params, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(Params, len(p.names))
	for i, name := range p.re.SubexpNames() {
		if name == "" {
			continue
		}
		params[name] = p.value(name, m[i])
	}

	return params, true
}

// value post-processes a captured value.
//
// TrimLeft removes every leading separator, not just the one the optional
// group consumed: a raw "///x" becomes "x". Existing routes depend on this, so
// it is kept, but it is most likely a latent defect (a single strip was
// probably intended).
func (p *Pattern) value(name, raw string) string {
	if sep, ok := p.prefixes[name]; ok {
		return strings.TrimLeft(raw, string(sep))
	}
	return raw
}

// Rule returns the rule template the pattern was compiled from.
func (p *Pattern) Rule() string {
	return p.rule
}

// String returns the generated regular expression.
func (p *Pattern) String() string {
	return p.expr
}

// Names returns the parameter names in the order they appear in the expression.
func (p *Pattern) Names() []string {
	return slices.Clone(p.names)
}

// Prefixes returns a copy of the prefix table: optional parameter name to the
// separator stripped from its value.
func (p *Pattern) Prefixes() map[string]byte {
	return maps.Clone(p.prefixes)
}

// Constraints returns a copy of the explicit constraints used to build the pattern.
func (p *Pattern) Constraints() map[string]string {
	return maps.Clone(p.constraints)
}

// IsStatic reports whether the rule has no parameters.
func (p *Pattern) IsStatic() bool {
	return len(p.names) == 0
}
