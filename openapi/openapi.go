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

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/pattern"
	"rivaas.dev/dispatch/route"
)

//go:embed schema.json
var schemaDocument []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDocument))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource("openapi.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("openapi.json")
})

// maxOptional bounds the combinations expanded for one rule.
const maxOptional = 4

// standardMethods are the methods an OpenAPI path item can hold, in the
// order used for the wildcard method.
var standardMethods = []string{
	http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete,
	http.MethodOptions, http.MethodHead, http.MethodPatch, http.MethodTrace,
}

var operationIDCleaner = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// API holds the document metadata.
type API struct {
	info   Info
	scheme string
}

// Option configures an API.
type Option func(*API)

// WithTitle sets info.title and info.version.
func WithTitle(title, version string) Option {
	return func(a *API) {
		a.info.Title = title
		a.info.Version = version
	}
}

// WithDescription sets info.description.
func WithDescription(description string) Option {
	return func(a *API) {
		a.info.Description = description
	}
}

// WithScheme sets the scheme of domain server URLs. Default: https
func WithScheme(scheme string) Option {
	return func(a *API) {
		a.scheme = scheme
	}
}

// New returns an API with title "dispatch" and version "0.0.0" unless
// configured otherwise.
func New(opts ...Option) *API {
	a := &API{
		info:   Info{Title: "dispatch", Version: "0.0.0"},
		scheme: "https",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is a generated document and its warnings.
type Result struct {
	Document *Document
	Warnings []Warning
}

// Encode serializes the document with the codec registered for format.
func (r *Result) Encode(format codec.Type) ([]byte, error) {
	enc, err := codec.GetEncoder(format)
	if err != nil {
		return nil, err
	}
	return enc.Encode(r.Document)
}

// Build describes entries, usually reg.Routes(), as a document.
//
// Errors:
//   - Returns error if the document does not pass the embedded schema
func (a *API) Build(entries []dispatch.Entry) (*Result, error) {
	b := &docBuilder{
		api: a,
		doc: &Document{
			OpenAPI: Version,
			Info:    a.info,
			Paths:   make(map[string]PathItem),
		},
		ids:    make(map[string]bool),
		warned: make(map[Warning]bool),
	}
	for _, e := range entries {
		b.add(e)
	}
	for _, item := range b.doc.Paths {
		for _, op := range item {
			if op.anyDomain {
				op.Servers = nil
			}
		}
	}

	if err := validate(b.doc); err != nil {
		return nil, err
	}
	return &Result{Document: b.doc, Warnings: b.warnings}, nil
}

type docBuilder struct {
	api      *API
	doc      *Document
	ids      map[string]bool
	warned   map[Warning]bool
	warnings []Warning
}

// warn records a warning once, however many entries share the rule.
func (b *docBuilder) warn(code WarningCode, rule, format string, args ...any) {
	w := Warning{Code: code, Rule: rule, Message: fmt.Sprintf(format, args...)}
	if b.warned[w] {
		return
	}
	b.warned[w] = true
	b.warnings = append(b.warnings, w)
}

func (b *docBuilder) add(e dispatch.Entry) {
	rule := e.Rule

	methods := []string{e.Method}
	if e.Method == dispatch.Wildcard {
		methods = standardMethods
	}

	variants := b.expand(rule)
	for _, method := range methods {
		if !slices.Contains(standardMethods, method) {
			b.warn(WarnUnsupportedMethod, rule, "method %s skipped", method)
			continue
		}
		for _, v := range variants {
			b.addOperation(e, method, v)
		}
	}
}

// variant is one path produced from a rule and the parameters it contains.
type variant struct {
	path   string
	params []string
}

// expand converts rule into OpenAPI paths, one per combination of present
// optional placeholders, fullest first.
func (b *docBuilder) expand(rule string) []variant {
	phs := pattern.Placeholders(rule)

	var optional []int
	for i, ph := range phs {
		if ph.Optional {
			optional = append(optional, i)
		}
	}

	masks := make([]int, 0, 1<<len(optional))
	if len(optional) > maxOptional {
		b.warn(WarnTooManyOptional, rule, "%d optional placeholders", len(optional))
		masks = append(masks, 1<<len(optional)-1, 0)
	} else {
		for m := 1<<len(optional) - 1; m >= 0; m-- {
			masks = append(masks, m)
		}
	}

	variants := make([]variant, 0, len(masks))
	for _, mask := range masks {
		present := make(map[int]bool, len(optional))
		for bit, idx := range optional {
			present[idx] = mask&(1<<bit) != 0
		}

		var sb strings.Builder
		var params []string
		pos := 0
		for i, ph := range phs {
			sb.WriteString(rule[pos:ph.Start])
			pos = ph.End
			if ph.Optional && !present[i] {
				if ph.Separator != 0 {
					s := sb.String()
					sb.Reset()
					sb.WriteString(s[:len(s)-1])
				}
				continue
			}
			sb.WriteString("{" + ph.Name + "}")
			params = append(params, ph.Name)
		}
		sb.WriteString(rule[pos:])

		variants = append(variants, variant{path: "/" + strings.TrimLeft(sb.String(), "/"), params: params})
	}
	return variants
}

func (b *docBuilder) addOperation(e dispatch.Entry, method string, v variant) {
	item, ok := b.doc.Paths[v.path]
	if !ok {
		item = make(PathItem)
		b.doc.Paths[v.path] = item
	}

	key := strings.ToLower(method)
	handler := e.Route.Handler().String()

	if op, ok := item[key]; ok {
		if op.Handler != handler {
			b.warn(WarnOperationConflict, e.Rule, "%s %s already served by %s", method, v.path, op.Handler)
			return
		}
		b.addServer(op, e.Domain)
		return
	}

	op := &Operation{
		OperationID: b.operationID(handler, method),
		Summary:     handler,
		Responses:   map[string]Response{"default": {Description: "Response of " + handler}},
		Handler:     handler,
		Rule:        e.Rule,
		Cache:       e.Route.CacheDuration(),
	}
	if n, ok := e.Route.Handler().(route.Named); ok && n.Class() != "" {
		op.Tags = []string{n.Class()}
	}
	for _, mw := range e.Route.Middlewares().All() {
		name := mw.Name
		if len(mw.Args) > 0 {
			name += ":" + strings.Join(mw.Args, ",")
		}
		op.Middlewares = append(op.Middlewares, name)
	}

	where := e.Route.Where()
	for _, name := range v.params {
		fragment, ok := where[name]
		if !ok {
			fragment = pattern.DefaultFragment
		}
		op.Parameters = append(op.Parameters, Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   Schema{Type: "string", Pattern: "^" + fragment + "$"},
		})
	}

	b.addServer(op, e.Domain)
	item[key] = op
}

func (b *docBuilder) addServer(op *Operation, domain string) {
	if domain == dispatch.Wildcard {
		op.anyDomain = true
		return
	}
	s := Server{URL: b.api.scheme + "://" + domain}
	if !slices.Contains(op.Servers, s) {
		op.Servers = append(op.Servers, s)
	}
}

// operationID derives a unique identifier from the handler name, adding the
// method and then a counter when needed.
func (b *docBuilder) operationID(handler, method string) string {
	base := strings.Trim(operationIDCleaner.ReplaceAllString(handler, "_"), "_")
	if base == "" {
		base = "operation"
	}

	id := base
	if b.ids[id] {
		id = base + "_" + strings.ToLower(method)
	}
	for n := 2; b.ids[id]; n++ {
		id = fmt.Sprintf("%s_%s_%d", base, strings.ToLower(method), n)
	}
	b.ids[id] = true
	return id
}

func validate(doc *Document) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile openapi schema: %w", err)
	}
	data, err := codec.JSONCodec{}.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err = schema.Validate(inst); err != nil {
		return fmt.Errorf("invalid openapi document: %w", err)
	}
	return nil
}
