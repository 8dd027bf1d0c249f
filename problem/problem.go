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

package problem

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"time"

	"rivaas.dev/dispatch/codec"
)

// ContentType is the media type of a problem response.
const ContentType = "application/problem+json; charset=utf-8"

// StatusCoder is implemented by errors that declare their HTTP status.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// Coder is implemented by errors that carry a machine-readable code.
type Coder interface {
	error
	Code() string
}

// Detail is an RFC 9457 problem detail. Extensions are written inline.
type Detail struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

var reserved = map[string]bool{"type": true, "title": true, "status": true, "detail": true, "instance": true}

// MarshalJSON writes the members and the extensions in one object.
// Extensions never replace a standard member.
func (d Detail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 5+len(d.Extensions))
	for k, v := range d.Extensions {
		if !reserved[k] {
			m[k] = v
		}
	}
	m["type"] = d.Type
	m["title"] = d.Title
	m["status"] = d.Status
	if d.Detail != "" {
		m["detail"] = d.Detail
	}
	if d.Instance != "" {
		m["instance"] = d.Instance
	}
	return codec.JSONCodec{}.Encode(m)
}

// Writer formats errors as problem details.
type Writer struct {
	baseURL        string
	disableErrorID bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithoutErrorID omits the generated error_id member.
func WithoutErrorID() Option {
	return func(w *Writer) {
		w.disableErrorID = true
	}
}

// New returns a Writer. baseURL prefixes the codes of [Coder] errors to form
// the problem type; without a code the type is "about:blank".
func New(baseURL string, opts ...Option) *Writer {
	w := &Writer{baseURL: baseURL}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Format builds the problem detail for err.
func (pw *Writer) Format(r *http.Request, err error) Detail {
	status := http.StatusInternalServerError
	var sc StatusCoder
	if errors.As(err, &sc) {
		status = sc.HTTPStatus()
	}

	d := Detail{
		Type:       "about:blank",
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Instance:   r.URL.Path,
		Extensions: make(map[string]any),
	}

	var c Coder
	if errors.As(err, &c) {
		d.Extensions["code"] = c.Code()
		d.Type = c.Code()
		if pw.baseURL != "" {
			d.Type = pw.baseURL + "/" + c.Code()
		}
	}

	if !pw.disableErrorID {
		d.Extensions["error_id"] = newErrorID()
	}
	return d
}

// Write formats err and writes it as the response.
func (pw *Writer) Write(w http.ResponseWriter, r *http.Request, err error, extensions ...map[string]any) {
	d := pw.Format(r, err)
	for _, ext := range extensions {
		maps.Copy(d.Extensions, ext)
	}

	data, mErr := d.MarshalJSON()
	if mErr != nil {
		http.Error(w, err.Error(), d.Status)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(d.Status)
	_, _ = w.Write(data)
}

// WithStatus wraps err with an HTTP status. A nil err uses the status text.
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) HTTPStatus() int { return e.status }

// WithCode wraps err with a machine-readable code.
func WithCode(err error, code string) error {
	return &codeError{err: err, code: code}
}

type codeError struct {
	err  error
	code string
}

func (e *codeError) Error() string {
	if e.err == nil {
		return e.code
	}
	return e.err.Error()
}

func (e *codeError) Unwrap() error { return e.err }
func (e *codeError) Code() string  { return e.code }

func newErrorID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}
	return "err-" + hex.EncodeToString(b)
}
