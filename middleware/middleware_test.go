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

package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler("{}"), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Header().Get(RequestIDHeader)
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, id, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "client-id", seen)
}

func TestRequestID_Options(t *testing.T) {
	t.Parallel()

	h := RequestID(WithULID(), WithAllowClientID(false), WithRequestIDHeader("X-Correlation-ID"))(okHandler("{}"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "client-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	id := rec.Header().Get("X-Correlation-ID")
	assert.Len(t, id, 26)
	assert.NotEqual(t, "client-id", id)

	h = RequestID(WithGenerator(func() string { return "fixed" }))(okHandler("{}"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "fixed", rec.Header().Get(RequestIDHeader))

	assert.Empty(t, GetRequestID(context.Background()))
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(WithGenerator(func() string { return "req-1" })), Recovery(WithRecoveryLogger(logger), WithStackSize(512)))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/match", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "panic recovered", entry["msg"])
	assert.Equal(t, "boom", entry["panic"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecovery_CustomHandler(t *testing.T) {
	t.Parallel()

	h := Recovery(WithStackTrace(false), WithRecoveryHandler(func(w http.ResponseWriter, _ *http.Request, err any) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, err.(string))
	}))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("down")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "down", rec.Body.String())

	abort := Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.Panics(t, func() {
		abort.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	mux := http.NewServeMux()
	mux.Handle("/routes", okHandler(`{"routes":[]}`))
	mux.Handle("/metrics", okHandler("# metrics"))

	h := Chain(mux, RequestID(WithGenerator(func() string { return "req-2" })), AccessLog(logger, WithExcludePaths("/metrics")))

	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	req := httptest.NewRequest(http.MethodGet, "/routes?o=json", nil).WithContext(ctx)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	span.End()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "/routes", first["path"])
	assert.Equal(t, "o=json", first["query"])
	assert.EqualValues(t, http.StatusOK, first["status"])
	assert.EqualValues(t, len(`{"routes":[]}`), first["bytes"])
	assert.Equal(t, "203.0.113.7", first["client_ip"])
	assert.Equal(t, "req-2", first["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), first["trace_id"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "WARN", second["level"])
	assert.EqualValues(t, http.StatusNotFound, second["status"])
}

func TestAccessLog_ErrorsOnly(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	slowHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	h := AccessLog(logger, WithErrorsOnly())(okHandler("{}"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, logs.String())

	h = AccessLog(logger, WithErrorsOnly(), WithSlowThreshold(time.Millisecond))(slowHandler)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, logs.String(), `"slow":true`)
}

func TestCompression(t *testing.T) {
	t.Parallel()

	body := strings.Repeat(`{"rule":"users/{id}"}`, 50)

	tests := []struct {
		name     string
		accept   string
		opts     []CompressionOption
		encoding string
	}{
		{"brotli preferred", "gzip, br", nil, "br"},
		{"gzip", "gzip", nil, "gzip"},
		{"brotli disabled", "gzip, br", []CompressionOption{WithBrotliDisabled()}, "gzip"},
		{"gzip disabled", "gzip", []CompressionOption{WithGzipDisabled()}, ""},
		{"refused", "br;q=0, identity", nil, ""},
		{"refused with decimal zero", "gzip;q=0.0", nil, ""},
		{"refused with spaced zero", "br; q=0.000, gzip", nil, "gzip"},
		{"upper-case q", "gzip;Q=0", nil, ""},
		{"weighted", "br;q=0.5, gzip;q=0", nil, "br"},
		{"unparsable weight", "br;q=high, gzip", nil, "gzip"},
		{"none", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := Compression(tt.opts...)(okHandler(body))
			req := httptest.NewRequest(http.MethodGet, "/routes", nil)
			req.Header.Set("Accept-Encoding", tt.accept)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.encoding, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))

			var r io.Reader = rec.Body
			switch tt.encoding {
			case "br":
				r = brotli.NewReader(rec.Body)
			case "gzip":
				gr, err := gzip.NewReader(rec.Body)
				require.NoError(t, err)
				r = gr
			}
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, body, string(got))
		})
	}
}

func TestCompression_Passthrough(t *testing.T) {
	t.Parallel()

	h := Compression(WithCompressionExcludePaths("/metrics"))(okHandler("plain"))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "plain", rec.Body.String())

	noBody := Compression()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = httptest.NewRecorder()
	noBody.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}
