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
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"rivaas.dev/dispatch/logging"
)

type accessLogConfig struct {
	excludePaths  map[string]bool
	slowThreshold time.Duration
	logErrorsOnly bool
}

// AccessLogOption configures AccessLog.
type AccessLogOption func(*accessLogConfig)

// WithExcludePaths skips logging for exact request paths.
func WithExcludePaths(paths ...string) AccessLogOption {
	return func(c *accessLogConfig) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithSlowThreshold logs requests slower than d at Warn.
func WithSlowThreshold(d time.Duration) AccessLogOption {
	return func(c *accessLogConfig) {
		c.slowThreshold = d
	}
}

// WithErrorsOnly logs only responses with status >= 400 or slow requests.
func WithErrorsOnly() AccessLogOption {
	return func(c *accessLogConfig) {
		c.logErrorsOnly = true
	}
}

// AccessLog logs one record per request with method, path, status, size,
// duration, client IP, request ID and trace IDs.
// 5xx responses are logged at Error, 4xx and slow requests at Warn.
func AccessLog(logger *slog.Logger, opts ...AccessLogOption) Middleware {
	cfg := &accessLogConfig{excludePaths: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.excludePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)

			slow := cfg.slowThreshold > 0 && elapsed >= cfg.slowThreshold
			level := slog.LevelInfo
			switch {
			case rw.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rw.status >= http.StatusBadRequest, slow:
				level = slog.LevelWarn
			}
			if cfg.logErrorsOnly && level == slog.LevelInfo {
				return
			}

			logging.WithTrace(r.Context(), logger).Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", rw.status,
				"bytes", rw.size,
				"duration", elapsed,
				"client_ip", clientIP(r),
				"user_agent", r.UserAgent(),
				"request_id", GetRequestID(r.Context()),
				"slow", slow,
			)
		})
	}
}

// clientIP prefers the first X-Forwarded-For entry, then X-Real-IP, then the
// remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusWriter records the status code and body size.
type statusWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
