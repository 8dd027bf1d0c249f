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
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

type recoveryConfig struct {
	logger     *slog.Logger
	handler    func(w http.ResponseWriter, r *http.Request, err any)
	stackTrace bool
	stackSize  int
}

// RecoveryOption configures Recovery.
type RecoveryOption func(*recoveryConfig)

// WithRecoveryLogger logs recovered panics to logger.
func WithRecoveryLogger(logger *slog.Logger) RecoveryOption {
	return func(c *recoveryConfig) {
		c.logger = logger
	}
}

// WithRecoveryHandler replaces the default 500 response.
func WithRecoveryHandler(fn func(w http.ResponseWriter, r *http.Request, err any)) RecoveryOption {
	return func(c *recoveryConfig) {
		c.handler = fn
	}
}

// WithStackTrace enables or disables stack capture in the log record.
// Default: true
func WithStackTrace(enabled bool) RecoveryOption {
	return func(c *recoveryConfig) {
		c.stackTrace = enabled
	}
}

// WithStackSize limits the captured stack in bytes. Default: 4KB
func WithStackSize(size int) RecoveryOption {
	return func(c *recoveryConfig) {
		if size > 0 {
			c.stackSize = size
		}
	}
}

// Recovery turns a handler panic into a 500 response. http.ErrAbortHandler
// is re-raised.
func Recovery(opts ...RecoveryOption) Middleware {
	cfg := &recoveryConfig{stackTrace: true, stackSize: 4 << 10}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.handler == nil {
		cfg.handler = func(w http.ResponseWriter, _ *http.Request, _ any) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				if cfg.logger != nil {
					attrs := []any{
						"panic", fmt.Sprint(rec),
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
					}
					if cfg.stackTrace {
						buf := make([]byte, cfg.stackSize)
						buf = buf[:runtime.Stack(buf, false)]
						attrs = append(attrs, "stack", string(buf))
					}
					cfg.logger.ErrorContext(r.Context(), "panic recovered", attrs...)
				}
				cfg.handler(w, r, rec)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
