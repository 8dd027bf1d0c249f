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
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

type compressionConfig struct {
	gzipLevel    int
	brotliLevel  int
	enableGzip   bool
	enableBrotli bool
	excludePaths map[string]bool
}

// CompressionOption configures Compression.
type CompressionOption func(*compressionConfig)

// WithGzipLevel sets the gzip level, 0 to 9. Default: gzip.DefaultCompression
func WithGzipLevel(level int) CompressionOption {
	return func(c *compressionConfig) {
		c.gzipLevel = level
	}
}

// WithBrotliLevel sets the Brotli level, clamped to 0..11. Default: 4
func WithBrotliLevel(level int) CompressionOption {
	return func(c *compressionConfig) {
		c.brotliLevel = max(0, min(level, 11))
	}
}

// WithBrotliDisabled compresses with gzip only.
func WithBrotliDisabled() CompressionOption {
	return func(c *compressionConfig) {
		c.enableBrotli = false
	}
}

// WithGzipDisabled compresses with Brotli only.
func WithGzipDisabled() CompressionOption {
	return func(c *compressionConfig) {
		c.enableGzip = false
	}
}

// WithCompressionExcludePaths leaves responses for exact paths untouched.
func WithCompressionExcludePaths(paths ...string) CompressionOption {
	return func(c *compressionConfig) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// Compression encodes response bodies with Brotli or gzip according to
// Accept-Encoding. Brotli is preferred when both are accepted.
func Compression(opts ...CompressionOption) Middleware {
	cfg := &compressionConfig{
		gzipLevel:    gzip.DefaultCompression,
		brotliLevel:  4,
		enableGzip:   true,
		enableBrotli: true,
		excludePaths: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Encoding")

			encoding := cfg.negotiate(r.Header.Get("Accept-Encoding"))
			if encoding == "" || r.Method == http.MethodHead || cfg.excludePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			cw := &compressWriter{ResponseWriter: w, encoding: encoding, cfg: cfg}
			defer func() { _ = cw.Close() }()
			next.ServeHTTP(cw, r)
		})
	}
}

func (c *compressionConfig) negotiate(accept string) string {
	var br, gz bool
	for part := range strings.SplitSeq(accept, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !acceptable(params) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "br":
			br = true
		case "gzip":
			gz = true
		}
	}
	switch {
	case br && c.enableBrotli:
		return "br"
	case gz && c.enableGzip:
		return "gzip"
	default:
		return ""
	}
}

// acceptable reports whether the parameters of an Accept-Encoding entry allow
// the coding. A q-value of zero or one that does not parse refuses it.
func acceptable(params string) bool {
	for param := range strings.SplitSeq(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && q > 0
	}
	return true
}

// compressWriter holds the status until the first body write, then decides
// whether to encode. Responses that are already encoded or have no body pass
// through.
type compressWriter struct {
	http.ResponseWriter
	encoding    string
	cfg         *compressionConfig
	w           io.WriteCloser
	status      int
	started     bool
	passthrough bool
}

func (cw *compressWriter) WriteHeader(code int) {
	if cw.status == 0 {
		cw.status = code
	}
}

func (cw *compressWriter) start() error {
	if cw.started {
		return nil
	}
	cw.started = true
	if cw.status == 0 {
		cw.status = http.StatusOK
	}

	h := cw.Header()
	if h.Get("Content-Encoding") != "" || cw.status == http.StatusNoContent || cw.status == http.StatusNotModified {
		cw.passthrough = true
		cw.ResponseWriter.WriteHeader(cw.status)
		return nil
	}

	if cw.encoding == "br" {
		cw.w = brotli.NewWriterLevel(cw.ResponseWriter, cw.cfg.brotliLevel)
	} else {
		gw, err := gzip.NewWriterLevel(cw.ResponseWriter, cw.cfg.gzipLevel)
		if err != nil {
			cw.passthrough = true
			cw.ResponseWriter.WriteHeader(cw.status)
			return err
		}
		cw.w = gw
	}
	h.Set("Content-Encoding", cw.encoding)
	h.Del("Content-Length")
	cw.ResponseWriter.WriteHeader(cw.status)
	return nil
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if err := cw.start(); err != nil {
		return 0, err
	}
	if cw.passthrough {
		return cw.ResponseWriter.Write(b)
	}
	return cw.w.Write(b)
}

// Close flushes the encoder, or sends a held status of a response without body.
func (cw *compressWriter) Close() error {
	if !cw.started {
		if cw.status != 0 {
			cw.ResponseWriter.WriteHeader(cw.status)
		}
		return nil
	}
	if cw.w == nil {
		return nil
	}
	return cw.w.Close()
}

func (cw *compressWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
