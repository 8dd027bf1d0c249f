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

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType selects the record format.
type HandlerType string

const (
	// JSONHandler writes one JSON object per record.
	JSONHandler HandlerType = "json"
	// TextHandler writes key=value records.
	TextHandler HandlerType = "text"
	// ConsoleHandler writes human-readable colored records.
	ConsoleHandler HandlerType = "console"
)

// redacted lists attribute keys whose values are never written.
var redacted = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret":        {},
	"api_key":       {},
	"authorization": {},
}

type config struct {
	handlerType    HandlerType
	output         io.Writer
	level          slog.Leveler
	addSource      bool
	serviceName    string
	serviceVersion string
	registerGlobal bool
}

// Option configures New.
type Option func(*config)

// New builds a logger.
//
// Errors:
//   - Returns [ErrInvalidHandler] for an unknown handler type
func New(opts ...Option) (*slog.Logger, error) {
	cfg := &config{
		handlerType: JSONHandler,
		output:      os.Stderr,
		level:       slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	hopts := &slog.HandlerOptions{
		Level:       cfg.level,
		AddSource:   cfg.addSource,
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	switch cfg.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(cfg.output, hopts)
	case TextHandler:
		handler = slog.NewTextHandler(cfg.output, hopts)
	case ConsoleHandler:
		handler = newConsoleHandler(cfg.output, hopts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandler, cfg.handlerType)
	}

	logger := slog.New(handler)

	var attrs []any
	if cfg.serviceName != "" {
		attrs = append(attrs, "service", cfg.serviceName)
	}
	if cfg.serviceVersion != "" {
		attrs = append(attrs, "version", cfg.serviceVersion)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}

	if cfg.registerGlobal {
		slog.SetDefault(logger)
	}
	return logger, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *slog.Logger {
	logger, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return logger
}

// ParseLevel converts a level name (debug, info, warn, error) into a level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
	return level, nil
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := redacted[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, "***REDACTED***")
	}
	return a
}

// WithHandlerType sets the record format.
func WithHandlerType(t HandlerType) Option {
	return func(c *config) {
		c.handlerType = t
	}
}

// WithOutput sets the destination. The default is stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLevel sets the minimum level. The default is info.
func WithLevel(level slog.Leveler) Option {
	return func(c *config) {
		if level != nil {
			c.level = level
		}
	}
}

// WithSource adds the source position to records.
func WithSource(enabled bool) Option {
	return func(c *config) {
		c.addSource = enabled
	}
}

// WithServiceName adds a service attribute to every record.
func WithServiceName(name string) Option {
	return func(c *config) {
		c.serviceName = name
	}
}

// WithServiceVersion adds a version attribute to every record.
func WithServiceVersion(version string) Option {
	return func(c *config) {
		c.serviceVersion = version
	}
}

// WithGlobalLogger also installs the logger with slog.SetDefault.
func WithGlobalLogger() Option {
	return func(c *config) {
		c.registerGlobal = true
	}
}
