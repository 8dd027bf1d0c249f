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

// Package logging builds the [slog.Logger] used by dispatch components.
//
// Three handler types are available: JSON (default), text and a console
// handler with colored levels for development. Service metadata is attached
// to every record and well-known secret keys are redacted:
//
//	logger, err := logging.New(
//	    logging.WithHandlerType(logging.ConsoleHandler),
//	    logging.WithLevel(slog.LevelDebug),
//	    logging.WithServiceName("dispatchctl"),
//	)
//	reg := dispatch.New(dispatch.WithLogger(logger))
//
// [WithTrace] adds the trace and span IDs of the active OpenTelemetry span.
package logging
