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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/metrics"
	"rivaas.dev/dispatch/openapi"
)

func routesCmd(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("routes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var files stringsFlag
	fs.Var(&files, "f", "declaration file (repeatable)")
	output := fs.String("o", "", "output format: json, yaml, toml (default table)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	e, err := newEnv(ctx, g, Config{Declarations: files}, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer e.close(context.WithoutCancel(ctx))

	reg, err := e.registry(ctx)
	if err != nil {
		return fail(stderr, err)
	}

	if *output == "" {
		renderRoutes(stdout, reg.Routes())
		return exitOK
	}
	if err = encode(stdout, *output, newRouteList(reg.Routes())); err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

func matchCmd(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var files stringsFlag
	fs.Var(&files, "f", "declaration file (repeatable)")
	method := fs.String("method", http.MethodGet, "request method")
	domain := fs.String("domain", dispatch.Wildcard, "request host")
	output := fs.String("o", "", "output format: json, yaml, toml (default text)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "match: expected exactly one path argument")
		return exitUsage
	}
	path := fs.Arg(0)

	e, err := newEnv(ctx, g, Config{Declarations: files}, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer e.close(context.WithoutCancel(ctx))

	reg, err := e.registry(ctx)
	if err != nil {
		return fail(stderr, err)
	}

	m, ok := reg.Search(path, *method, *domain)
	if !ok {
		fmt.Fprintf(stderr, "no route for %s %s %s\n", *method, *domain, path)
		return exitFail
	}

	if *output == "" {
		renderMatch(stdout, m)
		return exitOK
	}
	if err = encode(stdout, *output, newMatchView(m)); err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

func openapiCmd(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("openapi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var files stringsFlag
	fs.Var(&files, "f", "declaration file (repeatable)")
	output := fs.String("o", string(codec.TypeYAML), "output format: json, yaml")
	title := fs.String("title", "dispatch", "info.title")
	version := fs.String("version", "0.0.0", "info.version")
	scheme := fs.String("scheme", "https", "scheme of per-domain server URLs")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	format := codec.Type(*output)
	if format != codec.TypeJSON && format != codec.TypeYAML {
		fmt.Fprintf(stderr, "openapi: unsupported output format %q\n", *output)
		return exitUsage
	}

	e, err := newEnv(ctx, g, Config{Declarations: files}, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer e.close(context.WithoutCancel(ctx))

	reg, err := e.registry(ctx)
	if err != nil {
		return fail(stderr, err)
	}

	api := openapi.New(openapi.WithTitle(*title, *version), openapi.WithScheme(*scheme))
	result, err := api.Build(reg.Routes())
	if err != nil {
		return fail(stderr, err)
	}
	for _, w := range result.Warnings {
		e.logger.Warn("openapi warning", "code", string(w.Code), "rule", w.Rule, "message", w.Message)
	}

	data, err := result.Encode(format)
	if err != nil {
		return fail(stderr, err)
	}
	if _, err = stdout.Write(data); err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

func serveCmd(ctx context.Context, g globals, args []string, _, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var files stringsFlag
	fs.Var(&files, "f", "declaration file (repeatable)")
	addr := fs.String("addr", "", "listen address (default :8080)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	e, err := newEnv(ctx, g, Config{Declarations: files, Addr: *addr}, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer e.close(context.WithoutCancel(ctx))

	recorder, err := newRecorder(e)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() {
		if err := recorder.Shutdown(context.WithoutCancel(ctx)); err != nil {
			e.logger.Warn("metrics shutdown failed", "error", err)
		}
	}()

	reg, err := e.registry(ctx, dispatch.WithRecorder(recorder))
	if err != nil {
		return fail(stderr, err)
	}

	srv := &http.Server{
		Addr:              e.cfg.Addr,
		Handler:           newServer(reg, recorder.Handler(), e.tracer, e.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printBanner(stderr, bannerInfo{
		Addr:    e.cfg.Addr,
		Routes:  reg.Len(),
		Metrics: string(recorder.Provider()),
		Tracing: string(e.tracer.Provider()),
	})

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("serving", "addr", e.cfg.Addr, "routes", reg.Len(), "metrics", recorder.Provider())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail(stderr, err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		e.logger.Info("shutting down")
		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fail(stderr, err)
		}
	}
	return exitOK
}

func newRecorder(e *env) (*metrics.Recorder, error) {
	opts := []metrics.Option{
		metrics.WithServiceName("dispatchctl"),
		metrics.WithLogger(e.logger),
	}
	switch metrics.Provider(e.cfg.Metrics.Provider) {
	case metrics.PrometheusProvider:
		opts = append(opts, metrics.WithPrometheus())
	case metrics.OTLPProvider:
		opts = append(opts, metrics.WithOTLP(e.cfg.Metrics.Endpoint))
	case metrics.StdoutProvider:
		opts = append(opts, metrics.WithStdout())
	default:
		return nil, fmt.Errorf("unsupported metrics provider: %s", e.cfg.Metrics.Provider)
	}
	return metrics.New(opts...)
}
