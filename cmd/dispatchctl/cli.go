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
	"log/slog"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/redis/go-redis/v9"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/declare"
	"rivaas.dev/dispatch/logging"
	"rivaas.dev/dispatch/source"
	"rivaas.dev/dispatch/tracing"
)

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

var (
	errMissingCommand = errors.New("missing command")
	errUnknownCommand = errors.New("unknown command")
	errNoDeclarations = errors.New("no declarations: use -f or set declarations or consul.key in the config file")
)

type commandFunc func(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) int

var commands map[string]commandFunc

func init() {
	commands = map[string]commandFunc{
		"routes":  routesCmd,
		"match":   matchCmd,
		"openapi": openapiCmd,
		"serve":   serveCmd,
		"help":    helpCmd,
	}
}

// globals are the flags accepted before the command name.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
}

// stringsFlag collects a repeatable flag.
type stringsFlag []string

func (s *stringsFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dispatchctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	var g globals
	fs.StringVar(&g.configPath, "config", "", "configuration file (yaml, toml or json)")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&g.logFormat, "log-format", "", "log format: json, text, console")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, errMissingCommand)
		printUsage(stderr)
		return exitUsage
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "%v: %s\n", errUnknownCommand, rest[0])
		printUsage(stderr)
		return exitUsage
	}
	return cmd(ctx, g, rest[1:], stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: dispatchctl [-config file] [-log-level level] [-log-format format] <command> [flags]

Commands:
  routes  -f decl.yaml [-o json|yaml|toml]                   print the route table
  match   -f decl.yaml [-method GET] [-domain host] <path>   resolve a request
  openapi -f decl.yaml [-o json|yaml] [-title t]             describe the routes as OpenAPI
  serve   -f decl.yaml [-addr :8080]                         serve /routes, /match, /openapi.json and /metrics
  help                                                       print this help
`)
}

func helpCmd(_ context.Context, _ globals, _ []string, stdout, _ io.Writer) int {
	printUsage(stdout)
	return exitOK
}

// env is what every command needs after flags and configuration are resolved.
type env struct {
	cfg     Config
	logger  *slog.Logger
	tracer  *tracing.Tracer
	closers []io.Closer
}

func newEnv(ctx context.Context, g globals, overrides Config, stderr io.Writer) (*env, error) {
	overrides.Log = LogConfig{Level: g.logLevel, Format: g.logFormat}

	cfg, err := loadConfig(g.configPath, overrides)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(
		logging.WithHandlerType(logging.HandlerType(cfg.Log.Format)),
		logging.WithLevel(level),
		logging.WithOutput(stderr),
		logging.WithServiceName("dispatchctl"),
	)
	if err != nil {
		return nil, err
	}

	tracer, err := newTracer(ctx, cfg.Tracing, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, tracer: tracer}, nil
}

func newTracer(ctx context.Context, cfg TracingConfig, logger *slog.Logger) (*tracing.Tracer, error) {
	opts := []tracing.Option{
		tracing.WithProvider(tracing.Provider(cfg.Provider)),
		tracing.WithSampleRate(cfg.SampleRate),
		tracing.WithServiceName("dispatchctl"),
		tracing.WithLogger(logger),
	}
	switch tracing.Provider(cfg.Provider) {
	case tracing.OTLPProvider:
		opts = append(opts, tracing.WithOTLP(cfg.Endpoint))
	case tracing.OTLPHTTPProvider:
		opts = append(opts, tracing.WithOTLPHTTP(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, tracing.WithInsecure())
	}
	return tracing.New(ctx, opts...)
}

func (e *env) close(ctx context.Context) {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Warn("close failed", "error", err)
		}
	}
	if err := e.tracer.Shutdown(ctx); err != nil {
		e.logger.Warn("tracer shutdown failed", "error", err)
	}
}

// provider chains the configured declaration sources: files first, then
// Consul, then Redis.
func (e *env) provider() (declare.Provider, error) {
	var providers []declare.Provider

	for _, path := range e.cfg.Declarations {
		f, err := source.NewFile(path, nil)
		if err != nil {
			return nil, err
		}
		providers = append(providers, f)
	}

	if e.cfg.Consul.Key != "" {
		decoder, err := codec.GetDecoder(codec.Type(e.cfg.Consul.Format))
		if err != nil {
			return nil, err
		}
		var kv source.ConsulKV
		if e.cfg.Consul.Address != "" {
			conf := api.DefaultConfig()
			conf.Address = e.cfg.Consul.Address
			client, err := api.NewClient(conf)
			if err != nil {
				return nil, fmt.Errorf("failed to create consul client: %w", err)
			}
			kv = client.KV()
		}
		c, err := source.NewConsul(e.cfg.Consul.Key, decoder, kv)
		if err != nil {
			return nil, err
		}
		providers = append(providers, c)
	}

	if e.cfg.Redis.Key != "" {
		decoder, err := codec.GetDecoder(codec.Type(e.cfg.Redis.Format))
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(&redis.Options{
			Addr:     e.cfg.Redis.Address,
			Password: e.cfg.Redis.Password,
			DB:       e.cfg.Redis.DB,
		})
		e.closers = append(e.closers, client)
		r, err := source.NewRedis(e.cfg.Redis.Key, decoder, client)
		if err != nil {
			return nil, err
		}
		providers = append(providers, r)
	}

	if len(providers) == 0 {
		return nil, errNoDeclarations
	}
	return source.Chain(providers...), nil
}

// registry creates a registry and loads every configured declaration into it.
func (e *env) registry(ctx context.Context, opts ...dispatch.Option) (*dispatch.Registry, error) {
	p, err := e.provider()
	if err != nil {
		return nil, err
	}

	opts = append([]dispatch.Option{
		dispatch.WithLogger(e.logger),
		dispatch.WithTracerProvider(e.tracer.TracerProvider()),
		dispatch.WithDiagnostics(dispatch.DiagnosticHandlerFunc(func(ev dispatch.DiagnosticEvent) {
			e.logger.Warn(ev.Message, "kind", ev.Kind, "fields", ev.Fields)
		})),
	}, opts...)

	reg := dispatch.New(opts...)
	if err = reg.LoadAll(ctx, p); err != nil {
		return nil, err
	}
	e.logger.Debug("declarations loaded", "routes", reg.Len())
	return reg, nil
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "dispatchctl: %v\n", err)
	return exitFail
}
