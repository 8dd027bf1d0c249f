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

package dispatch

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch/declare"
	"rivaas.dev/dispatch/group"
)

// Load installs the routes declared by src. A source name that was already
// loaded successfully is skipped.
//
// Resources register each declared action found in the RESTful table and
// ignore the others. Controllers expose each action through its mappings,
// or through the default mapping (GET and POST, rule = action name) when it
// has none.
//
// Errors:
//   - Returns [ErrSourceNil] if src is nil
//   - Returns [*LoadError] with Op [OpLoad] if ctx is done
//   - Returns [*LoadError] with Op [OpGroup] for an unknown group kind
//   - Returns [*LoadError] with Op [OpInstall] if a route cannot be compiled;
//     routes installed before the failure stay in the registry
func (r *Registry) Load(ctx context.Context, src declare.Source) (err error) {
	if src == nil {
		return ErrSourceNil
	}

	name := src.Name()
	if _, ok := r.loaded[name]; ok {
		r.logger.Debug("source already loaded", "source", name)
		r.emit(DiagSourceSkipped, "source already loaded", map[string]any{"source": name})
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "dispatch.Load",
		trace.WithAttributes(attribute.String("dispatch.source", name)))
	before := r.count

	defer func() {
		delete(r.classComponents, name)
		delete(r.actionComponents, name)

		installed := r.count - before
		span.SetAttributes(attribute.Int("dispatch.routes", installed))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if r.recorder != nil {
			r.recorder.SourceLoaded(ctx, name, installed, err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return &LoadError{Source: name, Op: OpLoad, Err: err}
	}

	g := src.Group()
	switch {
	case g == nil:
		r.emit(DiagSourceWithoutGroup, "source declares no group", map[string]any{"source": name})
	case g.Kind == declare.KindResource:
		span.SetAttributes(attribute.String("dispatch.group", string(g.Kind)))
		err = r.loadResource(ctx, src, g)
	case g.Kind == declare.KindController:
		span.SetAttributes(attribute.String("dispatch.group", string(g.Kind)))
		err = r.loadController(ctx, src, g)
	default:
		err = &LoadError{Source: name, Op: OpGroup, Err: fmt.Errorf("%w: %q", ErrUnknownGroupKind, g.Kind)}
	}
	if err != nil {
		return err
	}

	r.loaded[name] = struct{}{}
	r.logger.Info("source loaded", "source", name, "routes", r.count-before)

	return nil
}

// LoadAll loads every source of p in order and stops at the first error.
//
// Errors:
//   - Returns [ErrProviderNil] if p is nil
//   - Returns the provider error wrapped with context
//   - Returns the first error of [Registry.Load]
func (r *Registry) LoadAll(ctx context.Context, p declare.Provider) error {
	if p == nil {
		return ErrProviderNil
	}

	sources, err := p.Sources(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate declaration sources: %w", err)
	}

	for _, src := range sources {
		if err = r.Load(ctx, src); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) loadResource(ctx context.Context, src declare.Source, g *declare.Group) error {
	res := group.NewResource(g.Prefix)
	res.Init(src.Name(), r.sourceComponents(src))

	for _, action := range src.Actions() {
		if err := ctx.Err(); err != nil {
			return &LoadError{Source: src.Name(), Action: action, Op: OpLoad, Err: err}
		}
		res.Register(action, r.memberComponents(src, action))
	}

	return r.install(src.Name(), res.Controller)
}

func (r *Registry) loadController(ctx context.Context, src declare.Source, g *declare.Group) error {
	ctrl := group.NewController(g.Prefix)
	ctrl.Init(src.Name(), r.sourceComponents(src))

	for _, action := range src.Actions() {
		if err := ctx.Err(); err != nil {
			return &LoadError{Source: src.Name(), Action: action, Op: OpLoad, Err: err}
		}

		maps := src.Maps(action)
		if len(maps) == 0 {
			maps = []declare.Mapping{{}}
		}
		for _, m := range maps {
			ctrl.Action(action, m, r.memberComponents(src, action))
		}
	}

	return r.install(src.Name(), ctrl)
}

// install hands the group's taps to the registry.
func (r *Registry) install(source string, c *group.Controller) error {
	err := c.Loading(r)
	if err == nil {
		return nil
	}

	var installErr *group.InstallError
	if errors.As(err, &installErr) {
		return &LoadError{
			Source: source,
			Action: installErr.Action,
			Rule:   installErr.Rule,
			Op:     OpInstall,
			Err:    installErr.Err,
		}
	}
	return &LoadError{Source: source, Op: OpInstall, Err: err}
}

// sourceComponents returns the class-level components, read once per load.
func (r *Registry) sourceComponents(src declare.Source) declare.Components {
	name := src.Name()
	if comps, ok := r.classComponents[name]; ok {
		return comps
	}
	comps := src.Components("")
	r.classComponents[name] = comps
	return comps
}

// memberComponents returns the components of an action, read once per load.
func (r *Registry) memberComponents(src declare.Source, action string) declare.Components {
	name := src.Name()
	byAction, ok := r.actionComponents[name]
	if !ok {
		byAction = make(map[string]declare.Components)
		r.actionComponents[name] = byAction
	}
	if comps, ok := byAction[action]; ok {
		return comps
	}
	comps := src.Components(action)
	byAction[action] = comps
	return comps
}
