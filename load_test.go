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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/dispatch/declare"
	"rivaas.dev/dispatch/group"
	"rivaas.dev/dispatch/pattern"
	"rivaas.dev/dispatch/route"
)

func widgetsSource() *declare.Class {
	c := declare.NewClass(`App\Http\Widgets`, declare.ResourceGroup(group.Level(1)))
	for _, name := range group.RestfulActions {
		c.Action(name, declare.Components{})
	}
	return c
}

// countingSource wraps a Class and counts Components calls.
type countingSource struct {
	*declare.Class
	calls map[string]int
}

func (s *countingSource) Components(action string) declare.Components {
	s.calls[action]++
	return s.Class.Components(action)
}

func TestLoad_Resource(t *testing.T) {
	t.Parallel()

	reg := New()
	src := widgetsSource().Action("archive", declare.Components{})
	require.NoError(t, reg.Load(context.Background(), src))

	entries := reg.Routes()
	require.Len(t, entries, 8) // update is stored under PUT and PATCH

	m, ok := reg.Search("/widgets/12/edit", "GET", "")
	require.True(t, ok)
	assert.Equal(t, route.Point(`App\Http\Widgets`, "edit"), m.Route.Handler())
	assert.Equal(t, pattern.Params{"id": "12"}, m.Params)

	m, ok = reg.Search("widgets/12", "PATCH", "")
	require.True(t, ok)
	assert.Equal(t, "update", m.Route.Handler().(route.Named).Method())

	m, ok = reg.Search("widgets", "POST", "")
	require.True(t, ok)
	assert.Equal(t, "store", m.Route.Handler().(route.Named).Method())

	_, ok = reg.Search("widgets/012", "GET", "")
	assert.False(t, ok)
	_, ok = reg.Search("widgets/abc/edit", "GET", "")
	assert.False(t, ok)
	_, ok = reg.Search("widgets/archive", "GET", "")
	assert.False(t, ok)
}

func TestLoad_ControllerDefaultMapping(t *testing.T) {
	t.Parallel()

	reg := New()
	src := declare.NewClass("Pages", declare.ControllerGroup(group.Literal("site"))).
		Action("about", declare.Components{}).
		Action("contact", declare.Components{}, group.NewMap("contact-us", "GET"), group.NewMap("contact-us", "POST"))
	require.NoError(t, reg.Load(context.Background(), src))

	var got []string
	for _, e := range reg.Routes() {
		got = append(got, e.Method+" "+e.Rule)
	}
	assert.Equal(t, []string{
		"GET site/about",
		"GET site/contact-us",
		"POST site/about",
		"POST site/contact-us",
	}, got)
}

func TestLoad_DefaultInheritance(t *testing.T) {
	t.Parallel()

	reg := New()
	src := declare.NewClass("Reports", declare.ControllerGroup(group.Level(1))).
		Defaults(declare.Components{Domains: []string{"a.com"}, Cache: 60}).
		Action("daily", declare.Components{}, group.NewMap("daily", "GET")).
		Action("weekly", declare.Components{Cache: 30}, group.NewMap("weekly", "GET"))
	require.NoError(t, reg.Load(context.Background(), src))

	daily, ok := reg.Search("reports/daily", "GET", "a.com")
	require.True(t, ok)
	assert.Equal(t, "a.com", daily.Domain)
	assert.Equal(t, 60, daily.Route.CacheDuration())

	weekly, ok := reg.Search("reports/weekly", "GET", "a.com")
	require.True(t, ok)
	assert.Equal(t, 30, weekly.Route.CacheDuration())

	_, ok = reg.Search("reports/daily", "GET", "b.com")
	assert.False(t, ok)
}

func TestLoad_Idempotent(t *testing.T) {
	t.Parallel()

	var events []DiagnosticEvent
	reg := New(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))

	require.NoError(t, reg.Load(context.Background(), widgetsSource()))
	once := reg.Routes()

	require.NoError(t, reg.Load(context.Background(), widgetsSource()))
	assert.Equal(t, once, reg.Routes())
	assert.Equal(t, len(once), reg.Len())

	require.Len(t, events, 1)
	assert.Equal(t, DiagSourceSkipped, events[0].Kind)
}

func TestLoad_MemoizesComponents(t *testing.T) {
	t.Parallel()

	reg := New()
	src := &countingSource{
		Class: declare.NewClass("Posts", declare.ControllerGroup(group.Level(1))).
			Action("list", declare.Components{}, group.NewMap("recent"), group.NewMap("popular"), group.NewMap("top")),
		calls: make(map[string]int),
	}
	require.NoError(t, reg.Load(context.Background(), src))

	assert.Equal(t, map[string]int{"": 1, "list": 1}, src.calls)
	assert.Empty(t, reg.classComponents)
	assert.Empty(t, reg.actionComponents)
}

func TestLoad_WithoutGroup(t *testing.T) {
	t.Parallel()

	var kinds []DiagnosticKind
	reg := New(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		kinds = append(kinds, e.Kind)
	})))

	require.NoError(t, reg.Load(context.Background(), declare.NewClass("Helpers", nil).Action("x", declare.Components{})))
	assert.Empty(t, reg.Routes())
	assert.Equal(t, []DiagnosticKind{DiagSourceWithoutGroup}, kinds)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, New().Load(context.Background(), nil), ErrSourceNil)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		src := declare.NewClass("X", &declare.Group{Kind: "widget", Prefix: group.Level(1)})
		err := New().Load(context.Background(), src)

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, OpGroup, loadErr.Op)
		assert.ErrorIs(t, err, ErrUnknownGroupKind)
	})

	t.Run("invalid constraint", func(t *testing.T) {
		t.Parallel()

		reg := New()
		src := declare.NewClass("Posts", declare.ControllerGroup(group.Level(1))).
			Action("list", declare.Components{}, group.NewMap("", "GET")).
			Action("show", declare.Components{Where: map[string]string{"id": "[0-9"}}, group.NewMap("{id}", "GET"))
		err := reg.Load(context.Background(), src)

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "Posts", loadErr.Source)
		assert.Equal(t, "show", loadErr.Action)
		assert.Equal(t, "posts/{id}", loadErr.Rule)
		assert.Equal(t, OpInstall, loadErr.Op)
		assert.Contains(t, err.Error(), `install of source Posts action show rule "posts/{id}"`)

		var compileErr *pattern.CompileError
		assert.ErrorAs(t, err, &compileErr)

		// Routes installed before the failure stay; the source is not marked loaded.
		assert.Len(t, reg.Routes(), 1)
		assert.NotContains(t, reg.loaded, "Posts")
	})

	t.Run("repeated placeholder", func(t *testing.T) {
		t.Parallel()

		reg := New()
		src := declare.NewClass("Posts", declare.ControllerGroup(group.Level(1))).
			Action("pair", declare.Components{}, group.NewMap("{id}/{id}", "GET"))
		err := reg.Load(context.Background(), src)

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "Posts", loadErr.Source)
		assert.Equal(t, "pair", loadErr.Action)
		assert.Equal(t, "posts/{id}/{id}", loadErr.Rule)
		assert.Equal(t, OpInstall, loadErr.Op)
		assert.ErrorIs(t, err, pattern.ErrDuplicateParam)
		assert.Empty(t, reg.Routes())
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := New().Load(ctx, widgetsSource())

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, OpLoad, loadErr.Op)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	reg := New()
	provider := declare.Static{
		widgetsSource(),
		declare.NewClass("Pages", declare.ControllerGroup(group.Level(1))).Action("about", declare.Components{}),
	}
	require.NoError(t, reg.LoadAll(context.Background(), provider))

	_, ok := reg.Search("widgets/create", "GET", "")
	assert.True(t, ok)
	_, ok = reg.Search("pages/about", "POST", "")
	assert.True(t, ok)
}

func TestLoadAll_Errors(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, New().LoadAll(context.Background(), nil), ErrProviderNil)

	boom := errors.New("boom")
	err := New().LoadAll(context.Background(), declare.ProviderFunc(func(context.Context) ([]declare.Source, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)

	err = New().LoadAll(context.Background(), declare.Static{nil})
	assert.ErrorIs(t, err, ErrSourceNil)
}

func TestLoad_Tracing(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reg := New(WithTracerProvider(tp))

	require.NoError(t, reg.Load(context.Background(), widgetsSource()))
	bad := declare.NewClass("Bad", declare.ControllerGroup(group.Level(1))).
		Action("x", declare.Components{Where: map[string]string{"x": "("}}, group.NewMap("{x}"))
	require.Error(t, reg.Load(context.Background(), bad))

	spans := sr.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "dispatch.Load", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("dispatch.source", `App\Http\Widgets`))
	assert.Contains(t, spans[0].Attributes(), attribute.String("dispatch.group", "resource"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("dispatch.routes", 8))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestLoad_LoggingAndRecorder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := &fakeRecorder{}
	reg := New(WithLogger(logger), WithRecorder(rec))

	require.NoError(t, reg.Load(context.Background(), widgetsSource()))
	reg.Search("widgets/1", "GET", "")
	reg.Search("nowhere", "GET", "")

	out := buf.String()
	assert.Contains(t, out, "route installed")
	assert.Contains(t, out, "rule=widgets/{id}/edit")
	assert.Contains(t, out, "source loaded")

	assert.Len(t, rec.installed, 8)
	assert.Equal(t, []string{`App\Http\Widgets 8 ok`}, rec.loads)
	assert.Equal(t, int64(2), rec.search)
	assert.Equal(t, int64(1), rec.matched)
}
