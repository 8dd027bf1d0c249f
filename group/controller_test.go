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

package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/pattern"
	"rivaas.dev/dispatch/route"
)

// installed records one route handed to the registrar.
type installed struct {
	route   *route.Route
	methods []string
	domains []string
}

// collector is a route.Registrar keeping installed routes in order.
type collector struct {
	routes []installed
}

func (c *collector) Set(r *route.Route, methods, domains []string) {
	c.routes = append(c.routes, installed{route: r, methods: methods, domains: domains})
}

func (c *collector) rules() []string {
	out := make([]string, 0, len(c.routes))
	for _, r := range c.routes {
		out = append(out, r.route.Rule())
	}
	return out
}

func TestPrefix_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix Prefix
		class  string
		want   string
	}{
		{"literal", Literal("api/v1"), `App\Users`, "api/v1"},
		{"empty literal", Literal(""), `App\Users`, ""},
		{"level one", Level(1), `App\Http\UserPosts`, "userPosts"},
		{"level two", Level(2), `App\Http\UserPosts`, "http/userPosts"},
		{"level beyond components", Level(5), `App\Users`, "app/users"},
		{"level zero uses all", Level(0), `App\Users`, "app/users"},
		{"slash separated", Level(2), "app/handlers/Widgets", "handlers/widgets"},
		{"dot separated", Level(1), "handlers.Widgets", "widgets"},
		{"unicode first letter", Level(1), `App\Écoles`, "écoles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.prefix.resolve(tt.class))
		})
	}
}

func TestMap_Defaults(t *testing.T) {
	t.Parallel()

	m := Map{}
	assert.Equal(t, "profile", m.RuleFor("profile"))
	assert.Equal(t, []string{"GET", "POST"}, m.MethodList())

	explicit := NewMap("", "put")
	assert.Empty(t, explicit.RuleFor("profile"))

	tap := explicit.Tap("profile", route.Point("Users", "profile"), Components{})
	assert.Equal(t, []string{"PUT"}, tap.Methods())
}

func TestMap_TapSkipsNonPositiveCache(t *testing.T) {
	t.Parallel()

	tap := NewMap("a").Tap("a", route.Point("C", "a"), Components{Cache: -1})
	assert.Equal(t, 0, tap.CacheDuration())

	tap = NewMap("a").Tap("a", route.Point("C", "a"), Components{Cache: 15})
	assert.Equal(t, 15, tap.CacheDuration())
}

func TestController_Init(t *testing.T) {
	t.Parallel()

	c := NewController(Level(1))
	defaults := Components{Domains: []string{"a.com"}, Cache: 60}
	c.Init(`App\Http\Users`, defaults)

	assert.Equal(t, `App\Http\Users`, c.Class())
	assert.Equal(t, "users", c.Prefix())
	assert.Equal(t, defaults, c.Defaults())
}

func TestController_ActionInheritsDefaults(t *testing.T) {
	t.Parallel()

	c := NewController(Level(1))
	c.Init(`App\Users`, Components{
		Domains:     []string{"a.com"},
		Middlewares: []route.Middleware{route.Use("auth", "web"), route.Use("throttle", "60")},
		Where:       map[string]string{"id": `\d+`, "slug": `[a-z-]+`},
		Cache:       60,
	})

	tap := c.Action("profile", NewMap("{id}/profile", "GET"), Components{
		Middlewares: []route.Middleware{route.Use("auth", "api")},
		Where:       map[string]string{"id": `[1-9]\d*`},
	})

	assert.Equal(t, "users/{id}/profile", tap.FullRule())
	assert.Equal(t, []string{"a.com"}, tap.DomainList())
	assert.Equal(t, 60, tap.CacheDuration())
	assert.Equal(t, map[string]string{"id": `[1-9]\d*`, "slug": `[a-z-]+`}, tap.Constraints())

	mws := tap.MiddlewareConfig()
	assert.Equal(t, []string{"auth", "throttle"}, mws.Names())
	args, ok := mws.Args("auth")
	require.True(t, ok)
	assert.Equal(t, []string{"api"}, args)
}

func TestController_ActionOverrides(t *testing.T) {
	t.Parallel()

	c := NewController(Literal("admin"))
	c.Init(`App\Users`, Components{Domains: []string{"a.com"}, Cache: 60})

	tap := c.Action("list", Map{}, Components{Domains: []string{"b.com"}, Cache: 5})
	assert.Equal(t, []string{"b.com"}, tap.DomainList())
	assert.Equal(t, 5, tap.CacheDuration())
	assert.Equal(t, "admin/list", tap.FullRule())
	assert.Equal(t, []string{"GET", "POST"}, tap.Methods())
	assert.Equal(t, route.Point(`App\Users`, "list"), tap.Handler())
}

func TestController_NoDefaults(t *testing.T) {
	t.Parallel()

	c := NewController(Level(1))
	c.Init("Pages", Components{})

	tap := c.Action("about", Map{}, Components{})
	assert.Empty(t, tap.DomainList())
	assert.Equal(t, 0, tap.CacheDuration())
	assert.Empty(t, tap.Constraints())
	assert.Equal(t, 0, tap.MiddlewareConfig().Len())
	assert.Equal(t, "pages/about", tap.FullRule())
}

func TestController_AbsoluteRuleIgnoresPrefix(t *testing.T) {
	t.Parallel()

	c := NewController(Level(1))
	c.Init("Pages", Components{})

	tap := c.Action("home", NewMap("/"), Components{})
	assert.Empty(t, tap.FullRule())
}

func TestController_LoadingOrder(t *testing.T) {
	t.Parallel()

	c := NewController(Level(1))
	c.Init("Posts", Components{})

	c.Action("list", NewMap("recent"), Components{})
	c.Action("show", NewMap("{id}"), Components{})
	c.Action("list", NewMap("popular"), Components{})
	assert.Equal(t, 3, c.Pending())

	reg := &collector{}
	require.NoError(t, c.Loading(reg))

	assert.Equal(t, []string{"posts/recent", "posts/popular", "posts/{id}"}, reg.rules())
	assert.Equal(t, 0, c.Pending())

	// A second Loading has nothing left to install.
	require.NoError(t, c.Loading(reg))
	assert.Len(t, reg.routes, 3)
}

func TestController_LoadingError(t *testing.T) {
	t.Parallel()

	c := NewController(Level(1))
	c.Init("Posts", Components{})
	c.Action("broken", NewMap("{id}"), Components{Where: map[string]string{"id": "("}})
	c.Action("fine", Map{}, Components{})

	reg := &collector{}
	err := c.Loading(reg)
	require.Error(t, err)

	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, "Posts", installErr.Class)
	assert.Equal(t, "broken", installErr.Action)
	assert.Equal(t, "posts/{id}", installErr.Rule)

	var compileErr *pattern.CompileError
	require.ErrorAs(t, err, &compileErr)

	assert.Empty(t, reg.routes)
	assert.Equal(t, 0, c.Pending())
}
