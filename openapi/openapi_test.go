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

package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/route"
)

func set(t *testing.T, reg *dispatch.Registry, rule, handler string, where map[string]string, methods, domains []string, mws ...route.Middleware) {
	t.Helper()

	rt, err := route.New(rule, route.Named(handler), where, mws, 60)
	require.NoError(t, err)
	reg.Set(rt, methods, domains)
}

func TestBuild_Operation(t *testing.T) {
	t.Parallel()

	reg := dispatch.New()
	set(t, reg, "widgets/{id}", `App\Http\Widgets::show`, map[string]string{"id": `[1-9]\d*`},
		[]string{"GET"}, []string{"api.example.com"}, route.Use("auth"), route.Use("throttle", "60", "1"))

	result, err := New(WithTitle("Widgets", "1.2.0"), WithDescription("widget routes")).Build(reg.Routes())
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	doc := result.Document
	assert.Equal(t, Version, doc.OpenAPI)
	assert.Equal(t, Info{Title: "Widgets", Version: "1.2.0", Description: "widget routes"}, doc.Info)

	op := doc.Paths["/widgets/{id}"]["get"]
	require.NotNil(t, op)
	assert.Equal(t, "App_Http_Widgets_show", op.OperationID)
	assert.Equal(t, []string{`App\Http\Widgets`}, op.Tags)
	assert.Equal(t, `App\Http\Widgets::show`, op.Handler)
	assert.Equal(t, "widgets/{id}", op.Rule)
	assert.Equal(t, []string{"auth", "throttle:60,1"}, op.Middlewares)
	assert.Equal(t, 60, op.Cache)
	assert.Equal(t, []Server{{URL: "https://api.example.com"}}, op.Servers)
	assert.Equal(t, []Parameter{{
		Name: "id", In: "path", Required: true,
		Schema: Schema{Type: "string", Pattern: `^[1-9]\d*$`},
	}}, op.Parameters)
	assert.Contains(t, op.Responses, "default")
}

func TestBuild_OptionalPlaceholders(t *testing.T) {
	t.Parallel()

	reg := dispatch.New()
	set(t, reg, "posts/{id}/{page?}", "Posts::list", nil, []string{"GET"}, nil)
	set(t, reg, "files/{name}.{ext?}", "Files::show", map[string]string{"ext": "[a-z]+"}, []string{"GET"}, nil)

	result, err := New().Build(reg.Routes())
	require.NoError(t, err)

	paths := result.Document.Paths
	require.Contains(t, paths, "/posts/{id}/{page}")
	require.Contains(t, paths, "/posts/{id}")
	require.Contains(t, paths, "/files/{name}.{ext}")
	require.Contains(t, paths, "/files/{name}")

	full := paths["/posts/{id}/{page}"]["get"]
	short := paths["/posts/{id}"]["get"]
	assert.Equal(t, "Posts_list", full.OperationID)
	assert.Equal(t, "Posts_list_get", short.OperationID)
	assert.Len(t, full.Parameters, 2)
	require.Len(t, short.Parameters, 1)
	assert.Equal(t, "id", short.Parameters[0].Name)
	assert.Equal(t, `^\w+$`, short.Parameters[0].Schema.Pattern)

	ext := paths["/files/{name}.{ext}"]["get"].Parameters[1]
	assert.Equal(t, "^[a-z]+$", ext.Schema.Pattern)

	// operations reached from the wildcard domain carry no server
	assert.Nil(t, full.Servers)
}

func TestBuild_WildcardMethod(t *testing.T) {
	t.Parallel()

	reg := dispatch.New()
	set(t, reg, "health", "Health::ping", nil, nil, nil)

	result, err := New().Build(reg.Routes())
	require.NoError(t, err)

	item := result.Document.Paths["/health"]
	assert.Len(t, item, len(standardMethods))
	for _, m := range []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"} {
		assert.Contains(t, item, m)
	}
	assert.Equal(t, "Health_ping", item["get"].OperationID)
	assert.Equal(t, "Health_ping_put", item["put"].OperationID)
}

func TestBuild_DomainsMerge(t *testing.T) {
	t.Parallel()

	reg := dispatch.New()
	set(t, reg, "items", "Items::list", nil, []string{"GET"}, []string{"a.com", "b.com"})
	set(t, reg, "users", "Users::list", nil, []string{"GET"}, []string{"a.com"})
	set(t, reg, "users", "Users::list", nil, []string{"GET"}, []string{"*"})

	result, err := New(WithScheme("http")).Build(reg.Routes())
	require.NoError(t, err)

	items := result.Document.Paths["/items"]["get"]
	assert.Equal(t, []Server{{URL: "http://a.com"}, {URL: "http://b.com"}}, items.Servers)

	users := result.Document.Paths["/users"]["get"]
	assert.Nil(t, users.Servers)
}

func TestBuild_Warnings(t *testing.T) {
	t.Parallel()

	reg := dispatch.New()
	set(t, reg, "items", "Items::list", nil, []string{"GET"}, []string{"a.com"})
	set(t, reg, "items", "Legacy::items", nil, []string{"GET"}, []string{"b.com"})
	set(t, reg, "cache", "Cache::purge", nil, []string{"PURGE"}, nil)
	set(t, reg, "{a?}/{b?}/{c?}/{d?}/{e?}", "Many::show", nil, []string{"GET"}, nil)

	result, err := New().Build(reg.Routes())
	require.NoError(t, err)

	codes := make(map[WarningCode]int)
	for _, w := range result.Warnings {
		codes[w.Code]++
	}
	assert.Equal(t, map[WarningCode]int{
		WarnOperationConflict: 1,
		WarnUnsupportedMethod: 1,
		WarnTooManyOptional:   1,
	}, codes)

	assert.Equal(t, "Items::list", result.Document.Paths["/items"]["get"].Handler)
	assert.Contains(t, result.Document.Paths, "/{a}/{b}/{c}/{d}/{e}")
	assert.Contains(t, result.Document.Paths, "/")
	assert.Contains(t, result.Warnings[0].String(), "OPERATION_CONFLICT")
}

func TestResult_Encode(t *testing.T) {
	t.Parallel()

	reg := dispatch.New()
	set(t, reg, "widgets/{id}", "Widgets::show", nil, []string{"GET"}, nil)

	result, err := New().Build(reg.Routes())
	require.NoError(t, err)

	data, err := result.Encode(codec.TypeJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, Version, doc["openapi"])
	paths := doc["paths"].(map[string]any)
	op := paths["/widgets/{id}"].(map[string]any)["get"].(map[string]any)
	assert.Equal(t, "Widgets::show", op["x-handler"])
	assert.NotContains(t, op, "anyDomain")

	data, err = result.Encode(codec.TypeYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "openapi: 3.0.4")

	_, err = result.Encode("xml")
	require.Error(t, err)
}
