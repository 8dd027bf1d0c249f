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

package dispatch_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/declare"
	"rivaas.dev/dispatch/pattern"
	"rivaas.dev/dispatch/route"
)

var document = map[string]any{
	"classes": []any{
		map[string]any{
			"name":        `App\Http\Widgets`,
			"group":       map[string]any{"kind": "resource"},
			"domains":     []any{"shop.example"},
			"middlewares": []any{"auth", map[string]any{"throttle": []any{60, 1}}},
			"cache":       60,
			"actions": []any{
				map[string]any{"name": "index"},
				map[string]any{"name": "show"},
				map[string]any{"name": "update", "middlewares": []any{map[string]any{"auth": "admin"}}},
				map[string]any{"name": "destroy", "cache": 0},
			},
		},
		map[string]any{
			"name":  `App\Http\Blog`,
			"group": map[string]any{"kind": "controller", "prefix": "blog"},
			"actions": []any{
				map[string]any{
					"name":  "post",
					"where": map[string]any{"year": `\d{4}`},
					"maps": []any{
						map[string]any{"rule": "{year}/{slug}.{format?}", "methods": []any{"GET"}},
					},
				},
				map[string]any{"name": "feed"},
				map[string]any{
					"name": "home",
					"maps": []any{map[string]any{"rule": "/", "methods": "GET"}},
				},
			},
		},
	},
}

var _ = Describe("Registry", func() {
	var reg *dispatch.Registry

	BeforeEach(func() {
		reg = dispatch.New()

		sources, err := declare.Decode(document)
		Expect(err).NotTo(HaveOccurred())
		Expect(reg.LoadAll(context.Background(), declare.Static(sources))).To(Succeed())
	})

	Describe("resource routes", func() {
		It("serves the declared actions on the declared domain", func() {
			m, ok := reg.Search("/widgets/7", "GET", "shop.example")
			Expect(ok).To(BeTrue())
			Expect(m.Domain).To(Equal("shop.example"))
			Expect(m.Params).To(Equal(pattern.Params{"id": "7"}))
			Expect(m.Route.Handler()).To(Equal(route.Point(`App\Http\Widgets`, "show")))
		})

		It("does not serve other domains", func() {
			_, ok := reg.Search("/widgets/7", "GET", "other.example")
			Expect(ok).To(BeFalse())
		})

		It("skips undeclared RESTful actions", func() {
			_, ok := reg.Search("/widgets/create", "GET", "shop.example")
			Expect(ok).To(BeFalse())
			_, ok = reg.Search("/widgets", "POST", "shop.example")
			Expect(ok).To(BeFalse())
		})

		It("lets actions override middleware arguments", func() {
			m, ok := reg.Search("/widgets/7", "PUT", "shop.example")
			Expect(ok).To(BeTrue())

			mws := m.Route.Middlewares()
			Expect(mws.Names()).To(Equal([]string{"auth", "throttle"}))
			args, _ := mws.Args("auth")
			Expect(args).To(Equal([]string{"admin"}))
			args, _ = mws.Args("throttle")
			Expect(args).To(Equal([]string{"60", "1"}))
		})

		It("inherits the cache duration when the action leaves it at zero", func() {
			m, ok := reg.Search("/widgets/7", "DELETE", "shop.example")
			Expect(ok).To(BeTrue())
			Expect(m.Route.CacheDuration()).To(Equal(60))
		})
	})

	Describe("controller routes", func() {
		It("extracts optional parameters without their separator", func() {
			m, ok := reg.Search("/blog/2024/hello.json", "GET", "")
			Expect(ok).To(BeTrue())
			Expect(m.Params).To(Equal(pattern.Params{"year": "2024", "slug": "hello", "format": "json"}))

			m, ok = reg.Search("/blog/2024/hello", "GET", "")
			Expect(ok).To(BeTrue())
			Expect(m.Params["format"]).To(BeEmpty())
		})

		It("applies action constraints", func() {
			_, ok := reg.Search("/blog/24/hello", "GET", "")
			Expect(ok).To(BeFalse())
		})

		It("exposes actions without maps under GET and POST", func() {
			for _, method := range []string{"GET", "POST"} {
				m, ok := reg.Search("/blog/feed", method, "")
				Expect(ok).To(BeTrue())
				Expect(m.Route.Handler()).To(Equal(route.Point(`App\Http\Blog`, "feed")))
			}
			_, ok := reg.Search("/blog/feed", "DELETE", "")
			Expect(ok).To(BeFalse())
		})

		It("keeps absolute rules out of the group prefix", func() {
			m, ok := reg.Search("/", "GET", "")
			Expect(ok).To(BeTrue())
			Expect(m.Route.Rule()).To(BeEmpty())
		})
	})

	Describe("reloading", func() {
		It("leaves the registry unchanged", func() {
			before := reg.Routes()

			sources, err := declare.Decode(document)
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.LoadAll(context.Background(), declare.Static(sources))).To(Succeed())

			Expect(reg.Routes()).To(Equal(before))
		})

		It("installs again after Clear", func() {
			count := reg.Len()
			reg.Clear()
			Expect(reg.Routes()).To(BeEmpty())

			sources, err := declare.Decode(document)
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.LoadAll(context.Background(), declare.Static(sources))).To(Succeed())
			Expect(reg.Len()).To(Equal(count))
		})
	})

	Describe("manual routes", func() {
		It("replace a declared route with the same rule in place", func() {
			Expect(route.Get("widgets/{id}", route.Point("Override", "show")).
				Domains("shop.example").
				Install(reg)).To(Succeed())

			m, ok := reg.Search("/widgets/abc", "GET", "shop.example")
			Expect(ok).To(BeTrue())
			Expect(m.Route.Handler()).To(Equal(route.Point("Override", "show")))

			var rules []string
			for _, e := range reg.Routes() {
				if e.Domain == "shop.example" && e.Method == "GET" {
					rules = append(rules, e.Rule)
				}
			}
			Expect(rules).To(Equal([]string{"widgets", "widgets/{id}"}))
		})
	})
})
