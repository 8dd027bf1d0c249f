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
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/route"
)

// routeView is the encoded form of a stored route.
type routeView struct {
	Domain      string            `json:"domain" yaml:"domain" toml:"domain"`
	Method      string            `json:"method" yaml:"method" toml:"method"`
	Rule        string            `json:"rule" yaml:"rule" toml:"rule"`
	Handler     string            `json:"handler" yaml:"handler" toml:"handler"`
	Pattern     string            `json:"pattern" yaml:"pattern" toml:"pattern"`
	Where       map[string]string `json:"where,omitempty" yaml:"where,omitempty" toml:"where,omitempty"`
	Middlewares []string          `json:"middlewares,omitempty" yaml:"middlewares,omitempty" toml:"middlewares,omitempty"`
	Cache       int               `json:"cache,omitempty" yaml:"cache,omitempty" toml:"cache,omitempty"`
}

// routeList wraps the table; TOML documents cannot have a top-level array.
type routeList struct {
	Routes []routeView `json:"routes" yaml:"routes" toml:"routes"`
}

// matchView is the encoded form of a successful search.
type matchView struct {
	Route  routeView         `json:"route" yaml:"route" toml:"route"`
	Params map[string]string `json:"params" yaml:"params" toml:"params"`
}

func newRouteView(domain, method string, rt *route.Route) routeView {
	v := routeView{
		Domain:  domain,
		Method:  method,
		Rule:    rt.Rule(),
		Handler: rt.Handler().String(),
		Pattern: rt.Pattern().String(),
		Cache:   rt.CacheDuration(),
	}
	if where := rt.Where(); len(where) > 0 {
		v.Where = where
	}
	for _, mw := range rt.Middlewares().All() {
		v.Middlewares = append(v.Middlewares, formatMiddleware(mw))
	}
	return v
}

func newRouteList(entries []dispatch.Entry) routeList {
	list := routeList{Routes: make([]routeView, 0, len(entries))}
	for _, e := range entries {
		list.Routes = append(list.Routes, newRouteView(e.Domain, e.Method, e.Route))
	}
	return list
}

func newMatchView(m dispatch.Match) matchView {
	params := make(map[string]string, len(m.Params))
	maps.Copy(params, m.Params)
	return matchView{Route: newRouteView(m.Domain, m.Method, m.Route), Params: params}
}

// formatMiddleware renders "name" or "name:arg1,arg2".
func formatMiddleware(mw route.Middleware) string {
	if len(mw.Args) == 0 {
		return mw.Name
	}
	return mw.Name + ":" + strings.Join(mw.Args, ",")
}

func formatWhere(where map[string]string) string {
	parts := make([]string, 0, len(where))
	for _, k := range slices.Sorted(maps.Keys(where)) {
		parts = append(parts, k+"="+where[k])
	}
	return strings.Join(parts, " ")
}

func encode(w io.Writer, format string, v any) error {
	encoder, err := codec.GetEncoder(codec.Type(format))
	if err != nil {
		return err
	}
	data, err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if _, err = w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// methodColors assigns one color per HTTP method; the wildcard stays gray.
var methodColors = map[string]lipgloss.Color{
	http.MethodGet:     "10",
	http.MethodPost:    "12",
	http.MethodPut:     "11",
	http.MethodDelete:  "9",
	http.MethodPatch:   "13",
	http.MethodHead:    "14",
	http.MethodOptions: "7",
	dispatch.Wildcard:  "245",
}

// renderRoutes writes the route table. Colors follow the capabilities of w.
func renderRoutes(w io.Writer, entries []dispatch.Entry) {
	r := lipgloss.NewRenderer(w)
	headerStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		v := newRouteView(e.Domain, e.Method, e.Route)
		method := v.Method
		if c, ok := methodColors[method]; ok {
			method = r.NewStyle().Foreground(c).Bold(true).Render(method)
		}
		cache := "-"
		if v.Cache > 0 {
			cache = strconv.Itoa(v.Cache) + "s"
		}
		rows = append(rows, []string{
			v.Domain,
			method,
			v.Rule,
			v.Handler,
			formatWhere(v.Where),
			strings.Join(v.Middlewares, " "),
			cache,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Domain", "Method", "Rule", "Handler", "Where", "Middlewares", "Cache").
		Rows(rows...)

	if width := terminalWidth(w); width > 0 {
		t = t.Width(width)
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d routes\n", len(entries))
}

// renderMatch writes a matched route as aligned label/value lines.
func renderMatch(w io.Writer, m dispatch.Match) {
	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Foreground(lipgloss.Color("240")).Width(13)
	value := r.NewStyle().Bold(true)

	v := newMatchView(m)
	line := func(k, val string) {
		if val == "" {
			val = "-"
		}
		fmt.Fprintln(w, label.Render(k)+value.Render(val))
	}

	line("rule", v.Route.Rule)
	line("handler", v.Route.Handler)
	line("domain", v.Route.Domain)
	line("method", v.Route.Method)
	line("params", formatWhere(v.Params))
	line("where", formatWhere(v.Route.Where))
	line("middlewares", strings.Join(v.Route.Middlewares, " "))
	if v.Route.Cache > 0 {
		line("cache", strconv.Itoa(v.Route.Cache)+"s")
	}
}

// terminalWidth returns the width of w when it is a terminal, 0 otherwise.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
