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
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

// bannerInfo is what the serve command reports at startup.
type bannerInfo struct {
	Addr    string
	Routes  int
	Metrics string
	Tracing string
}

var bannerGradient = []string{"12", "14", "10", "11"}

// printBanner writes the serve startup banner. Colors are downsampled to
// what w supports and stripped when w is not a terminal.
func printBanner(w io.Writer, info bannerInfo) {
	cpw := colorprofile.NewWriter(w, os.Environ())

	var art strings.Builder
	for _, line := range figure.NewFigure("dispatch", "", false).Slicify() {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for i, char := range line {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(bannerGradient[i%len(bannerGradient)])).
				Bold(true)
			art.WriteString(style.Render(string(char)))
		}
		art.WriteByte('\n')
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Width(10).
		PaddingLeft(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	addr := info.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "0.0.0.0" + addr
	}

	var out strings.Builder
	out.WriteString(labelStyle.Render("Address:") + valueStyle.Render("http://"+addr) + "\n")
	out.WriteString(labelStyle.Render("Routes:") + valueStyle.Render(fmt.Sprint(info.Routes)) + "\n")
	out.WriteString(labelStyle.Render("Metrics:") + valueStyle.Render(info.Metrics) + "\n")
	out.WriteString(labelStyle.Render("Tracing:") + valueStyle.Render(info.Tracing) + "\n")

	_, _ = fmt.Fprintln(cpw)
	_, _ = fmt.Fprint(cpw, art.String())
	_, _ = fmt.Fprintln(cpw)
	_, _ = fmt.Fprint(cpw, out.String())
	_, _ = fmt.Fprintln(cpw)
}
