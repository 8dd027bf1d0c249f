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

// Version is the OpenAPI version of generated documents.
const Version = "3.0.4"

// Document is an OpenAPI document.
type Document struct {
	OpenAPI string              `json:"openapi" yaml:"openapi"`
	Info    Info                `json:"info" yaml:"info"`
	Servers []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

// Info is the document metadata.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Server is a base URL.
type Server struct {
	URL string `json:"url" yaml:"url"`
}

// PathItem maps lower-case method names to operations.
type PathItem map[string]*Operation

// Operation is one method of one path.
type Operation struct {
	OperationID string              `json:"operationId" yaml:"operationId"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
	Servers     []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`

	Handler     string   `json:"x-handler" yaml:"x-handler"`
	Rule        string   `json:"x-rule" yaml:"x-rule"`
	Middlewares []string `json:"x-middlewares,omitempty" yaml:"x-middlewares,omitempty"`
	Cache       int      `json:"x-cache-seconds,omitempty" yaml:"x-cache-seconds,omitempty"`

	// anyDomain is set once the operation was reached from the wildcard domain.
	anyDomain bool
}

// Parameter is a path parameter.
type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	In       string `json:"in" yaml:"in"`
	Required bool   `json:"required" yaml:"required"`
	Schema   Schema `json:"schema" yaml:"schema"`
}

// Schema is the parameter schema.
type Schema struct {
	Type    string `json:"type" yaml:"type"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Response is an operation response.
type Response struct {
	Description string `json:"description" yaml:"description"`
}
