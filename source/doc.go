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

// Package source provides declaration providers backed by documents.
//
// A [File] reads a document from disk or from memory, a [Consul] reads it
// from a Consul key and a [Redis] from a Redis string key. Each decodes the
// document with a codec and turns it into declaration sources with
// [declare.Decode]:
//
//	file, err := source.NewFile("routes.yaml", nil) // codec from the extension
//	if err != nil {
//	    return err
//	}
//	err = registry.LoadAll(ctx, file)
//
// [Chain] concatenates the sources of several providers.
package source
