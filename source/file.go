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

package source

import (
	"context"
	"fmt"
	"os"

	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/declare"
)

// File is a declaration provider reading a document from a file or from
// byte content.
type File struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

var _ declare.Provider = (*File)(nil)

// NewFile creates a File reading path. A nil decoder is chosen from the
// file extension.
//
// Errors:
//   - Returns error if decoder is nil and the extension is not recognized
func NewFile(path string, decoder codec.Decoder) (*File, error) {
	if decoder == nil {
		var err error
		if decoder, err = codec.DecoderFor(path); err != nil {
			return nil, err
		}
	}
	return &File{path: path, decoder: decoder}, nil
}

// NewFileContent creates a File over in-memory content.
func NewFileContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load reads and decodes the document.
//
// Errors:
//   - Returns error if the file cannot be read (NewFile only)
//   - Returns error if decoding fails
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var doc map[string]any
	if err := f.decoder.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}

	return doc, nil
}

// Sources loads the document and returns its declaration sources.
func (f *File) Sources(ctx context.Context) ([]declare.Source, error) {
	doc, err := f.Load(ctx)
	if err != nil {
		return nil, err
	}

	sources, err := declare.Decode(doc)
	if err != nil {
		if f.path != "" {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
		return nil, err
	}
	return sources, nil
}
