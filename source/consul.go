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

	"github.com/hashicorp/consul/api"

	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/declare"
)

// ConsulKV is the subset of the Consul KV API used by [Consul].
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul is a declaration provider reading a document from a Consul key.
//
// The default client is configured from the environment:
//   - CONSUL_HTTP_ADDR: address of the Consul agent
//   - CONSUL_HTTP_TOKEN: ACL token (optional)
type Consul struct {
	kv        ConsulKV
	path      string
	decoder   codec.Decoder
	lastIndex uint64
}

var _ declare.Provider = (*Consul)(nil)

// NewConsul creates a Consul provider for the document stored at path.
// If kv is nil the KV endpoint of a default client is used.
//
// Errors:
//   - Returns error if the default Consul client cannot be created
func NewConsul(path string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}
	return &Consul{kv: kv, path: path, decoder: decoder}, nil
}

// Load reads and decodes the document. A missing key yields a nil map.
//
// Errors:
//   - Returns error if the Consul query fails
//   - Returns error if decoding the value fails
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	pair, meta, err := c.kv.Get(c.path, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key: %w", err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}
	if pair == nil {
		return nil, nil
	}

	var doc map[string]any
	if err = c.decoder.Decode(pair.Value, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode consul value: %w", err)
	}

	return doc, nil
}

// Sources loads the document and returns its declaration sources.
// A missing key declares nothing.
func (c *Consul) Sources(ctx context.Context) ([]declare.Source, error) {
	doc, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	sources, err := declare.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("consul key %s: %w", c.path, err)
	}
	return sources, nil
}

// LastIndex returns the Consul index observed by the last Load.
func (c *Consul) LastIndex() uint64 {
	return c.lastIndex
}
