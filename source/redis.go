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
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/declare"
)

// RedisGetter is the subset of the go-redis client used by [Redis].
type RedisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis is a declaration provider reading a document from a Redis string key.
type Redis struct {
	client  RedisGetter
	key     string
	decoder codec.Decoder
}

var _ declare.Provider = (*Redis)(nil)

// NewRedis creates a Redis provider for the document stored at key.
// client is usually a *redis.Client or *redis.ClusterClient.
//
// Errors:
//   - Returns error if client is nil
func NewRedis(key string, decoder codec.Decoder, client RedisGetter) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	return &Redis{client: client, key: key, decoder: decoder}, nil
}

// Load reads and decodes the document. A missing key yields a nil map.
//
// Errors:
//   - Returns error if the GET command fails
//   - Returns error if decoding the value fails
func (r *Redis) Load(ctx context.Context) (map[string]any, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redis key: %w", err)
	}

	var doc map[string]any
	if err = r.decoder.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode redis value: %w", err)
	}
	return doc, nil
}

// Sources loads the document and returns its declaration sources.
// A missing key declares nothing.
func (r *Redis) Sources(ctx context.Context) ([]declare.Source, error) {
	doc, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	sources, err := declare.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("redis key %s: %w", r.key, err)
	}
	return sources, nil
}
