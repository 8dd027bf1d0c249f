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
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/codec"
)

// fakeRedis is an in-memory RedisGetter.
type fakeRedis struct {
	values map[string]string
	err    error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestRedis_Sources(t *testing.T) {
	t.Parallel()

	r, err := NewRedis("dispatch:routes", codec.JSONCodec{}, &fakeRedis{
		values: map[string]string{"dispatch:routes": jsonDocument},
	})
	require.NoError(t, err)

	sources, err := r.Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Health", sources[0].Name())
}

func TestRedis_MissingKey(t *testing.T) {
	t.Parallel()

	r, err := NewRedis("dispatch:absent", codec.JSONCodec{}, &fakeRedis{})
	require.NoError(t, err)

	sources, err := r.Sources(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestRedis_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewRedis("k", codec.JSONCodec{}, nil)
	require.Error(t, err)

	boom := errors.New("connection refused")
	r, err := NewRedis("k", codec.JSONCodec{}, &fakeRedis{err: boom})
	require.NoError(t, err)
	_, err = r.Sources(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to get redis key")

	r, err = NewRedis("k", codec.JSONCodec{}, &fakeRedis{values: map[string]string{"k": `{"classes":`}})
	require.NoError(t, err)
	_, err = r.Sources(context.Background())
	assert.Contains(t, err.Error(), "failed to decode redis value")

	r, err = NewRedis("k", codec.JSONCodec{}, &fakeRedis{values: map[string]string{"k": `{"routes": []}`}})
	require.NoError(t, err)
	_, err = r.Sources(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis key k")
}
