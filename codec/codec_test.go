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

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// CodecTestSuite runs the same document through every built-in codec.
type CodecTestSuite struct {
	suite.Suite
}

func TestCodecTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CodecTestSuite))
}

func (s *CodecTestSuite) TestRegistration() {
	for typ, want := range map[Type]any{
		TypeJSON:    JSONCodec{},
		TypeYAML:    YAMLCodec{},
		TypeTOML:    TOMLCodec{},
		TypeMsgpack: MsgpackCodec{},
	} {
		enc, err := GetEncoder(typ)
		s.Require().NoError(err)
		s.IsType(want, enc)

		dec, err := GetDecoder(typ)
		s.Require().NoError(err)
		s.IsType(want, dec)
	}
}

func (s *CodecTestSuite) TestDecodeDeclarations() {
	docs := map[Type]string{
		TypeJSON: `{"classes": [{"name": "Users", "cache": 60, "domains": ["a.com"]}]}`,
		TypeYAML: "classes:\n  - name: Users\n    cache: 60\n    domains: [a.com]\n",
		TypeTOML: "[[classes]]\nname = \"Users\"\ncache = 60\ndomains = [\"a.com\"]\n",
	}

	for typ, doc := range docs {
		dec, err := GetDecoder(typ)
		s.Require().NoError(err)

		var values map[string]any
		s.Require().NoError(dec.Decode([]byte(doc), &values), typ)
		s.Contains(values, "classes", typ)
	}
}

func (s *CodecTestSuite) TestEncodeRoundTrip() {
	in := map[string]any{"rule": "users/{id}", "methods": []any{"GET"}}

	for _, typ := range []Type{TypeJSON, TypeYAML, TypeTOML, TypeMsgpack} {
		enc, err := GetEncoder(typ)
		s.Require().NoError(err)
		data, err := enc.Encode(in)
		s.Require().NoError(err, typ)
		s.Contains(string(data), "users/{id}", typ)

		dec, err := GetDecoder(typ)
		s.Require().NoError(err)
		var out map[string]any
		s.Require().NoError(dec.Decode(data, &out), typ)
		s.Equal("users/{id}", out["rule"], typ)
	}
}

func (s *CodecTestSuite) TestDecodeInvalid() {
	for _, typ := range []Type{TypeJSON, TypeYAML, TypeTOML} {
		dec, err := GetDecoder(typ)
		s.Require().NoError(err)

		var out map[string]any
		s.Error(dec.Decode([]byte("{[: not valid"), &out), typ)
	}
}

func TestGetUnknown(t *testing.T) {
	t.Parallel()

	_, err := GetEncoder("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoder not found")

	_, err = GetDecoder("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoder not found")
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Type
		wantErr bool
	}{
		{"routes.yaml", TypeYAML, false},
		{"routes.YML", TypeYAML, false},
		{"conf/routes.json", TypeJSON, false},
		{"routes.toml", TypeTOML, false},
		{"routes.msgpack", TypeMsgpack, false},
		{"routes.ini", "", true},
		{"routes", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			dec, err := DecoderFor(tt.path)
			require.NoError(t, err)
			assert.NotNil(t, dec)
		})
	}
}

func TestEncoders(t *testing.T) {
	t.Parallel()

	assert.Subset(t, Encoders(), []Type{TypeJSON, TypeMsgpack, TypeTOML, TypeYAML})
}

func TestMsgpack_Declarations(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"classes": []any{
			map[string]any{"name": "Users", "cache": 60, "actions": []any{map[string]any{"name": "index"}}},
		},
	}

	data, err := MsgpackCodec{}.Encode(doc)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, MsgpackCodec{}.Decode(data, &out))

	classes, ok := out["classes"].([]any)
	require.True(t, ok)
	require.Len(t, classes, 1)
	class, ok := classes[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Users", class["name"])
	assert.EqualValues(t, 60, class["cache"])
}
