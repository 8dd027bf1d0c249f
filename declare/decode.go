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

package declare

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"rivaas.dev/dispatch/group"
	"rivaas.dev/dispatch/route"
)

//go:embed schema.json
var schemaDocument []byte

const schemaName = "declarations.json"

// compiledSchema compiles the embedded schema once.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDocument))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(schemaName, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaName)
})

// Schema returns the JSON schema declaration documents are checked against.
func Schema() []byte {
	return bytes.Clone(schemaDocument)
}

// document is the decoded form of a declaration document.
type document struct {
	Classes []classDoc `mapstructure:"classes" validate:"dive"`
}

type classDoc struct {
	Name    string      `mapstructure:"name" validate:"required"`
	Group   *groupDoc   `mapstructure:"group"`
	Actions []actionDoc `mapstructure:"actions" validate:"dive"`

	componentsDoc `mapstructure:",squash"`
}

type groupDoc struct {
	Kind   string  `mapstructure:"kind" validate:"required,oneof=controller resource"`
	Prefix *string `mapstructure:"prefix"`
	Level  int     `mapstructure:"level" validate:"gte=0"`
}

type actionDoc struct {
	Name string   `mapstructure:"name" validate:"required"`
	Maps []mapDoc `mapstructure:"maps" validate:"dive"`

	componentsDoc `mapstructure:",squash"`
}

type mapDoc struct {
	Rule    *string  `mapstructure:"rule"`
	Methods []string `mapstructure:"methods" validate:"dive,required"`
}

type componentsDoc struct {
	Domains     []string          `mapstructure:"domains" validate:"dive,required"`
	Middlewares []any             `mapstructure:"middlewares"`
	Where       map[string]string `mapstructure:"where" validate:"dive,required"`
	Cache       int               `mapstructure:"cache" validate:"gte=0"`
}

// validate checks decoded documents; field names in messages follow the
// document keys.
var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
})

// Decode turns a declaration document into sources, in document order.
//
// Errors:
//   - Returns [*DecodeError] with stage "schema" if the document does not
//     match [Schema]
//   - Returns [*DecodeError] with stage "decode" or "validate" if the
//     document cannot be decoded or holds invalid values
//   - Returns [*DecodeError] with stage "build" if a class holds an invalid
//     group or middleware declaration
func Decode(values map[string]any) ([]Source, error) {
	normalized, err := normalize(values)
	if err != nil {
		return nil, &DecodeError{Stage: "schema", Err: err}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, &DecodeError{Stage: "schema", Err: err}
	}
	if err = schema.Validate(normalized); err != nil {
		return nil, &DecodeError{Stage: "schema", Err: err}
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			castIntHook,
		),
		Result: &doc,
	})
	if err != nil {
		return nil, &DecodeError{Stage: "decode", Err: err}
	}
	if err = decoder.Decode(normalized); err != nil {
		return nil, &DecodeError{Stage: "decode", Err: err}
	}

	if err = validate().Struct(&doc); err != nil {
		return nil, &DecodeError{Stage: "validate", Err: validationErrors(err)}
	}

	sources := make([]Source, 0, len(doc.Classes))
	for _, cd := range doc.Classes {
		class, err := cd.build()
		if err != nil {
			return nil, &DecodeError{Stage: "build", Class: cd.Name, Err: err}
		}
		sources = append(sources, class)
	}

	return sources, nil
}

// normalize converts decoder output (which may hold typed slices, typed maps
// or sized integers) into plain JSON values.
func normalize(values map[string]any) (any, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("document is not representable as JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// castIntHook coerces numbers and numeric strings into int fields.
func castIntHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	if n, ok := data.(json.Number); ok {
		data = n.String()
	}
	return cast.ToIntE(data)
}

// validationErrors flattens validator failures into one joined error.
func validationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed on %q", fe.Namespace(), fe.Tag()))
	}
	return errors.Join(errs...)
}

func (cd classDoc) build() (*Class, error) {
	var g *Group
	if cd.Group != nil {
		var err error
		if g, err = cd.Group.build(); err != nil {
			return nil, err
		}
	}

	defaults, err := cd.componentsDoc.build()
	if err != nil {
		return nil, err
	}
	class := NewClass(cd.Name, g).Defaults(defaults)

	for _, ad := range cd.Actions {
		comps, err := ad.componentsDoc.build()
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", ad.Name, err)
		}

		ms := make([]Mapping, 0, len(ad.Maps))
		for _, md := range ad.Maps {
			ms = append(ms, Mapping{Rule: md.Rule, Methods: md.Methods})
		}
		class.Action(ad.Name, comps, ms...)
	}

	return class, nil
}

// build resolves the group descriptor. Without prefix and level the prefix
// is the last component of the class name.
func (gd groupDoc) build() (*Group, error) {
	kind := Kind(gd.Kind)
	if kind != KindController && kind != KindResource {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, gd.Kind)
	}

	switch {
	case gd.Prefix != nil && gd.Level != 0:
		return nil, ErrPrefixAndLevel
	case gd.Prefix != nil:
		return &Group{Kind: kind, Prefix: group.Literal(*gd.Prefix)}, nil
	case gd.Level == 0:
		return &Group{Kind: kind, Prefix: group.Level(1)}, nil
	default:
		return &Group{Kind: kind, Prefix: group.Level(gd.Level)}, nil
	}
}

func (cd componentsDoc) build() (Components, error) {
	mws, err := route.ParseMiddlewares(cd.Middlewares...)
	if err != nil {
		return Components{}, err
	}

	return Components{
		Domains:     cd.Domains,
		Middlewares: mws,
		Where:       cd.Where,
		Cache:       cd.Cache,
	}, nil
}
