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

package route

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Handler references the code serving a route.
// It is either a Callable (see Func) or a Named reference ("Class::method").
// The router never invokes handlers; it stores them and returns them on match.
type Handler interface {
	// String returns a human-readable name, used in route tables and logs.
	String() string

	isHandler()
}

// Callable wraps a function value.
type Callable struct {
	Fn any
}

// Func returns a Handler wrapping fn.
//
// Example:
//
//	route.Get("health", route.Func(func() string { return "ok" }))
func Func(fn any) Handler {
	return Callable{Fn: fn}
}

func (Callable) isHandler() {}

// String returns the function name when fn is a func, its type otherwise.
func (c Callable) String() string {
	if c.Fn == nil {
		return "<nil>"
	}
	v := reflect.ValueOf(c.Fn)
	if v.Kind() == reflect.Func {
		if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
			return fn.Name()
		}
	}
	return fmt.Sprintf("%T", c.Fn)
}

// Named references a handler by a "Class::method" identifier.
type Named string

func (Named) isHandler() {}

// String returns the identifier.
func (n Named) String() string {
	return string(n)
}

// Class returns the part before "::", or the whole identifier if there is none.
func (n Named) Class() string {
	class, _, _ := strings.Cut(string(n), "::")
	return class
}

// Method returns the part after "::", or "" if there is none.
func (n Named) Method() string {
	_, method, _ := strings.Cut(string(n), "::")
	return method
}

// Point builds the Named reference for a method of a class.
func Point(class, method string) Named {
	return Named(class + "::" + method)
}
