/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"reflect"
	"strings"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/config"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("bridge(reflect): nil reflect.Type provided")
	// ErrNotNamed indicates that the type, after unwrapping containers, has
	// no named host type behind it (anonymous struct, func, interface{}).
	ErrNotNamed = errors.New("bridge(reflect): type has no named host type")
)

// Normalize returns the nearest named host type behind t.
//
// Unwrapping policy:
//   - a named type other than a pointer is returned as is, so a named
//     slice or map keeps its own members;
//   - ptr/slice/array/chan -> Elem();
//   - map[K]V: the preferred side (V if MapPreferElem, else K) when named,
//     then the other side, then keep unwrapping V.
//
// At most cfg.MaxUnwrap levels are removed; MaxUnwrap <= 0 selects
// config.DefaultMaxUnwrap.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; i < maxUnwrap; i++ {
		if t.Kind() != reflect.Ptr && t.Name() != "" {
			return t, nil
		}
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
			t = t.Elem()
		case reflect.Map:
			first, second := t.Elem(), t.Key()
			if !cfg.MapPreferElem {
				first, second = second, first
			}
			if first.Name() != "" {
				return first, nil
			}
			if second.Name() != "" {
				return second, nil
			}
			t = t.Elem()
		default:
			return nil, ErrNotNamed
		}
	}

	if t.Kind() != reflect.Ptr && t.Name() != "" {
		return t, nil
	}
	return nil, ErrNotNamed
}

// IsGeneric reports whether t is an instantiation of a generic type.
func IsGeneric(t reflect.Type) bool {
	return t != nil && strings.IndexByte(t.Name(), '[') > 0
}

// Builtin reports whether t is a predeclared type such as int or string.
func Builtin(t reflect.Type) bool {
	return t != nil && t.Name() != "" && t.PkgPath() == ""
}

// MethodSet returns the type whose method set covers both value and
// pointer receivers of the named type t.
func MethodSet(t reflect.Type) reflect.Type {
	if t == nil || t.Kind() == reflect.Interface || t.Kind() == reflect.Ptr {
		return t
	}
	return reflect.PointerTo(t)
}
