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

package member

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"dirpx.dev/bridge/property"
	uref "dirpx.dev/bridge/utils/reflect"
)

// TagName is the struct tag consulted for field properties.
const TagName = "bridge"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Methods that never become properties.
var ignoredMethods = map[string]bool{
	"String":    true,
	"GoString":  true,
	"Error":     true,
	"GuestName": true,
}

type qualifier func(host reflect.Type, name string) string

type named struct {
	name string
	b    *property.Binding
}

// parseTag reads `bridge:"name,readonly"` and `bridge:"-"`.
func parseTag(tag string) (name string, readonly, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	for _, o := range strings.Split(opts, ",") {
		if strings.TrimSpace(o) == "readonly" {
			readonly = true
		}
	}
	return strings.TrimSpace(name), readonly, false
}

func invalidTarget(inst any, host reflect.Type) error {
	return &property.Error{
		Kind:   property.KindType,
		Err:    property.ErrInvalidTarget,
		Detail: fmt.Sprintf("%s: %T is not a %s", property.ErrInvalidTarget, inst, host),
	}
}

// target returns the host value behind inst. It is addressable when inst
// is a pointer.
func target(inst any, host reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(inst)
	if !rv.IsValid() {
		return reflect.Value{}, invalidTarget(inst, host)
	}
	if rv.Kind() == reflect.Ptr && rv.Type().Elem() == host {
		if rv.IsNil() {
			return reflect.Value{}, invalidTarget(inst, host)
		}
		return rv.Elem(), nil
	}
	if rv.Type() == host {
		return rv, nil
	}
	return reflect.Value{}, invalidTarget(inst, host)
}

func addressable(inst any, host reflect.Type) (reflect.Value, error) {
	rv, err := target(inst, host)
	if err != nil {
		return rv, err
	}
	if !rv.CanAddr() {
		return reflect.Value{}, &property.Error{
			Kind:   property.KindType,
			Err:    property.ErrInvalidTarget,
			Detail: fmt.Sprintf("%s: %s is held by value and cannot be modified", property.ErrInvalidTarget, host),
		}
	}
	return rv, nil
}

func valueOf(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

func fieldBindings(host reflect.Type, q qualifier) []named {
	if host.Kind() != reflect.Struct {
		return nil
	}
	var out []named
	seen := make(map[string]bool)
	for _, f := range reflect.VisibleFields(host) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, readonly, skip := parseTag(f.Tag.Get(TagName))
		if skip {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		qn := q(host, name)
		index, ft := f.Index, f.Type
		get := &property.Getter{Get: func(inst any) (any, error) {
			rv, err := target(inst, host)
			if err != nil {
				return nil, err
			}
			fv, err := rv.FieldByIndexErr(index)
			if err != nil {
				return nil, &property.InvocationError{Member: qn, Cause: err}
			}
			return fv.Interface(), nil
		}}
		var set *property.Setter
		if !readonly {
			set = &property.Setter{Set: func(inst, v any) error {
				rv, err := addressable(inst, host)
				if err != nil {
					return err
				}
				fv, err := rv.FieldByIndexErr(index)
				if err != nil {
					return &property.InvocationError{Member: qn, Cause: err}
				}
				fv.Set(valueOf(v, ft))
				return nil
			}}
		}
		out = append(out, named{name: name, b: property.NewBinding(qn, ft, get, set)})
	}
	return out
}

func isGetter(ft reflect.Type) bool {
	if ft.NumIn() != 1 || ft.IsVariadic() {
		return false
	}
	switch ft.NumOut() {
	case 1:
		return ft.Out(0) != errorType
	case 2:
		return ft.Out(1) == errorType
	}
	return false
}

func isSetter(m reflect.Method) bool {
	if len(m.Name) <= 3 || !strings.HasPrefix(m.Name, "Set") || !unicode.IsUpper(rune(m.Name[3])) {
		return false
	}
	ft := m.Type
	if ft.NumIn() != 2 || ft.IsVariadic() {
		return false
	}
	switch ft.NumOut() {
	case 0:
		return true
	case 1:
		return ft.Out(0) == errorType
	}
	return false
}

// methodBindings pairs X() with SetX(v). Method expressions on the pointer
// type include the receiver as the first parameter.
func methodBindings(host reflect.Type, q qualifier) []named {
	if host.Kind() == reflect.Interface {
		return nil
	}
	ms := uref.MethodSet(host)
	getters := make(map[string]reflect.Method)
	setters := make(map[string]reflect.Method)
	for i := 0; i < ms.NumMethod(); i++ {
		m := ms.Method(i)
		if ignoredMethods[m.Name] {
			continue
		}
		switch {
		case isSetter(m):
			setters[m.Name[3:]] = m
		case isGetter(m.Type):
			getters[m.Name] = m
		}
	}

	names := make([]string, 0, len(getters)+len(setters))
	for n := range getters {
		names = append(names, n)
	}
	for n := range setters {
		if _, ok := getters[n]; !ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	out := make([]named, 0, len(names))
	for _, name := range names {
		qn := q(host, name)
		var (
			vt  reflect.Type
			get *property.Getter
			set *property.Setter
		)
		if m, ok := getters[name]; ok {
			vt = m.Type.Out(0)
			get = methodGetter(host, m.Name, qn)
		}
		if m, ok := setters[name]; ok {
			in := m.Type.In(1)
			if vt == nil {
				vt = in
			}
			if in == vt {
				set = methodSetter(host, m.Name, qn, in)
			}
		}
		out = append(out, named{name: name, b: property.NewBinding(qn, vt, get, set)})
	}
	return out
}

// callResult splits a method result into its value and error.
func callResult(out []reflect.Value, qn string) (any, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return nil, &property.InvocationError{Member: qn, Cause: err}
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func methodGetter(host reflect.Type, method, qn string) *property.Getter {
	return &property.Getter{Get: func(inst any) (any, error) {
		rv, err := target(inst, host)
		if err != nil {
			return nil, err
		}
		if !rv.CanAddr() {
			cp := reflect.New(host).Elem()
			cp.Set(rv)
			rv = cp
		}
		return callResult(rv.Addr().MethodByName(method).Call(nil), qn)
	}}
}

func methodSetter(host reflect.Type, method, qn string, in reflect.Type) *property.Setter {
	return &property.Setter{Set: func(inst, v any) error {
		rv, err := addressable(inst, host)
		if err != nil {
			return err
		}
		_, err = callResult(rv.Addr().MethodByName(method).Call([]reflect.Value{valueOf(v, in)}), qn)
		return err
	}}
}

func staticBinding(host reflect.Type, d staticDef, q qualifier) *property.Binding {
	qn := q(host, d.name)
	var (
		get *property.Getter
		set *property.Setter
	)
	if d.get != nil {
		get = &property.Getter{Static: true, Get: func(any) (any, error) {
			v, err := d.get()
			if err != nil {
				return nil, &property.InvocationError{Member: qn, Cause: err}
			}
			return v, nil
		}}
	}
	if d.set != nil {
		set = &property.Setter{Static: true, Set: func(_, v any) error {
			if err := d.set(v); err != nil {
				return &property.InvocationError{Member: qn, Cause: err}
			}
			return nil
		}}
	}
	return property.NewBinding(qn, d.valueType, get, set)
}
