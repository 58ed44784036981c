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

// Package convert is the default value converter between Go host values and
// guest values.
//
// Guest values are deliberately small: nil, bool, int64, float64, string,
// and *Object for everything else. An *Object remembers the declared type it
// was converted through, not the dynamic type of the instance, so a property
// declared as an interface hands the guest an interface-typed object.
package convert

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"dirpx.dev/bridge/apis"
)

// Error reports a failed conversion.
type Error struct {
	// From describes the source value.
	From string
	// To is the requested type.
	To reflect.Type
	// Reason is a short explanation.
	Reason string
}

// Error implements error.
func (e *Error) Error() string {
	to := "<nil>"
	if e.To != nil {
		to = e.To.String()
	}
	if e.Reason == "" {
		return fmt.Sprintf("bridge(convert): cannot convert %s to %s", e.From, to)
	}
	return fmt.Sprintf("bridge(convert): cannot convert %s to %s: %s", e.From, to, e.Reason)
}

// Object is a guest value backed by a host instance.
type Object struct {
	// Value is the host instance.
	Value any
	// Type is the declared host type the value was converted through.
	Type reflect.Type
}

// Ensure Object implements apis.HostObject.
var _ apis.HostObject = (*Object)(nil)

// HostInstance returns the backing host instance.
func (o *Object) HostInstance() any {
	if o == nil {
		return nil
	}
	return o.Value
}

// String renders the object for diagnostics.
func (o *Object) String() string {
	if o.Type == nil {
		return fmt.Sprintf("<host %T>", o.Value)
	}
	return fmt.Sprintf("<host %s>", o.Type)
}

// NewObject wraps v as a guest object typed by declared. A nil declared
// type falls back to v's dynamic type.
func NewObject(v any, declared reflect.Type) *Object {
	if declared == nil && v != nil {
		declared = reflect.TypeOf(v)
	}
	return &Object{Value: v, Type: declared}
}

// Unwrap is the default apis.Unwrapper: any apis.HostObject unwraps to its
// host instance.
func Unwrap(receiver any) (any, bool) {
	if ho, ok := receiver.(apis.HostObject); ok {
		inst := ho.HostInstance()
		return inst, inst != nil
	}
	return nil, false
}

// Option configures a Converter.
type Option func(*Converter)

// WithObjectFactory replaces the function used to wrap host instances.
func WithObjectFactory(fn func(v any, declared reflect.Type) any) Option {
	return func(c *Converter) {
		if fn != nil {
			c.wrap = fn
		}
	}
}

// Converter is a reflect-driven apis.Converter. It is stateless and safe for
// concurrent use.
type Converter struct {
	wrap func(v any, declared reflect.Type) any
}

// Ensure Converter implements apis.Converter.
var _ apis.Converter = (*Converter)(nil)

// New constructs a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{wrap: func(v any, t reflect.Type) any { return NewObject(v, t) }}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToGuest converts the host value v according to its declared type.
func (c *Converter) ToGuest(v any, declared reflect.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if declared == nil {
		declared = rv.Type()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), nil
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil, nil
		}
	}
	return c.wrap(v, declared), nil
}

// ToHost converts the guest value v into a value assignable to declared.
func (c *Converter) ToHost(v any, declared reflect.Type, strict bool) (any, error) {
	if declared == nil {
		return nil, &Error{From: describe(v), Reason: "no declared type"}
	}
	if v == nil || v == apis.None {
		return zero(declared, strict, "nil")
	}
	if ho, ok := v.(apis.HostObject); ok {
		v = ho.HostInstance()
		if v == nil {
			return zero(declared, strict, "empty host object")
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(declared) {
		if declared.Kind() == reflect.Interface {
			return v, nil
		}
		return rv.Convert(declared).Interface(), nil
	}

	switch declared.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return toInt(rv, declared, strict)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return toUint(rv, declared, strict)
	case reflect.Float32, reflect.Float64:
		return toFloat(rv, declared, strict)
	case reflect.String:
		if rv.Kind() == reflect.String {
			return rv.Convert(declared).Interface(), nil
		}
		if !strict {
			return reflect.ValueOf(fmt.Sprint(v)).Convert(declared).Interface(), nil
		}
	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Convert(declared).Interface(), nil
		}
		if !strict {
			return reflect.ValueOf(!rv.IsZero()).Convert(declared).Interface(), nil
		}
	default:
		if rv.Type().ConvertibleTo(declared) && rv.Kind() == declared.Kind() {
			return rv.Convert(declared).Interface(), nil
		}
	}
	return nil, &Error{From: describe(v), To: declared}
}

// zero returns the zero value of declared for a guest nil. Strict
// conversion refuses it for types that cannot hold nil.
func zero(declared reflect.Type, strict bool, from string) (any, error) {
	switch declared.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return reflect.Zero(declared).Interface(), nil
	}
	if strict {
		return nil, &Error{From: from, To: declared, Reason: "type is not nillable"}
	}
	return reflect.Zero(declared).Interface(), nil
}

func toInt(rv reflect.Value, declared reflect.Type, strict bool) (any, error) {
	var n int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return nil, &Error{From: describe(rv.Interface()), To: declared, Reason: "overflow"}
		}
		n = int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, &Error{From: describe(f), To: declared, Reason: "overflow"}
		}
		if strict && f != math.Trunc(f) {
			return nil, &Error{From: describe(f), To: declared, Reason: "not an integer"}
		}
		n = int64(f)
	case reflect.String:
		if strict {
			return nil, &Error{From: describe(rv.Interface()), To: declared}
		}
		p, err := strconv.ParseInt(rv.String(), 10, 64)
		if err != nil {
			return nil, &Error{From: describe(rv.Interface()), To: declared, Reason: err.Error()}
		}
		n = p
	default:
		return nil, &Error{From: describe(rv.Interface()), To: declared}
	}
	out := reflect.New(declared).Elem()
	if out.OverflowInt(n) {
		return nil, &Error{From: describe(n), To: declared, Reason: "overflow"}
	}
	out.SetInt(n)
	return out.Interface(), nil
}

func toUint(rv reflect.Value, declared reflect.Type, strict bool) (any, error) {
	var n uint64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return nil, &Error{From: describe(rv.Interface()), To: declared, Reason: "negative value"}
		}
		n = uint64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n = rv.Uint()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
			return nil, &Error{From: describe(f), To: declared, Reason: "overflow"}
		}
		if strict && f != math.Trunc(f) {
			return nil, &Error{From: describe(f), To: declared, Reason: "not an integer"}
		}
		n = uint64(f)
	default:
		return nil, &Error{From: describe(rv.Interface()), To: declared}
	}
	out := reflect.New(declared).Elem()
	if out.OverflowUint(n) {
		return nil, &Error{From: describe(n), To: declared, Reason: "overflow"}
	}
	out.SetUint(n)
	return out.Interface(), nil
}

func toFloat(rv reflect.Value, declared reflect.Type, strict bool) (any, error) {
	var f float64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f = float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
	case reflect.String:
		if strict {
			return nil, &Error{From: describe(rv.Interface()), To: declared}
		}
		p, err := strconv.ParseFloat(rv.String(), 64)
		if err != nil {
			return nil, &Error{From: describe(rv.Interface()), To: declared, Reason: err.Error()}
		}
		f = p
	default:
		return nil, &Error{From: describe(rv.Interface()), To: declared}
	}
	out := reflect.New(declared).Elem()
	if strict && out.OverflowFloat(f) {
		return nil, &Error{From: describe(f), To: declared, Reason: "overflow"}
	}
	out.SetFloat(f)
	return out.Interface(), nil
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T(%v)", v, v)
}
