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

package convert_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/convert"
)

type Animal interface{ Sound() string }

type Dog struct{ Name string }

func (Dog) Sound() string { return "woof" }

type Level int8

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func TestToGuest_Scalars(t *testing.T) {
	c := convert.New()
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 42, int64(42)},
		{"int8 named", Level(3), int64(3)},
		{"uint16", uint16(7), int64(7)},
		{"float32", float32(1.5), float64(1.5)},
		{"string", "hi", "hi"},
		{"nil ptr", (*Dog)(nil), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.ToGuest(tc.in, nil)
			if err != nil {
				t.Fatalf("ToGuest(%v): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ToGuest(%v) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestToGuest_ObjectUsesDeclaredType(t *testing.T) {
	c := convert.New()
	d := &Dog{Name: "rex"}

	got, err := c.ToGuest(d, typeOf[Animal]())
	if err != nil {
		t.Fatalf("ToGuest: %v", err)
	}
	obj, ok := got.(*convert.Object)
	if !ok {
		t.Fatalf("ToGuest returned %T, want *convert.Object", got)
	}
	if obj.Type != typeOf[Animal]() {
		t.Fatalf("object type = %v, want Animal", obj.Type)
	}
	if obj.HostInstance() != d {
		t.Fatal("object does not wrap the original instance")
	}
}

func TestToHost(t *testing.T) {
	c := convert.New()
	cases := []struct {
		name   string
		in     any
		typ    reflect.Type
		strict bool
		want   any
		fails  bool
	}{
		{"int from int64", int64(5), typeOf[int](), true, 5, false},
		{"int from integral float", 5.0, typeOf[int](), true, 5, false},
		{"int from fraction strict", 5.5, typeOf[int](), true, nil, true},
		{"int from fraction lax", 5.5, typeOf[int](), false, 5, false},
		{"int8 overflow", int64(300), typeOf[int8](), true, nil, true},
		{"named int", int64(2), typeOf[Level](), true, Level(2), false},
		{"uint negative", int64(-1), typeOf[uint](), true, nil, true},
		{"float from int", int64(2), typeOf[float64](), true, 2.0, false},
		{"string strict from int", int64(2), typeOf[string](), true, nil, true},
		{"string lax from int", int64(2), typeOf[string](), false, "2", false},
		{"int lax from string", "12", typeOf[int](), false, 12, false},
		{"int strict from string", "12", typeOf[int](), true, nil, true},
		{"bool strict from int", int64(1), typeOf[bool](), true, nil, true},
		{"bool lax from int", int64(1), typeOf[bool](), false, true, false},
		{"nil to int strict", nil, typeOf[int](), true, nil, true},
		{"nil to int lax", nil, typeOf[int](), false, 0, false},
		{"empty object to int strict", &convert.Object{}, typeOf[int](), true, nil, true},
		{"empty object to struct strict", &convert.Object{}, typeOf[Dog](), true, nil, true},
		{"empty object to int lax", &convert.Object{}, typeOf[int](), false, 0, false},
		{"empty object to pointer", &convert.Object{}, typeOf[*Dog](), true, (*Dog)(nil), false},
		{"any accepts anything", "x", typeOf[any](), true, "x", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.ToHost(tc.in, tc.typ, tc.strict)
			if tc.fails {
				var ce *convert.Error
				if !errors.As(err, &ce) {
					t.Fatalf("ToHost(%v) err = %v, want *convert.Error", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToHost(%v): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ToHost(%v) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestToHost_Objects(t *testing.T) {
	c := convert.New()
	d := &Dog{Name: "rex"}
	obj := convert.NewObject(d, nil)

	got, err := c.ToHost(obj, typeOf[Animal](), true)
	if err != nil || got != any(d) {
		t.Fatalf("ToHost(obj, Animal) = (%v,%v)", got, err)
	}
	got, err = c.ToHost(obj, typeOf[*Dog](), true)
	if err != nil || got != any(d) {
		t.Fatalf("ToHost(obj, *Dog) = (%v,%v)", got, err)
	}
	if _, err := c.ToHost(obj, typeOf[string](), true); err == nil {
		t.Fatal("ToHost(obj, string) should fail")
	}
	got, err = c.ToHost(nil, typeOf[*Dog](), true)
	if err != nil || got != any((*Dog)(nil)) {
		t.Fatalf("ToHost(nil, *Dog) = (%v,%v)", got, err)
	}
}

func TestUnwrap(t *testing.T) {
	d := &Dog{}
	if inst, ok := convert.Unwrap(convert.NewObject(d, nil)); !ok || inst != any(d) {
		t.Fatalf("Unwrap(object) = (%v,%v)", inst, ok)
	}
	for _, v := range []any{nil, apis.None, "text", d} {
		if _, ok := convert.Unwrap(v); ok {
			t.Fatalf("Unwrap(%v) should fail", v)
		}
	}
}
