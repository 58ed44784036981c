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

package strategy_test

import (
	"reflect"
	"testing"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/strategy"
)

type namedType struct{}

func (namedType) GuestName() string { return "custom.Name" }

type pointerNamed struct{}

func (*pointerNamed) GuestName() string { return "custom.Pointer" }

func TestNamerStrategy_TryResolve(t *testing.T) {
	s := strategy.NewNamerStrategy()
	conf := apis.Config{}

	got, ok := s.TryResolve(namedType{}, conf)
	if !ok || got != "custom.Name" {
		t.Fatalf("TryResolve: got (%q,%v), want (custom.Name,true)", got, ok)
	}

	got, ok = s.TryResolve(&pointerNamed{}, conf)
	if !ok || got != "custom.Pointer" {
		t.Fatalf("TryResolve(*pointerNamed): got (%q,%v)", got, ok)
	}

	got, ok = s.TryResolve(struct{}{}, conf)
	if ok || got != "" {
		t.Fatalf("TryResolve(non-namer): got (%q,%v), want ('',false)", got, ok)
	}

	if _, ok := s.TryResolve(nil, conf); ok {
		t.Fatal("TryResolve(nil) should not be handled")
	}
}

func TestNamerStrategy_TryResolveType(t *testing.T) {
	s := strategy.NewNamerStrategy()
	conf := apis.Config{}

	cases := []struct {
		name string
		typ  reflect.Type
		want string
		ok   bool
	}{
		{"value receiver", reflect.TypeOf(namedType{}), "custom.Name", true},
		{"pointer to value receiver", reflect.TypeOf(&namedType{}), "", false},
		{"pointer receiver only", reflect.TypeOf(pointerNamed{}), "", false},
		{"interface", reflect.TypeOf((*apis.Namer)(nil)).Elem(), "", false},
		{"plain", reflect.TypeOf(0), "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tc.typ, conf)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("TryResolveType(%v) = (%q,%v), want (%q,%v)", tc.typ, got, ok, tc.want, tc.ok)
			}
		})
	}
}

var _ apis.Namer = namedType{}
