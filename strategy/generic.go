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

package strategy

import (
	"path"
	"reflect"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/mangle"
	uref "dirpx.dev/bridge/utils/reflect"
)

// NewGenericStrategy creates an apis.Strategy that names generic
// instantiations after the definition registered first for their family.
func NewGenericStrategy(reg apis.Registry) apis.Strategy {
	return &genericStrategy{reg: reg}
}

// genericStrategy consults the generic registry. "Pair[int,string]" in
// package example.com/shop becomes "shop.Pair`2" when Pair`2 was the first
// Pair definition registered.
type genericStrategy struct {
	reg apis.Registry
}

// Ensure genericStrategy implements apis.Strategy.
var _ apis.Strategy = (*genericStrategy)(nil)

// TryResolve names v's type.
func (s *genericStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return s.TryResolveType(reflect.TypeOf(v), cfg)
}

// TryResolveType names t when it normalizes to a registered instantiation.
func (s *genericStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil || s.reg == nil {
		return "", false
	}
	base, err := uref.Normalize(t, cfg)
	if err != nil || !uref.IsGeneric(base) {
		return "", false
	}
	ns := base.PkgPath()
	alias, ok := s.reg.AliasName(ns, mangle.Bracket{}.BaseName(base.Name()))
	if !ok {
		return "", false
	}
	return path.Base(ns) + "." + alias, true
}
