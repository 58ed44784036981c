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
	"sync"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/mangle"
	uref "dirpx.dev/bridge/utils/reflect"
)

// NewReflectStrategy creates the fallback apis.Strategy. It names the
// nearest named type behind a value as "pkg.Type" and renders generic
// instantiations with the mangling scheme of the config, so that
// Pair[int,string] reads "pkg.Pair`2" under the backtick scheme and
// "pkg.Pair[_,_]" under the bracket scheme. These are the declared names
// the host type catalog records.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey covers every config knob that changes the rendered name.
type cacheKey struct {
	t              reflect.Type
	includeBuiltin bool
	maxUnwrap      int16
	mapPreferElem  bool
	mangling       string
}

var typeNameCache sync.Map // key: cacheKey, val: string

// TryResolve names v's type. Types without a host name resolve to "".
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return byType(reflect.TypeOf(v), cfg), true
}

// TryResolveType names t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	return byType(t, cfg), true
}

func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
		mangling:       cfg.Mangling,
	}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	name := render(t, cfg)
	typeNameCache.Store(key, name)
	return name
}

func render(t reflect.Type, cfg apis.Config) string {
	base, err := uref.Normalize(t, cfg)
	if err != nil {
		return ""
	}
	p := base.PkgPath()
	if p == "" {
		if !cfg.IncludeBuiltins {
			return ""
		}
		return base.Name()
	}
	return path.Base(p) + "." + declaredName(base, cfg)
}

// declaredName is the catalog's name for base: the type name itself, or
// the decorated family name for an instantiation.
func declaredName(base reflect.Type, cfg apis.Config) string {
	name := base.Name()
	if !uref.IsGeneric(base) {
		return name
	}
	m, err := mangle.New(cfg.Mangling)
	if err != nil {
		m = mangle.Backtick{}
	}
	return m.Decorate(mangle.Bracket{}.BaseName(name), mangle.BracketArity(name))
}

// ResetCache drops memoized names. Types loaded by a reloaded package are
// new reflect.Types, so this is only needed to bound memory.
func ResetCache() {
	typeNameCache.Clear()
}
