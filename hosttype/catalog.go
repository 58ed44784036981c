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

// Package hosttype catalogs host generic type definitions by qualified name.
//
// Go does not expose generic definitions at run time, only instantiations
// such as "Pair[int,string]". The catalog bridges that gap: each definition
// is recorded under the declared name produced by the active Mangler
// ("Pair`2" with the backtick scheme) and keeps a prototype instantiation
// for diagnostics. The Catalog is the TypeResolver the generic registry
// consults to materialize names.
package hosttype

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/mangle"
)

// ErrNotGeneric is returned by Add for a type that has no type arguments.
var ErrNotGeneric = errors.New("bridge(hosttype): type is not a generic instantiation")

// Definition is a generic type definition known to the catalog.
type Definition struct {
	ns    string
	name  string
	arity int
	proto reflect.Type
}

// Ensure Definition implements apis.Type.
var _ apis.Type = (*Definition)(nil)

// Namespace returns the host namespace (Go package path).
func (d *Definition) Namespace() string { return d.ns }

// Name returns the declared name including the arity marker.
func (d *Definition) Name() string { return d.name }

// Arity returns the number of generic parameters.
func (d *Definition) Arity() int { return d.arity }

// Proto returns the instantiation the definition was first seen through,
// or nil for definitions declared by hand.
func (d *Definition) Proto() reflect.Type { return d.proto }

// String returns the qualified name.
func (d *Definition) String() string { return Qualify(d.ns, d.name) }

// Qualify joins a namespace and a declared name.
func Qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

// Catalog is a concurrency-safe TypeResolver over known definitions.
type Catalog struct {
	mangler apis.Mangler
	mu      sync.RWMutex
	defs    map[string][]*Definition // qualified name -> definitions
}

// Ensure Catalog implements apis.TypeResolver.
var _ apis.TypeResolver = (*Catalog)(nil)

// New constructs an empty Catalog that names definitions with m.
// A nil m selects the backtick scheme.
func New(m apis.Mangler) *Catalog {
	if m == nil {
		m = mangle.Backtick{}
	}
	return &Catalog{mangler: m, defs: make(map[string][]*Definition)}
}

// Define records a definition of base with the given arity under ns. If an
// identical definition already exists it is returned instead.
func (c *Catalog) Define(ns, base string, arity int, proto reflect.Type) *Definition {
	d, _ := c.define(ns, base, arity, proto)
	return d
}

func (c *Catalog) define(ns, base string, arity int, proto reflect.Type) (*Definition, bool) {
	name := c.mangler.Decorate(base, arity)
	qn := Qualify(ns, name)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.defs[qn] {
		if d.arity == arity {
			return d, false
		}
	}
	d := &Definition{ns: ns, name: name, arity: arity, proto: proto}
	c.defs[qn] = append(c.defs[qn], d)
	return d, true
}

// Add records the definition behind the Go instantiation t.
// The second result reports whether the definition was new.
func (c *Catalog) Add(t reflect.Type) (*Definition, bool, error) {
	if t == nil {
		return nil, false, ErrNotGeneric
	}
	arity := mangle.BracketArity(t.Name())
	if arity == 0 {
		return nil, false, ErrNotGeneric
	}
	d, added := c.define(t.PkgPath(), mangle.Bracket{}.BaseName(t.Name()), arity, t)
	return d, added, nil
}

// LookupTypes returns every definition recorded under qualifiedName.
func (c *Catalog) LookupTypes(qualifiedName string) []apis.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	defs := c.defs[qualifiedName]
	if len(defs) == 0 {
		return nil
	}
	out := make([]apis.Type, len(defs))
	for i, d := range defs {
		out[i] = d
	}
	return out
}

// Count returns the number of definitions.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, defs := range c.defs {
		n += len(defs)
	}
	return n
}

// Reset forgets every definition.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs = make(map[string][]*Definition)
}
