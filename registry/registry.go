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

// Package registry indexes host generic type definitions by namespace and
// base name.
//
// The guest runtime has no generics syntax, while the host exposes every
// arity of a generic family as a distinctly named type ("Dict`1",
// "Dict`2"). The registry records which declared names share a base name so
// that a guest reference to "Dict" plus an arity can be turned back into a
// concrete definition. Materialization is delegated to an apis.TypeResolver.
package registry

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/mangle"
)

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithMangler sets the scheme used to derive base names.
func WithMangler(m apis.Mangler) Option {
	return func(r *Registry) {
		if m != nil {
			r.mangler = m
		}
	}
}

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New constructs an empty Registry that materializes names through types.
func New(types apis.TypeResolver, opts ...Option) *Registry {
	r := &Registry{
		types:   types,
		mangler: mangle.Backtick{},
		log:     zerolog.Nop(),
		mapping: make(map[string]map[string][]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry maps namespace -> base name -> declared names in registration order.
type Registry struct {
	// types materializes qualified names into host types.
	types apis.TypeResolver
	// mangler derives base names from declared names.
	mangler apis.Mangler
	// log receives registration diagnostics.
	log zerolog.Logger
	// mu guards mapping for readers and writers alike.
	mu sync.Mutex
	// mapping is replaced wholesale by Reset, never pruned.
	mapping map[string]map[string][]string
}

// Ensure Registry implements apis.Registry.
var _ apis.Registry = (*Registry)(nil)

// Register records the generic definition t. Types without a namespace or a
// name cannot be indexed and are ignored. Registering the same definition
// twice appends a duplicate, which breaks first-wins aliasing; callers
// register each definition once.
func (r *Registry) Register(t apis.Type) {
	if t == nil {
		return
	}
	ns, name := t.Namespace(), t.Name()
	if ns == "" || name == "" {
		return
	}
	base := r.mangler.BaseName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	nsmap, ok := r.mapping[ns]
	if !ok {
		nsmap = make(map[string][]string)
		r.mapping[ns] = nsmap
	}
	nsmap[base] = append(nsmap[base], name)

	r.log.Debug().
		Str("namespace", ns).
		Str("base", base).
		Str("name", name).
		Msg("generic definition registered")
}

// BaseNames returns the sorted base names registered under ns.
// ok is false when ns was never registered.
func (r *Registry) BaseNames(ns string) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nsmap, ok := r.mapping[ns]
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(nsmap))
	for base := range nsmap {
		names = append(names, base)
	}
	sort.Strings(names)
	return names, true
}

// ResolveByName returns the first candidate of the family name under ns,
// in registration order, whose materialized arity equals arity. name may be
// a base name or an arity-qualified declared name. When the resolver returns
// several types for one qualified name, the first with a matching arity wins.
func (r *Registry) ResolveByName(ns, name string, arity int) (apis.Type, bool) {
	names, ok := r.candidates(ns, name)
	if !ok {
		return nil, false
	}
	for _, n := range names {
		for _, t := range r.lookup(ns, n) {
			if t != nil && t.Arity() == arity {
				return t, true
			}
		}
	}
	return nil, false
}

// ResolveForType is ResolveByName with t's namespace and name.
func (r *Registry) ResolveForType(t apis.Type, arity int) (apis.Type, bool) {
	if t == nil {
		return nil, false
	}
	return r.ResolveByName(t.Namespace(), t.Name(), arity)
}

// Candidates materializes every registered member of the family name under
// ns, in registration order. Names the resolver cannot materialize are
// skipped.
func (r *Registry) Candidates(ns, name string) ([]apis.Type, bool) {
	names, ok := r.candidates(ns, name)
	if !ok {
		return nil, false
	}
	out := make([]apis.Type, 0, len(names))
	for _, n := range names {
		if t, ok := r.materialize(ns, n); ok {
			out = append(out, t)
		}
	}
	return out, true
}

// AliasName returns the first declared name registered for base under ns.
func (r *Registry) AliasName(ns, base string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := r.mapping[ns][base]
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// Entries returns a snapshot ordered by namespace, base name, then
// registration order.
func (r *Registry) Entries() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []apis.Entry
	for ns, nsmap := range r.mapping {
		for base, names := range nsmap {
			for _, n := range names {
				entries = append(entries, apis.Entry{Namespace: ns, BaseName: base, Name: n})
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Namespace != entries[j].Namespace {
			return entries[i].Namespace < entries[j].Namespace
		}
		return entries[i].BaseName < entries[j].BaseName
	})
	return entries
}

// Reset replaces the whole registry with an empty one.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mapping = make(map[string]map[string][]string)
	r.log.Debug().Msg("generic registry reset")
}

// candidates copies the declared names of the family under the lock so the
// resolver is never called while it is held.
func (r *Registry) candidates(ns, name string) ([]string, bool) {
	base := r.mangler.BaseName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	nsmap, ok := r.mapping[ns]
	if !ok {
		return nil, false
	}
	names, ok := nsmap[base]
	if !ok {
		return nil, false
	}
	return append([]string(nil), names...), true
}

func (r *Registry) lookup(ns, name string) []apis.Type {
	if r.types == nil {
		return nil
	}
	return r.types.LookupTypes(ns + "." + name)
}

func (r *Registry) materialize(ns, name string) (apis.Type, bool) {
	found := r.lookup(ns, name)
	if len(found) == 0 || found[0] == nil {
		return nil, false
	}
	return found[0], true
}
