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

// Package member turns host Go types into property descriptors.
//
// Resolve walks a named type once and builds one property.Descriptor per
// guest-visible property:
//
//   - exported struct fields, read/write, tunable with a `bridge` tag
//     (`bridge:"total,readonly"`, `bridge:"-"`);
//   - accessor methods X() and SetX(v), either of which may be missing;
//   - static properties registered with DefineStatic.
//
// Generic instantiations are recorded in the host type catalog and the
// generic registry the first time they are seen. Unload invalidates every
// descriptor handed out for a type, which is how hot reload surfaces to
// guest code still holding them.
package member

import (
	"errors"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/config"
	"dirpx.dev/bridge/convert"
	"dirpx.dev/bridge/hosttype"
	"dirpx.dev/bridge/property"
	"dirpx.dev/bridge/resolver"
	"dirpx.dev/bridge/strategy"
	uref "dirpx.dev/bridge/utils/reflect"
)

var (
	// ErrDuplicateStatic is returned when a static property is defined twice.
	ErrDuplicateStatic = errors.New("bridge(member): static property already defined")
	// ErrInvalidStatic is returned for a static definition without accessors.
	ErrInvalidStatic = errors.New("bridge(member): static property needs a getter or a setter")
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithConverter sets the converter used by every descriptor.
func WithConverter(c apis.Converter) Option {
	return func(r *Resolver) {
		if c != nil {
			r.conv = c
		}
	}
}

// WithNames sets the resolver that produces declaring-type-qualified names.
func WithNames(n apis.Resolver) Option {
	return func(r *Resolver) {
		if n != nil {
			r.names = n
		}
	}
}

// WithConfig sets the naming and normalization config.
func WithConfig(cfg apis.Config) Option {
	return func(r *Resolver) { r.cfg = cfg }
}

// WithErrorSink sets the sink descriptors report failures to.
func WithErrorSink(s apis.ErrorSink) Option {
	return func(r *Resolver) { r.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

type staticDef struct {
	name      string
	valueType reflect.Type
	get       func() (any, error)
	set       func(any) error
}

// Resolver builds and caches member tables for host types.
type Resolver struct {
	generics apis.Registry
	catalog  *hosttype.Catalog
	conv     apis.Converter
	names    apis.Resolver
	cfg      apis.Config
	sink     apis.ErrorSink
	log      zerolog.Logger

	mu      sync.Mutex
	cache   map[reflect.Type]*Type
	statics map[reflect.Type][]staticDef
}

// New constructs a Resolver. generics and catalog may be nil, in which case
// generic instantiations are not recorded.
func New(generics apis.Registry, catalog *hosttype.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		generics: generics,
		catalog:  catalog,
		conv:     convert.New(),
		cfg:      config.DefaultConfig(),
		log:      zerolog.Nop(),
		cache:    make(map[reflect.Type]*Type),
		statics:  make(map[reflect.Type][]staticDef),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.names == nil {
		r.names = resolver.New(strategy.NewNamerStrategy(), strategy.NewReflectStrategy())
	}
	return r
}

// Resolve returns the member table of the nearest named type behind t.
func (r *Resolver) Resolve(t reflect.Type) (*Type, error) {
	host, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if mt, ok := r.cache[host]; ok {
		r.mu.Unlock()
		return mt, nil
	}
	statics := append([]staticDef(nil), r.statics[host]...)
	r.mu.Unlock()

	mt := r.build(host, statics)

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[host]; ok {
		return cached, nil
	}
	r.cache[host] = mt
	return mt, nil
}

// ResolveValue is Resolve for the dynamic type of v.
func (r *Resolver) ResolveValue(v any) (*Type, error) {
	return r.Resolve(reflect.TypeOf(v))
}

// DefineStatic registers a static property on t. It applies to member
// tables built after the call.
func (r *Resolver) DefineStatic(t reflect.Type, name string, valueType reflect.Type, get func() (any, error), set func(any) error) error {
	host, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}
	if get == nil && set == nil {
		return ErrInvalidStatic
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.statics[host] {
		if d.name == name {
			return ErrDuplicateStatic
		}
	}
	r.statics[host] = append(r.statics[host], staticDef{name: name, valueType: valueType, get: get, set: set})
	delete(r.cache, host)
	return nil
}

// Unload marks every member of t as deleted and evicts its table. It
// returns the number of invalidated properties.
//
// Descriptors and *Type values obtained before the call keep failing with
// the deleted message. Callers that resolve again, such as luabind on every
// instance access, get a fresh table with valid descriptors; static
// definitions survive the unload. Only holders of the old table, like a
// type published with luabind's Expose, observe the deletion.
func (r *Resolver) Unload(t reflect.Type, reason string) int {
	host, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return 0
	}

	r.mu.Lock()
	mt, ok := r.cache[host]
	delete(r.cache, host)
	r.mu.Unlock()
	if !ok {
		return 0
	}

	n := 0
	for _, d := range mt.all() {
		if d.Binding().Member.Delete(reason) {
			n++
		}
	}
	r.log.Info().Str("type", mt.Name).Int("properties", n).Str("reason", reason).Msg("host type unloaded")
	return n
}

// Reset drops every cached member table. Descriptors already handed out
// stay valid.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[reflect.Type]*Type)
}

// Cached reports the number of cached member tables.
func (r *Resolver) Cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Resolver) build(host reflect.Type, statics []staticDef) *Type {
	mt := &Type{
		Host:       host,
		Name:       r.names.ResolveType(host, r.cfg),
		Properties: make(map[string]*property.Descriptor),
		Statics:    make(map[string]*property.Descriptor),
	}
	if mt.Name == "" {
		mt.Name = host.String()
	}
	mt.Definition = r.recordGeneric(host)

	for _, p := range fieldBindings(host, r.qualify) {
		mt.Properties[p.name] = r.describe(p.b)
	}
	for _, p := range methodBindings(host, r.qualify) {
		if _, taken := mt.Properties[p.name]; taken {
			continue
		}
		mt.Properties[p.name] = r.describe(p.b)
	}
	for _, d := range statics {
		mt.Statics[d.name] = r.describe(staticBinding(host, d, r.qualify))
	}

	r.log.Debug().
		Str("type", mt.Name).
		Int("properties", len(mt.Properties)).
		Int("statics", len(mt.Statics)).
		Msg("host type resolved")
	return mt
}

func (r *Resolver) qualify(host reflect.Type, name string) string {
	return r.names.ResolveMember(host, name, r.cfg)
}

func (r *Resolver) describe(b *property.Binding) *property.Descriptor {
	opts := []property.Option{}
	if r.sink != nil {
		opts = append(opts, property.WithErrorSink(r.sink))
	}
	return property.NewDescriptor(b, r.conv, opts...)
}

// recordGeneric adds the definition behind an instantiation to the catalog
// and registers it with the generic registry the first time it is seen.
func (r *Resolver) recordGeneric(host reflect.Type) apis.Type {
	if r.catalog == nil || !uref.IsGeneric(host) {
		return nil
	}
	def, added, err := r.catalog.Add(host)
	if err != nil {
		return nil
	}
	if added && r.generics != nil {
		r.generics.Register(def)
	}
	return def
}
