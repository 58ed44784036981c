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

package bridge

import (
	"errors"
	"reflect"

	"github.com/Shopify/go-lua"
	"github.com/rs/zerolog"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/builder"
	"dirpx.dev/bridge/convert"
	"dirpx.dev/bridge/hosttype"
	"dirpx.dev/bridge/luabind"
	"dirpx.dev/bridge/mangle"
	"dirpx.dev/bridge/member"
	"dirpx.dev/bridge/property"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("bridge: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("bridge: builder returned nil resolver")
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	log     zerolog.Logger
	builder apis.Builder
	conv    apis.Converter
	sink    apis.ErrorSink
}

// WithLogger sets the logger shared by every component.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithBuilder replaces the builder of the generic registry and naming resolver.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) { o.builder = b }
}

// WithConverter replaces the host/guest value converter.
func WithConverter(c apis.Converter) Option {
	return func(o *options) { o.conv = c }
}

// WithErrorSink replaces the sink descriptor failures are reported to.
// The default logs through the engine logger.
func WithErrorSink(s apis.ErrorSink) Option {
	return func(o *options) { o.sink = s }
}

// Engine wires the host type catalog, the generic registry, naming, member
// resolution and the Lua adapter for one configuration.
type Engine struct {
	cfg      apis.Config
	log      zerolog.Logger
	catalog  *hosttype.Catalog
	generics apis.Registry
	names    apis.Resolver
	members  *member.Resolver
	binder   *luabind.Binder
}

// New builds an Engine for cfg.
func New(cfg apis.Config, opts ...Option) (*Engine, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.builder == nil {
		o.builder = builder.New(builder.WithLogger(o.log))
	}
	if o.conv == nil {
		o.conv = convert.New()
	}
	if o.sink == nil {
		o.sink = property.LogSink{Logger: o.log.With().Str("component", "property").Logger()}
	}

	m, err := mangle.New(cfg.Mangling)
	if err != nil {
		return nil, err
	}
	cat := hosttype.New(m)
	reg, err := o.builder.BuildRegistry(cfg, cat)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}
	names := o.builder.BuildResolver(cfg, reg)
	if names == nil {
		return nil, ErrNilResolver
	}

	members := member.New(reg, cat,
		member.WithConverter(o.conv),
		member.WithNames(names),
		member.WithConfig(cfg),
		member.WithErrorSink(o.sink),
		member.WithLogger(o.log.With().Str("component", "member").Logger()),
	)
	return &Engine{
		cfg:      cfg,
		log:      o.log,
		catalog:  cat,
		generics: reg,
		names:    names,
		members:  members,
		binder: luabind.New(members, reg,
			luabind.WithConverter(o.conv),
			luabind.WithLogger(o.log.With().Str("component", "lua").Logger()),
		),
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() apis.Config { return e.cfg }

// Catalog returns the host type catalog.
func (e *Engine) Catalog() *hosttype.Catalog { return e.catalog }

// Generics returns the generic type registry.
func (e *Engine) Generics() apis.Registry { return e.generics }

// Names returns the naming resolver.
func (e *Engine) Names() apis.Resolver { return e.names }

// Members returns the member resolver.
func (e *Engine) Members() *member.Resolver { return e.members }

// Lua returns the Lua adapter.
func (e *Engine) Lua() *luabind.Binder { return e.binder }

// Name returns the guest name of v's type.
func (e *Engine) Name(v any) string { return e.names.Resolve(v, e.cfg) }

// NameType returns the guest name of t.
func (e *Engine) NameType(t reflect.Type) string { return e.names.ResolveType(t, e.cfg) }

// Resolve returns the member table of t.
func (e *Engine) Resolve(t reflect.Type) (*member.Type, error) { return e.members.Resolve(t) }

// NewState returns a Lua state with the standard libraries and the host
// library opened.
func (e *Engine) NewState() *lua.State {
	l := lua.NewState()
	lua.OpenLibraries(l)
	e.binder.Open(l)
	return l
}

// Reset forgets every generic definition and cached member table.
func (e *Engine) Reset() {
	e.generics.Reset()
	e.catalog.Reset()
	e.members.Reset()
	e.log.Debug().Msg("engine reset")
}
