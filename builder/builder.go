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

package builder

import (
	"github.com/rs/zerolog"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/mangle"
	"dirpx.dev/bridge/registry"
	"dirpx.dev/bridge/resolver"
	"dirpx.dev/bridge/strategy"
)

// Option configures the builder.
type Option func(*builder)

// WithLogger sets the logger handed to built registries.
func WithLogger(l zerolog.Logger) Option {
	return func(b *builder) { b.log = l }
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder carries only construction-time options.
type builder struct {
	log zerolog.Logger
}

// BuildRegistry builds an empty generic registry backed by types. The
// base-name scheme comes from cfg.Mangling; an unknown scheme is an error.
func (b *builder) BuildRegistry(cfg apis.Config, types apis.TypeResolver) (apis.Registry, error) {
	m, err := mangle.New(cfg.Mangling)
	if err != nil {
		return nil, err
	}
	return registry.New(types,
		registry.WithMangler(m),
		registry.WithLogger(b.log.With().Str("component", "generics").Logger()),
	), nil
}

// BuildResolver builds the naming chain: Namer, then generic aliases from
// reg (skipped when reg is nil), then reflection.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry) apis.Resolver {
	var generic apis.Strategy
	if reg != nil {
		generic = strategy.NewGenericStrategy(reg)
	}
	return resolver.New(
		strategy.NewNamerStrategy(),
		generic,
		strategy.NewReflectStrategy(),
	)
}
