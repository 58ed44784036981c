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
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/config"
)

var (
	// st holds the published process-wide engine; readers never lock.
	st atomic.Pointer[Engine]
	// buildMu serializes writers.
	buildMu sync.Mutex
)

// Default returns the process-wide engine, building one from
// config.DefaultConfig on first use.
func Default() *Engine {
	if e := st.Load(); e != nil {
		return e
	}
	buildMu.Lock()
	defer buildMu.Unlock()
	if e := st.Load(); e != nil {
		return e
	}
	e, err := New(config.DefaultConfig())
	if err != nil {
		// The default configuration always builds.
		panic(err)
	}
	st.Store(e)
	return e
}

// Initialize replaces the process-wide engine with one built for cfg.
// The previous engine, if any, is reset.
func Initialize(cfg apis.Config, opts ...Option) (*Engine, error) {
	buildMu.Lock()
	defer buildMu.Unlock()

	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if old := st.Swap(e); old != nil {
		old.Reset()
	}
	return e, nil
}

// Shutdown resets and unpublishes the process-wide engine. The next Default
// call builds a fresh one.
func Shutdown() {
	buildMu.Lock()
	defer buildMu.Unlock()

	if old := st.Swap(nil); old != nil {
		old.Reset()
	}
}

// Name resolves the guest name of v with the process-wide engine.
func Name(v any) string { return Default().Name(v) }

// NameType resolves the guest name of t with the process-wide engine.
func NameType(t reflect.Type) string { return Default().NameType(t) }
