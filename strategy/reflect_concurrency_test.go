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
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/config"
	"dirpx.dev/bridge/internal/sample"
	"dirpx.dev/bridge/mangle"
	"dirpx.dev/bridge/strategy"
)

// Concurrent resolution under two schemes, with cache resets in between.
func TestReflectStrategy_Concurrent(t *testing.T) {
	s := strategy.NewReflectStrategy()
	backtick := config.NewConfig()
	bracket := config.NewConfig(config.WithMangling(mangle.SchemeBracket))

	cases := []struct {
		typ  reflect.Type
		cfg  apis.Config
		want string
	}{
		{reflect.TypeOf(sample.Counter{}), backtick, "sample.Counter"},
		{reflect.TypeOf([]*sample.Counter{}), bracket, "sample.Counter"},
		{reflect.TypeOf(map[string]sample.Limits{}), backtick, "sample.Limits"},
		{reflect.TypeOf(sample.Pair[string, int]{}), backtick, "sample.Pair`2"},
		{reflect.TypeOf(&sample.Pair[int, int]{}), bracket, "sample.Pair[_,_]"},
		{reflect.TypeOf(sample.Box[func(int, string)]{}), backtick, "sample.Box`1"},
		{reflect.TypeOf(sample.Box[bool]{}), bracket, "sample.Box[_]"},
		{reflect.TypeOf(0), backtick, "int"},
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				tc := cases[(i+id)%len(cases)]
				if got, ok := s.TryResolveType(tc.typ, tc.cfg); !ok || got != tc.want {
					t.Errorf("TryResolveType(%v) = (%q,%v), want %q", tc.typ, got, ok, tc.want)
					return
				}
				if id == 0 && i%500 == 0 {
					strategy.ResetCache()
				}
			}
		}(w)
	}
	wg.Wait()
}
