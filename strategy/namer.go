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
	"reflect"

	"dirpx.dev/bridge/apis"
)

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is the fast path: if a value implements apis.Namer, its
// GuestName() ends the chain.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

var namerType = reflect.TypeOf((*apis.Namer)(nil)).Elem()

// TryResolve checks if v implements apis.Namer and returns its GuestName().
func (*namerStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	if n, ok := v.(apis.Namer); ok {
		return n.GuestName(), true
	}
	return "", false
}

// TryResolveType handles only non-pointer types whose value receiver
// implements apis.Namer; their zero value is asked for the name.
func (*namerStrategy) TryResolveType(t reflect.Type, _ apis.Config) (string, bool) {
	if t == nil || t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface || !t.Implements(namerType) {
		return "", false
	}
	n, ok := reflect.Zero(t).Interface().(apis.Namer)
	if !ok {
		return "", false
	}
	return n.GuestName(), true
}
