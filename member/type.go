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

package member

import (
	"reflect"
	"sort"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/property"
)

// Type is the guest view of one host type.
type Type struct {
	// Host is the named host type.
	Host reflect.Type
	// Name is the guest-visible type name.
	Name string
	// Definition is the generic definition behind Host, or nil.
	Definition apis.Type
	// Properties holds instance properties by guest name.
	Properties map[string]*property.Descriptor
	// Statics holds static properties by guest name.
	Statics map[string]*property.Descriptor
}

// Lookup finds the descriptor for name as seen through an instance.
// Static properties are reachable through instances too.
func (t *Type) Lookup(name string) (*property.Descriptor, bool) {
	if d, ok := t.Properties[name]; ok {
		return d, true
	}
	d, ok := t.Statics[name]
	return d, ok
}

// Static finds the descriptor for name as seen through the type.
// Instance properties are returned as well so that the descriptor can
// explain why access without an instance fails.
func (t *Type) Static(name string) (*property.Descriptor, bool) {
	if d, ok := t.Statics[name]; ok {
		return d, true
	}
	d, ok := t.Properties[name]
	return d, ok
}

// Names returns the sorted instance property names.
func (t *Type) Names() []string { return sortedKeys(t.Properties) }

// StaticNames returns the sorted static property names.
func (t *Type) StaticNames() []string { return sortedKeys(t.Statics) }

// String returns the guest name.
func (t *Type) String() string { return t.Name }

func (t *Type) all() []*property.Descriptor {
	out := make([]*property.Descriptor, 0, len(t.Properties)+len(t.Statics))
	for _, d := range t.Properties {
		out = append(out, d)
	}
	for _, d := range t.Statics {
		out = append(out, d)
	}
	return out
}

func sortedKeys(m map[string]*property.Descriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
