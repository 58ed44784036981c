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

package apis

// Registry indexes generic type definitions by namespace and base name so
// that a generic family can be selected by arity at call time.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Register records a generic type definition. Types with an empty
	// namespace or name are ignored.
	Register(t Type)
	// BaseNames returns the base names known under ns, or ok=false if the
	// namespace was never registered.
	BaseNames(ns string) (names []string, ok bool)
	// ResolveByName returns the registered definition of the family named
	// name (base or arity-qualified) whose arity equals arity.
	ResolveByName(ns, name string, arity int) (Type, bool)
	// ResolveForType is ResolveByName using t's own namespace and name.
	ResolveForType(t Type, arity int) (Type, bool)
	// AliasName returns the first registered full name for base.
	AliasName(ns, base string) (string, bool)
	// Entries returns a snapshot for diagnostics/docs.
	Entries() []Entry
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single registered generic definition in a Registry snapshot.
type Entry struct {
	// Namespace is the host namespace of the definition.
	Namespace string
	// BaseName is the declared name with its arity marker removed.
	BaseName string
	// Name is the declared name.
	Name string
}
