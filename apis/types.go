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

// Type is a host type as seen by the generic type registry.
//
// Name is the declared name including any arity marker (for example
// "Dict`2"), and Arity is the number of generic parameters the type declares.
type Type interface {
	Namespace() string
	Name() string
	Arity() int
}

// TypeResolver materializes host types from fully qualified names
// ("namespace.Name"). It may return several matches when qualified names
// collide across loaded host packages; callers use the first one that fits.
type TypeResolver interface {
	LookupTypes(qualifiedName string) []Type
}

// Mangler isolates a host ecosystem's generic naming convention.
type Mangler interface {
	// BaseName strips the arity marker and its suffix from name.
	// A name without a marker is returned unchanged.
	BaseName(name string) string
	// Decorate produces the declared name of a generic definition from its
	// base name and arity. Arity 0 yields base unchanged.
	Decorate(base string, arity int) string
}
