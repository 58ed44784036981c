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

// Package bridge exposes Go host types to Lua guest scripts.
//
// The host side is plain Go: struct fields, accessor methods and package
// paths. The guest side is Lua 5.2 as run by github.com/Shopify/go-lua.
// bridge sits in between and answers two questions.
//
// # Generic type families
//
// Lua has no generics syntax, while a Go package may declare several
// generic types that share a base name but differ in the number of type
// parameters. The generic registry (package registry) remembers, per
// namespace and base name, every declared name seen so far ("Dict`1",
// "Dict`2") and resolves a base name plus an arity back to a concrete
// definition. The first definition registered for a base name is its
// alias.
//
// # Property descriptors
//
// Every guest-visible property is a property.Descriptor over a Binding: an
// optional getter, an optional setter, a declared value type and a
// validity handle. Descriptors enforce read-only and write-only bindings,
// static versus instance access and the refusal to delete, convert values
// across the boundary and surface failures raised by host accessors.
// Unloading a type flips its bindings to Deleted, after which descriptors
// still held by scripts fail with a stable message.
//
// # Engine
//
// An Engine composes the pieces for one apis.Config:
//
//	eng, err := bridge.New(config.NewConfig())
//	l := eng.NewState()
//	_ = eng.Lua().SetGlobal(l, "cart", cart)
//	err = lua.DoString(l, `cart.Owner = "ann"`)
//
// A process-wide engine is available through Default, Initialize and
// Shutdown. It is published through an atomic pointer, so readers never
// lock; writers build a new engine and swap it in. Nothing in the other
// packages depends on it.
package bridge
