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

// Package property exposes host properties to a guest runtime as descriptors.
//
// A Binding pairs an optional getter and setter with the property's declared
// value type and a Member validity handle. A Descriptor answers the guest's
// get, set and describe requests for one Binding:
//
//	b := property.NewBinding("shop.Cart.Total", reflect.TypeOf(0), getter, nil)
//	d := property.NewDescriptor(b, convert.New())
//	v, err := d.Get(obj)      // ok
//	err = d.Set(obj, int64(5)) // property is read-only
//
// Accessors are plain functions over an opaque instance, so the same
// descriptor logic serves reflect-built thunks, compiled closures or
// generated code. Descriptors hold no mutable state apart from the
// Member handle and are safe for concurrent use.
package property

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Member tracks whether the host member behind a binding still exists.
// The only transition is Valid -> Deleted, and it is terminal.
type Member struct {
	name    string
	deleted atomic.Pointer[string]
}

// NewMember returns a valid Member for the declaring-type-qualified name.
func NewMember(name string) *Member {
	return &Member{name: name}
}

// Name returns the declaring-type-qualified name.
func (m *Member) Name() string { return m.name }

// Valid reports whether the member still exists.
func (m *Member) Valid() bool { return m.deleted.Load() == nil }

// Delete marks the member as gone. Only the first call records a reason;
// later calls report false.
func (m *Member) Delete(reason string) bool {
	msg := fmt.Sprintf("the host member %s no longer exists", m.name)
	if reason != "" {
		msg += ": " + reason
	}
	return m.deleted.CompareAndSwap(nil, &msg)
}

// DeletedMessage returns the description stored by Delete, or "" while valid.
func (m *Member) DeletedMessage() string {
	if p := m.deleted.Load(); p != nil {
		return *p
	}
	return ""
}

// String returns the member name.
func (m *Member) String() string { return m.name }

// Getter reads a property. inst is nil for static getters.
type Getter struct {
	Static bool
	Get    func(inst any) (any, error)
}

// Setter writes a property. inst is nil for static setters.
type Setter struct {
	Static bool
	Set    func(inst, value any) error
}

// Binding is one host property: its accessors, declared type and validity.
// A nil Getter means write-only; a nil Setter means read-only.
type Binding struct {
	Member    *Member
	Getter    *Getter
	Setter    *Setter
	ValueType reflect.Type
}

// NewBinding builds a Binding with a fresh valid Member.
func NewBinding(name string, valueType reflect.Type, get *Getter, set *Setter) *Binding {
	if get != nil && get.Get == nil {
		get = nil
	}
	if set != nil && set.Set == nil {
		set = nil
	}
	return &Binding{
		Member:    NewMember(name),
		Getter:    get,
		Setter:    set,
		ValueType: valueType,
	}
}

// Name returns the declaring-type-qualified name.
func (b *Binding) Name() string { return b.Member.Name() }

// CanRead reports whether the binding has a getter.
func (b *Binding) CanRead() bool { return b.Getter != nil }

// CanWrite reports whether the binding has a setter.
func (b *Binding) CanWrite() bool { return b.Setter != nil }

// IsStatic reports whether every accessor present is static.
func (b *Binding) IsStatic() bool {
	if b.Getter != nil && !b.Getter.Static {
		return false
	}
	if b.Setter != nil && !b.Setter.Static {
		return false
	}
	return b.Getter != nil || b.Setter != nil
}
