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

// Package luabind exposes host objects to Lua scripts run by go-lua.
//
// Host instances are pushed as userdata whose metatable routes field reads
// (__index), writes (__newindex) and printing (__tostring) through the
// property descriptors built by package member. Types exposed with Expose
// behave the same way for static properties. Assigning nil to a property is
// a deletion request and always fails.
//
// Open also installs a "host" table with lookups into the generic registry:
//
//	host.generic(ns, name, arity) -> declared name or nil
//	host.alias(ns, base)          -> first registered name or nil
//	host.basenames(ns)            -> sorted list or nil
//	host.describe(obj, prop)      -> "<property 'pkg.Type.Prop'>"
package luabind

import (
	"fmt"
	"math"
	"reflect"

	"github.com/Shopify/go-lua"
	"github.com/rs/zerolog"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/convert"
	"dirpx.dev/bridge/member"
	"dirpx.dev/bridge/property"
)

const (
	objectMeta = "bridge.object"
	typeMeta   = "bridge.type"
	// LibName is the global the host library is installed under.
	LibName = "host"
)

// Option configures a Binder.
type Option func(*Binder)

// WithConverter sets the converter used by Push.
func WithConverter(c apis.Converter) Option {
	return func(b *Binder) {
		if c != nil {
			b.conv = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Binder) { b.log = l }
}

// Binder connects member tables to Lua states. One Binder may serve many
// states; it holds no per-state data.
type Binder struct {
	members  *member.Resolver
	generics apis.Registry
	conv     apis.Converter
	log      zerolog.Logger
}

// typeRef is the userdata behind an exposed type.
type typeRef struct {
	mt *member.Type
}

// New constructs a Binder. generics may be nil, which disables the
// registry lookups of the host library.
func New(members *member.Resolver, generics apis.Registry, opts ...Option) *Binder {
	b := &Binder{
		members:  members,
		generics: generics,
		conv:     convert.New(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open registers the metatables and the host library in l.
func (b *Binder) Open(l *lua.State) {
	b.ensureMeta(l)
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "generic", Function: b.hostGeneric},
		{Name: "alias", Function: b.hostAlias},
		{Name: "basenames", Function: b.hostBaseNames},
		{Name: "describe", Function: b.hostDescribe},
	}, 0)
	l.SetGlobal(LibName)
}

func (b *Binder) ensureMeta(l *lua.State) {
	if lua.NewMetaTable(l, objectMeta) {
		lua.SetFunctions(l, []lua.RegistryFunction{
			{Name: "__index", Function: b.objectIndex},
			{Name: "__newindex", Function: b.objectNewIndex},
			{Name: "__tostring", Function: b.objectString},
		}, 0)
	}
	l.Pop(1)
	if lua.NewMetaTable(l, typeMeta) {
		lua.SetFunctions(l, []lua.RegistryFunction{
			{Name: "__index", Function: b.typeIndex},
			{Name: "__newindex", Function: b.typeNewIndex},
			{Name: "__tostring", Function: b.typeString},
		}, 0)
	}
	l.Pop(1)
}

// Expose publishes the host type t as the global name for static access.
func (b *Binder) Expose(l *lua.State, name string, t reflect.Type) error {
	mt, err := b.members.Resolve(t)
	if err != nil {
		return fmt.Errorf("expose %s: %w", name, err)
	}
	b.ensureMeta(l)
	l.PushUserData(&typeRef{mt: mt})
	lua.SetMetaTableNamed(l, typeMeta)
	l.SetGlobal(name)
	b.log.Debug().Str("global", name).Str("type", mt.Name).Msg("host type exposed")
	return nil
}

// Push pushes the host value v onto the stack.
func (b *Binder) Push(l *lua.State, v any) error {
	var declared reflect.Type
	if v != nil {
		declared = reflect.TypeOf(v)
	}
	g, err := b.conv.ToGuest(v, declared)
	if err != nil {
		return err
	}
	b.ensureMeta(l)
	b.pushGuest(l, g)
	return nil
}

// SetGlobal pushes v and stores it in the global name.
func (b *Binder) SetGlobal(l *lua.State, name string, v any) error {
	if err := b.Push(l, v); err != nil {
		return err
	}
	l.SetGlobal(name)
	return nil
}

func (b *Binder) pushGuest(l *lua.State, g any) {
	switch v := g.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(v)
	case int64:
		l.PushNumber(float64(v))
	case float64:
		l.PushNumber(v)
	case string:
		l.PushString(v)
	case apis.HostObject:
		if v.HostInstance() == nil {
			l.PushNil()
			return
		}
		l.PushUserData(v)
		lua.SetMetaTableNamed(l, objectMeta)
	default:
		l.PushUserData(v)
		lua.SetMetaTableNamed(l, objectMeta)
	}
}

// guestValue reads the Lua value at index as a guest value. Integral
// numbers become int64.
func (b *Binder) guestValue(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeNil, lua.TypeNone:
		return nil
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeNumber:
		f, _ := l.ToNumber(index)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f)
		}
		return f
	case lua.TypeString:
		s, _ := l.ToString(index)
		return s
	case lua.TypeUserData:
		if ud, ok := l.ToUserData(index).(apis.HostObject); ok {
			return ud
		}
	}
	lua.Errorf(l, "cannot pass a %s value to the host", lua.TypeNameOf(l, index))
	return nil
}

func (b *Binder) checkObject(l *lua.State) (apis.HostObject, *member.Type) {
	obj, ok := lua.CheckUserData(l, 1, objectMeta).(apis.HostObject)
	if !ok || obj.HostInstance() == nil {
		lua.ArgumentError(l, 1, "host object expected")
		return nil, nil
	}
	mt, err := b.members.ResolveValue(obj.HostInstance())
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return nil, nil
	}
	return obj, mt
}

func checkType(l *lua.State) *member.Type {
	ref, ok := lua.CheckUserData(l, 1, typeMeta).(*typeRef)
	if !ok {
		lua.ArgumentError(l, 1, "host type expected")
		return nil
	}
	return ref.mt
}

func raise(l *lua.State, err error) {
	lua.Errorf(l, "%s", err.Error())
}

func (b *Binder) get(l *lua.State, d *property.Descriptor, receiver any) int {
	v, err := d.Get(receiver)
	if err != nil {
		raise(l, err)
		return 0
	}
	b.pushGuest(l, v)
	return 1
}

func (b *Binder) set(l *lua.State, d *property.Descriptor, receiver any) int {
	var v any = apis.DeleteValue
	if !l.IsNoneOrNil(3) {
		v = b.guestValue(l, 3)
	}
	if err := d.Set(receiver, v); err != nil {
		raise(l, err)
	}
	return 0
}

func (b *Binder) objectIndex(l *lua.State) int {
	obj, mt := b.checkObject(l)
	key := lua.CheckString(l, 2)
	d, ok := mt.Lookup(key)
	if !ok {
		lua.Errorf(l, "%s has no property '%s'", mt.Name, key)
		return 0
	}
	return b.get(l, d, obj)
}

func (b *Binder) objectNewIndex(l *lua.State) int {
	obj, mt := b.checkObject(l)
	key := lua.CheckString(l, 2)
	d, ok := mt.Lookup(key)
	if !ok {
		lua.Errorf(l, "%s has no property '%s'", mt.Name, key)
		return 0
	}
	return b.set(l, d, obj)
}

func (b *Binder) objectString(l *lua.State) int {
	_, mt := b.checkObject(l)
	l.PushString("<host " + mt.Name + ">")
	return 1
}

func (b *Binder) typeIndex(l *lua.State) int {
	mt := checkType(l)
	key := lua.CheckString(l, 2)
	d, ok := mt.Static(key)
	if !ok {
		lua.Errorf(l, "%s has no property '%s'", mt.Name, key)
		return 0
	}
	return b.get(l, d, nil)
}

func (b *Binder) typeNewIndex(l *lua.State) int {
	mt := checkType(l)
	key := lua.CheckString(l, 2)
	d, ok := mt.Static(key)
	if !ok {
		lua.Errorf(l, "%s has no property '%s'", mt.Name, key)
		return 0
	}
	return b.set(l, d, nil)
}

func (b *Binder) typeString(l *lua.State) int {
	mt := checkType(l)
	l.PushString("<type " + mt.Name + ">")
	return 1
}
