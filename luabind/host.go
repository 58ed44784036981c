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

package luabind

import (
	"github.com/Shopify/go-lua"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/property"
)

func (b *Binder) hostGeneric(l *lua.State) int {
	ns := lua.CheckString(l, 1)
	name := lua.CheckString(l, 2)
	arity := lua.CheckInteger(l, 3)
	if b.generics == nil {
		l.PushNil()
		return 1
	}
	t, ok := b.generics.ResolveByName(ns, name, arity)
	if !ok {
		l.PushNil()
		return 1
	}
	l.PushString(t.Name())
	return 1
}

func (b *Binder) hostAlias(l *lua.State) int {
	ns := lua.CheckString(l, 1)
	base := lua.CheckString(l, 2)
	if b.generics == nil {
		l.PushNil()
		return 1
	}
	alias, ok := b.generics.AliasName(ns, base)
	if !ok {
		l.PushNil()
		return 1
	}
	l.PushString(alias)
	return 1
}

func (b *Binder) hostBaseNames(l *lua.State) int {
	ns := lua.CheckString(l, 1)
	if b.generics == nil {
		l.PushNil()
		return 1
	}
	names, ok := b.generics.BaseNames(ns)
	if !ok {
		l.PushNil()
		return 1
	}
	l.NewTable()
	for i, n := range names {
		l.PushString(n)
		l.RawSetInt(-2, i+1)
	}
	return 1
}

func (b *Binder) hostDescribe(l *lua.State) int {
	key := lua.CheckString(l, 2)
	var (
		d  *property.Descriptor
		ok bool
	)
	switch ud := l.ToUserData(1).(type) {
	case *typeRef:
		d, ok = ud.mt.Static(key)
	case apis.HostObject:
		mt, err := b.members.ResolveValue(ud.HostInstance())
		if err != nil {
			raise(l, err)
			return 0
		}
		d, ok = mt.Lookup(key)
	default:
		lua.ArgumentError(l, 1, "host object or type expected")
		return 0
	}
	if !ok {
		l.PushNil()
		return 1
	}
	l.PushString(d.Describe())
	return 1
}
