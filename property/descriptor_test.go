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

package property_test

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/convert"
	"dirpx.dev/bridge/property"
)

type counter struct{ n int }

var intType = reflect.TypeOf(0)

var staticLimit = 10

func instanceGetter() *property.Getter {
	return &property.Getter{Get: func(inst any) (any, error) {
		return inst.(*counter).n, nil
	}}
}

func instanceSetter() *property.Setter {
	return &property.Setter{Set: func(inst, v any) error {
		inst.(*counter).n = v.(int)
		return nil
	}}
}

func staticGetter() *property.Getter {
	return &property.Getter{Static: true, Get: func(inst any) (any, error) {
		if inst != nil {
			return nil, errors.New("static getter received an instance")
		}
		return staticLimit, nil
	}}
}

func staticSetter() *property.Setter {
	return &property.Setter{Static: true, Set: func(inst, v any) error {
		if inst != nil {
			return errors.New("static setter received an instance")
		}
		staticLimit = v.(int)
		return nil
	}}
}

// recordingSink captures what the descriptor reports to the guest.
type recordingSink struct {
	mu         sync.Mutex
	typeErrors []string
	errs       []error
}

func (s *recordingSink) ReportTypeError(msg string) {
	s.mu.Lock()
	s.typeErrors = append(s.typeErrors, msg)
	s.mu.Unlock()
}

func (s *recordingSink) ReportError(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func obj(c *counter) any { return convert.NewObject(c, nil) }

func wantTypeError(t *testing.T, err error, sentinel error) {
	t.Helper()
	var perr *property.Error
	if !errors.As(err, &perr) || perr.Kind != property.KindType {
		t.Fatalf("err = %v, want TypeError", err)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want %v", err, sentinel)
	}
	if err.Error() != sentinel.Error() {
		t.Fatalf("message = %q, want %q", err.Error(), sentinel.Error())
	}
}

func TestRoundTrip(t *testing.T) {
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), instanceSetter()),
		convert.New(),
	)
	c := &counter{}
	if err := d.Set(obj(c), 7.0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := d.Get(obj(c))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != int64(7) {
		t.Fatalf("Get = %#v, want int64(7)", got)
	}
}

func TestReadOnly(t *testing.T) {
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), nil),
		convert.New(),
	)
	c := &counter{n: 3}

	wantTypeError(t, d.Set(obj(c), int64(5)), property.ErrReadOnly)
	// Regardless of receiver.
	wantTypeError(t, d.Set(nil, int64(5)), property.ErrReadOnly)

	if got, err := d.Get(obj(c)); err != nil || got != int64(3) {
		t.Fatalf("Get = (%v,%v), want 3", got, err)
	}
}

func TestWriteOnly(t *testing.T) {
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, nil, instanceSetter()),
		convert.New(),
	)
	for _, recv := range []any{nil, apis.None, obj(&counter{}), "guest"} {
		_, err := d.Get(recv)
		wantTypeError(t, err, property.ErrCannotRead)
	}
}

func TestStaticAccessWithoutInstance(t *testing.T) {
	staticLimit = 10
	d := property.NewDescriptor(
		property.NewBinding("test.Limits.Max", intType, staticGetter(), staticSetter()),
		convert.New(),
	)
	if got, err := d.Get(nil); err != nil || got != int64(10) {
		t.Fatalf("Get(nil) = (%v,%v)", got, err)
	}
	if err := d.Set(apis.None, int64(12)); err != nil {
		t.Fatalf("Set(None): %v", err)
	}
	// A static property reached through an instance ignores the instance.
	if got, err := d.Get(obj(&counter{})); err != nil || got != int64(12) {
		t.Fatalf("Get(instance) = (%v,%v)", got, err)
	}
	if err := d.Set(obj(&counter{}), int64(4)); err != nil || staticLimit != 4 {
		t.Fatalf("Set(instance) = %v, limit %d", err, staticLimit)
	}
}

func TestInstanceAccessWithoutInstance(t *testing.T) {
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), instanceSetter()),
		convert.New(),
	)
	for _, recv := range []any{nil, apis.None} {
		_, err := d.Get(recv)
		wantTypeError(t, err, property.ErrInstanceGet)
		wantTypeError(t, d.Set(recv, int64(1)), property.ErrInstanceSet)
	}
}

func TestInvalidTarget(t *testing.T) {
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), instanceSetter()),
		convert.New(),
	)
	_, err := d.Get("not a host object")
	wantTypeError(t, err, property.ErrInvalidTarget)
	wantTypeError(t, d.Set(map[string]any{}, int64(1)), property.ErrInvalidTarget)
}

func TestDelete(t *testing.T) {
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), instanceSetter()),
		convert.New(),
	)
	wantTypeError(t, d.Set(obj(&counter{}), apis.DeleteValue), property.ErrCannotDelete)

	// Deletion is refused before the missing setter is noticed.
	ro := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), nil),
		convert.New(),
	)
	wantTypeError(t, ro.Set(obj(&counter{}), apis.DeleteValue), property.ErrCannotDelete)
}

func TestSetOrder_ConversionBeforeReceiverCheck(t *testing.T) {
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), instanceSetter()),
		convert.New(),
	)
	err := d.Set(nil, "not a number")
	var ce *convert.Error
	if !errors.As(err, &ce) {
		t.Fatalf("Set(nil, string) err = %v, want conversion error first", err)
	}
	// Fractions are rejected by strict conversion.
	if err := d.Set(obj(&counter{}), 1.5); !errors.As(err, &ce) {
		t.Fatalf("Set(1.5) err = %v, want conversion error", err)
	}
}

func TestDeletedBinding(t *testing.T) {
	b := property.NewBinding("test.counter.N", intType, instanceGetter(), instanceSetter())
	d := property.NewDescriptor(b, convert.New())

	if !b.Member.Delete("package reloaded") {
		t.Fatal("first Delete should report true")
	}
	if b.Member.Delete("again") {
		t.Fatal("second Delete should report false")
	}

	msg := b.Member.DeletedMessage()
	if !strings.Contains(msg, "test.counter.N") || !strings.Contains(msg, "package reloaded") {
		t.Fatalf("DeletedMessage = %q", msg)
	}

	_, err := d.Get(obj(&counter{}))
	if !errors.Is(err, property.ErrMemberDeleted) || err.Error() != msg {
		t.Fatalf("Get err = %v, want deleted message", err)
	}
	err = d.Set(obj(&counter{}), int64(1))
	if !errors.Is(err, property.ErrMemberDeleted) || err.Error() != msg {
		t.Fatalf("Set err = %v, want deleted message", err)
	}
	// Deletion is checked before the deletion marker.
	if err := d.Set(nil, apis.DeleteValue); !errors.Is(err, property.ErrMemberDeleted) {
		t.Fatalf("Set(delete) err = %v", err)
	}
	if got := d.Describe(); got != "<property 'test.counter.N'>" {
		t.Fatalf("Describe = %q", got)
	}
}

var errBoom = errors.New("boom")

func TestHostInvocationErrors(t *testing.T) {
	cases := []struct {
		name   string
		getter func(any) (any, error)
		want   func(error) bool
	}{
		{
			name:   "wrapped cause is surfaced",
			getter: func(any) (any, error) { return nil, &property.InvocationError{Member: "m", Cause: errBoom} },
			want:   func(err error) bool { return err.Error() == "boom" && errors.Is(err, errBoom) },
		},
		{
			name:   "unwrapped error passes as is",
			getter: func(any) (any, error) { return nil, errBoom },
			want:   func(err error) bool { return err.Error() == "boom" },
		},
		{
			name:   "panic is recovered",
			getter: func(any) (any, error) { panic("kaput") },
			want: func(err error) bool {
				var pe *property.PanicError
				return errors.As(err, &pe) && pe.Value == "kaput"
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordingSink{}
			d := property.NewDescriptor(
				property.NewBinding("test.counter.N", intType, &property.Getter{Get: tc.getter}, nil),
				convert.New(),
				property.WithErrorSink(sink),
			)
			_, err := d.Get(obj(&counter{}))
			var perr *property.Error
			if !errors.As(err, &perr) || perr.Kind != property.KindInvocation {
				t.Fatalf("err = %v, want HostInvocationError", err)
			}
			if !tc.want(err) {
				t.Fatalf("unexpected err %v", err)
			}
			if len(sink.errs) != 1 || len(sink.typeErrors) != 0 {
				t.Fatalf("sink = %+v", sink)
			}
		})
	}
}

func TestSinkReceivesTypeErrors(t *testing.T) {
	sink := &recordingSink{}
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), nil),
		convert.New(),
		property.WithErrorSink(sink),
	)
	_ = d.Set(obj(&counter{}), int64(1))
	if len(sink.typeErrors) != 1 || sink.typeErrors[0] != "property is read-only" {
		t.Fatalf("typeErrors = %v", sink.typeErrors)
	}
}

func TestCustomUnwrapper(t *testing.T) {
	c := &counter{n: 9}
	d := property.NewDescriptor(
		property.NewBinding("test.counter.N", intType, instanceGetter(), nil),
		convert.New(),
		property.WithUnwrapper(func(r any) (any, bool) {
			if r == "the counter" {
				return c, true
			}
			return nil, false
		}),
	)
	if got, err := d.Get("the counter"); err != nil || got != int64(9) {
		t.Fatalf("Get = (%v,%v)", got, err)
	}
}

func TestBindingFlags(t *testing.T) {
	b := property.NewBinding("x", intType, staticGetter(), staticSetter())
	if !b.CanRead() || !b.CanWrite() || !b.IsStatic() {
		t.Fatalf("flags = %v %v %v", b.CanRead(), b.CanWrite(), b.IsStatic())
	}
	b = property.NewBinding("x", intType, instanceGetter(), &property.Setter{})
	if b.CanWrite() || b.IsStatic() {
		t.Fatal("empty setter should be dropped; instance getter is not static")
	}
}
