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

package property

import (
	"errors"

	"dirpx.dev/bridge/apis"
	"dirpx.dev/bridge/convert"
)

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithUnwrapper sets how receivers are turned into host instances.
func WithUnwrapper(fn apis.Unwrapper) Option {
	return func(d *Descriptor) {
		if fn != nil {
			d.unwrap = fn
		}
	}
}

// WithErrorSink sets the guest error channel failures are reported to.
func WithErrorSink(sink apis.ErrorSink) Option {
	return func(d *Descriptor) { d.sink = sink }
}

// Descriptor implements get/set/describe for one Binding.
type Descriptor struct {
	b      *Binding
	conv   apis.Converter
	unwrap apis.Unwrapper
	sink   apis.ErrorSink
}

// NewDescriptor wraps b. A nil conv selects convert.New().
func NewDescriptor(b *Binding, conv apis.Converter, opts ...Option) *Descriptor {
	if conv == nil {
		conv = convert.New()
	}
	d := &Descriptor{b: b, conv: conv, unwrap: convert.Unwrap}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Binding returns the wrapped binding.
func (d *Descriptor) Binding() *Binding { return d.b }

// Get reads the property through receiver. A nil or apis.None receiver
// means access through the type, which only static getters allow.
func (d *Descriptor) Get(receiver any) (any, error) {
	if !d.b.Member.Valid() {
		return nil, d.fail(d.deleted())
	}
	g := d.b.Getter
	if g == nil {
		return nil, d.fail(typeError(ErrCannotRead))
	}

	var inst any
	if apis.IsNone(receiver) {
		if !g.Static {
			return nil, d.fail(typeError(ErrInstanceGet))
		}
	} else {
		var ok bool
		if inst, ok = d.unwrap(receiver); !ok {
			return nil, d.fail(typeError(ErrInvalidTarget))
		}
		if g.Static {
			inst = nil
		}
	}

	v, err := d.invokeGet(g, inst)
	if err != nil {
		return nil, d.fail(hostFailure(err))
	}
	out, err := d.conv.ToGuest(v, d.b.ValueType)
	if err != nil {
		return nil, d.fail(err)
	}
	return out, nil
}

// Set writes value through receiver. apis.DeleteValue requests deletion,
// which properties never allow.
func (d *Descriptor) Set(receiver, value any) error {
	if !d.b.Member.Valid() {
		return d.fail(d.deleted())
	}
	if value == apis.DeleteValue {
		return d.fail(typeError(ErrCannotDelete))
	}
	s := d.b.Setter
	if s == nil {
		return d.fail(typeError(ErrReadOnly))
	}

	hv, err := d.conv.ToHost(value, d.b.ValueType, true)
	if err != nil {
		return d.fail(err)
	}

	none := apis.IsNone(receiver)
	if !s.Static && none {
		return d.fail(typeError(ErrInstanceSet))
	}

	var inst any
	if !s.Static {
		var ok bool
		if inst, ok = d.unwrap(receiver); !ok {
			return d.fail(typeError(ErrInvalidTarget))
		}
	}
	if err := d.invokeSet(s, inst, hv); err != nil {
		return d.fail(hostFailure(err))
	}
	return nil
}

// Describe returns the guest representation of the descriptor. It does not
// check validity.
func (d *Descriptor) Describe() string {
	return "<property '" + d.b.Name() + "'>"
}

// String implements fmt.Stringer.
func (d *Descriptor) String() string { return d.Describe() }

func (d *Descriptor) deleted() *Error {
	return &Error{Kind: KindType, Err: ErrMemberDeleted, Detail: d.b.Member.DeletedMessage()}
}

func (d *Descriptor) invokeGet(g *Getter, inst any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &InvocationError{Member: d.b.Name(), Cause: &PanicError{Value: r}}
		}
	}()
	return g.Get(inst)
}

func (d *Descriptor) invokeSet(s *Setter, inst, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InvocationError{Member: d.b.Name(), Cause: &PanicError{Value: r}}
		}
	}()
	return s.Set(inst, value)
}

// hostFailure classifies an accessor failure. Classified errors raised by
// the accessor pass through; anything else surfaces its invocation cause.
func hostFailure(err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	return &Error{Kind: KindInvocation, Err: surface(err)}
}

// fail reports err to the sink and returns it.
func (d *Descriptor) fail(err error) error {
	if d.sink != nil {
		var classified *Error
		if errors.As(err, &classified) && classified.Kind == KindType {
			d.sink.ReportTypeError(classified.Error())
		} else {
			d.sink.ReportError(err)
		}
	}
	return err
}
