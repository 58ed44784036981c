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

import "reflect"

// Converter translates values between host and guest representations.
type Converter interface {
	// ToGuest converts a host value using the declared (static) type of the
	// member it came from.
	ToGuest(v any, declared reflect.Type) (any, error)
	// ToHost converts a guest value into a value assignable to declared.
	// With strict set, lossy or cross-kind conversions fail.
	ToHost(v any, declared reflect.Type, strict bool) (any, error)
}

// HostObject is a guest value backed by a host instance.
type HostObject interface {
	HostInstance() any
}

// Unwrapper extracts the host instance behind a guest receiver.
// ok is false when the receiver has no host backing.
type Unwrapper func(receiver any) (inst any, ok bool)

// ErrorSink is the guest runtime's error channel.
type ErrorSink interface {
	// ReportTypeError reports a usage error with a fixed message.
	ReportTypeError(msg string)
	// ReportError reports any other failure.
	ReportError(err error)
}

type none struct{}

func (none) String() string { return "None" }

type deleteValue struct{}

func (deleteValue) String() string { return "<delete>" }

var (
	// None is the guest "no instance" receiver. A nil receiver means the same.
	None any = none{}
	// DeleteValue is passed as the value of a set request to ask for deletion.
	DeleteValue any = deleteValue{}
)

// IsNone reports whether receiver denotes "no instance".
func IsNone(receiver any) bool {
	return receiver == nil || receiver == None
}
