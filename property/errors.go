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
	"fmt"
)

// Kind classifies descriptor failures.
type Kind int

const (
	// KindType is a usage error, reported to the guest as a TypeError.
	KindType Kind = iota + 1
	// KindInvocation is a failure raised by the host accessor itself.
	KindInvocation
)

// String returns the guest-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindType:
		return "TypeError"
	case KindInvocation:
		return "HostInvocationError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrMemberDeleted marks access through a binding whose host member is gone.
	ErrMemberDeleted = errors.New("host member was deleted")
	// ErrCannotRead is returned when a property has no getter.
	ErrCannotRead = errors.New("property cannot be read")
	// ErrReadOnly is returned when a property has no setter.
	ErrReadOnly = errors.New("property is read-only")
	// ErrCannotDelete is returned for every deletion request.
	ErrCannotDelete = errors.New("cannot delete property")
	// ErrInstanceGet is returned when an instance property is read without a receiver.
	ErrInstanceGet = errors.New("instance property must be accessed through a class instance")
	// ErrInstanceSet is returned when an instance property is set without a receiver.
	ErrInstanceSet = errors.New("instance property must be set on an instance")
	// ErrInvalidTarget is returned when the receiver has no host instance behind it.
	ErrInvalidTarget = errors.New("invalid target")
)

// Error is a classified descriptor failure.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Err is the sentinel or the surfaced host cause.
	Err error
	// Detail overrides Err's message when set.
	Detail string
}

// Error returns Detail when set, otherwise the message of Err.
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// typeError builds a KindType failure around a sentinel.
func typeError(sentinel error) *Error {
	return &Error{Kind: KindType, Err: sentinel}
}

// InvocationError wraps a failure raised inside a host accessor, the way a
// reflective call wraps the real exception. Descriptors surface Cause.
type InvocationError struct {
	// Member is the qualified name of the accessor's property.
	Member string
	// Cause is the failure raised by the accessor.
	Cause error
}

// Error implements error.
func (e *InvocationError) Error() string {
	if e.Cause == nil {
		return "host accessor failed: " + e.Member
	}
	return "host accessor failed: " + e.Member + ": " + e.Cause.Error()
}

// Unwrap returns Cause.
func (e *InvocationError) Unwrap() error { return e.Cause }

// PanicError carries a value recovered from a panicking accessor.
type PanicError struct {
	Value any
}

// Error implements error.
func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// surface unwraps exactly one invocation layer.
func surface(err error) error {
	var inv *InvocationError
	if errors.As(err, &inv) && inv.Cause != nil {
		return inv.Cause
	}
	return err
}
