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

// Package sample holds demonstration host types for bridgectl and
// integration tests.
package sample

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/bridge/member"
)

// ErrNegative is returned when a counter is set below zero.
var ErrNegative = errors.New("sample: counter value must not be negative")

var created atomic.Int64

// Counter is a labelled counter with a validated value.
type Counter struct {
	Label string
	Step  int    `bridge:"step"`
	Kind  string `bridge:"kind,readonly"`

	value int
}

// NewCounter returns a counter stepping by one.
func NewCounter(label string) *Counter {
	created.Add(1)
	return &Counter{Label: label, Step: 1, Kind: "counter"}
}

// Value returns the current value.
func (c *Counter) Value() int { return c.value }

// SetValue sets the current value.
func (c *Counter) SetValue(v int) error {
	if v < 0 {
		return ErrNegative
	}
	c.value = v
	return nil
}

// Limits carries process-wide static settings.
type Limits struct{}

var limits = struct {
	sync.Mutex
	maxCounters int
}{maxCounters: 16}

// Pair is a two-parameter generic host type.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Box is a one-parameter generic host type.
type Box[T any] struct {
	Item T
}

// Register defines the static properties of the sample types.
func Register(members *member.Resolver) error {
	intType := reflect.TypeOf(0)
	if err := members.DefineStatic(reflect.TypeOf(Limits{}), "MaxCounters", intType,
		func() (any, error) {
			limits.Lock()
			defer limits.Unlock()
			return limits.maxCounters, nil
		},
		func(v any) error {
			n := v.(int)
			if n < 0 {
				return ErrNegative
			}
			limits.Lock()
			limits.maxCounters = n
			limits.Unlock()
			return nil
		},
	); err != nil {
		return err
	}
	return members.DefineStatic(reflect.TypeOf(Counter{}), "Created", reflect.TypeOf(int64(0)),
		func() (any, error) { return created.Load(), nil },
		nil,
	)
}
