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

// Package mangle implements host generic naming conventions.
//
// A host runtime that exposes each generic instantiation as a distinctly
// named type encodes the arity into the declared name. The guest refers to
// the family by its base name instead, so the registry needs a single
// function that strips the marker. Two schemes are provided:
//
//   - Backtick: "Dict`2" (delimiter followed by the arity digits).
//   - Bracket: Go's own "Pair[int,string]" instantiation names.
package mangle

import (
	"errors"
	"strconv"
	"strings"

	"dirpx.dev/bridge/apis"
)

const (
	// SchemeBacktick names the delimiter+digits scheme.
	SchemeBacktick = "backtick"
	// SchemeBracket names the Go type-argument scheme.
	SchemeBracket = "bracket"
	// DefaultDelim is the arity delimiter used by Backtick when none is set.
	DefaultDelim = '`'
)

// ErrUnknownScheme is returned by New for an unrecognized scheme name.
var ErrUnknownScheme = errors.New("bridge(mangle): unknown mangling scheme")

// New returns the Mangler registered under scheme. An empty scheme selects
// the backtick scheme.
func New(scheme string) (apis.Mangler, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeBacktick:
		return Backtick{}, nil
	case SchemeBracket:
		return Bracket{}, nil
	default:
		return nil, ErrUnknownScheme
	}
}

// Backtick is the "Name" + delimiter + arity convention.
type Backtick struct {
	// Delim overrides DefaultDelim when non-zero.
	Delim byte
}

// Ensure Backtick implements apis.Mangler.
var _ apis.Mangler = Backtick{}

func (b Backtick) delim() byte {
	if b.Delim == 0 {
		return DefaultDelim
	}
	return b.Delim
}

// BaseName cuts name at the first delimiter.
func (b Backtick) BaseName(name string) string {
	if i := strings.IndexByte(name, b.delim()); i >= 0 {
		return name[:i]
	}
	return name
}

// Decorate appends the delimiter and arity to base.
func (b Backtick) Decorate(base string, arity int) string {
	if arity <= 0 {
		return base
	}
	return base + string(b.delim()) + strconv.Itoa(arity)
}

// Arity parses the arity suffix of name. Names without a well-formed marker
// have arity 0.
func (b Backtick) Arity(name string) int {
	i := strings.IndexByte(name, b.delim())
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Bracket is Go's instantiation naming: "Pair[int,string]".
type Bracket struct{}

// Ensure Bracket implements apis.Mangler.
var _ apis.Mangler = Bracket{}

// BaseName removes the type-argument list: "T[int,string]" -> "T".
func (Bracket) BaseName(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// Decorate renders a definition name with placeholder parameters: "Pair[_,_]".
func (Bracket) Decorate(base string, arity int) string {
	if arity <= 0 {
		return base
	}
	return base + "[" + strings.TrimSuffix(strings.Repeat("_,", arity), ",") + "]"
}

// Arity counts the top-level type arguments of name.
func (Bracket) Arity(name string) int {
	return BracketArity(name)
}

// BracketArity counts the top-level type arguments in a Go instantiation
// name. Commas nested in brackets, parentheses, braces or quoted struct
// tags do not separate arguments: "Box[func(int, string)]" has arity 1.
func BracketArity(name string) int {
	i := strings.IndexByte(name, '[')
	if i < 0 {
		return 0
	}
	depth, n := 0, 1
	quoted := false
	for j := i; j < len(name); j++ {
		c := name[j]
		if quoted {
			switch c {
			case '\\':
				j++
			case '"':
				quoted = false
			}
			continue
		}
		switch c {
		case '"':
			quoted = true
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth == 0 {
				return n
			}
		case ',':
			if depth == 1 {
				n++
			}
		}
	}
	return n
}
