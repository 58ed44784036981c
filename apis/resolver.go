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

import (
	"reflect"
)

// Resolver coordinates strategies to resolve the guest-visible names of host
// values and types.
// Typical chain: NamerStrategy -> GenericStrategy -> ReflectStrategy.
type Resolver interface {
	// Resolve returns the guest name of v's type, or "" if none can be determined.
	Resolve(v any, cfg Config) string

	// ResolveType returns the guest name of t, or "" if none can be determined.
	ResolveType(t reflect.Type, cfg Config) string

	// ResolveMember returns the declaring-type-qualified name of member on t
	// ("pkg.Type.Member"). When t has no name, member is returned as is.
	ResolveMember(t reflect.Type, member string, cfg Config) string
}
