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

package main

import (
	"strings"

	"github.com/Shopify/go-lua"
)

// evalLine runs one REPL line. "=expr" and bare expressions print their
// values; anything else runs as a statement.
func evalLine(l *lua.State, line string) error {
	l.SetTop(0)
	if expr, ok := strings.CutPrefix(line, "="); ok {
		return runChunk(l, "print("+expr+")", "=stdin")
	}
	if err := lua.LoadBuffer(l, "print("+line+")", "=stdin", "t"); err == nil {
		return l.ProtectedCall(0, 0, 0)
	}
	l.Pop(1)
	return runChunk(l, line, "=stdin")
}
