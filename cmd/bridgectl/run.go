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
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/spf13/cobra"

	"dirpx.dev/bridge"
	"dirpx.dev/bridge/internal/sample"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Lua script",
	Long: `Execute a Lua script with the sample host objects in scope.

Code can be provided via:
  - File argument: bridgectl run script.lua
  - Inline flag: bridgectl run -c 'counter.Value = 3'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("code", "c", "", "Code to execute")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetString("code")

	var source, name string
	switch {
	case code != "":
		source, name = code, "=(command line)"
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		source, name = string(data), "@"+args[0]
	default:
		return cmd.Help()
	}

	eng, err := setup(cmd)
	if err != nil {
		return err
	}
	defer bridge.Shutdown()

	l, err := newSession(eng, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return runChunk(l, source, name)
}

// newSession returns a Lua state with the sample globals set and print
// redirected to w.
func newSession(eng *bridge.Engine, w io.Writer) (*lua.State, error) {
	l := eng.NewState()
	b := eng.Lua()

	globals := map[string]any{
		"counter": sample.NewCounter("demo"),
		"pair":    &sample.Pair[string, int]{Key: "answer", Value: 42},
	}
	for name, v := range globals {
		if err := b.SetGlobal(l, name, v); err != nil {
			return nil, err
		}
	}
	types := map[string]reflect.Type{
		"Counter": reflect.TypeOf(sample.Counter{}),
		"Limits":  reflect.TypeOf(sample.Limits{}),
	}
	for name, t := range types {
		if err := b.Expose(l, name, t); err != nil {
			return nil, err
		}
	}

	l.Register("print", func(l *lua.State) int {
		n := l.Top()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			s, _ := lua.ToStringMeta(l, i)
			l.Pop(1)
			parts = append(parts, s)
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
		return 0
	})
	return l, nil
}

// runChunk loads and runs source under the chunk name.
func runChunk(l *lua.State, source, name string) error {
	if err := lua.LoadBuffer(l, source, name, "t"); err != nil {
		return err
	}
	return l.ProtectedCall(0, lua.MultipleReturns, 0)
}
