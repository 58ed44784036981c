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
	"reflect"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dirpx.dev/bridge"
	"dirpx.dev/bridge/internal/sample"
)

var genericsCmd = &cobra.Command{
	Use:   "generics [namespace]",
	Short: "List the generic type families known to the engine",
	Long: `Resolve the sample generic types and print the generic registry.

Without arguments every entry is listed as namespace, base name and
declared name in registration order. With a namespace only its base names
are printed, with the alias each one resolves to.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerics,
}

func init() {
	rootCmd.AddCommand(genericsCmd)
}

// sampleGenerics are resolved before listing so the registry is populated.
var sampleGenerics = []reflect.Type{
	reflect.TypeOf(sample.Pair[string, int]{}),
	reflect.TypeOf(sample.Box[string]{}),
}

func runGenerics(cmd *cobra.Command, args []string) error {
	eng, err := setup(cmd)
	if err != nil {
		return err
	}
	defer bridge.Shutdown()

	for _, t := range sampleGenerics {
		if _, err := eng.Resolve(t); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer tw.Flush()

	reg := eng.Generics()
	if len(args) == 1 {
		ns := args[0]
		names, ok := reg.BaseNames(ns)
		if !ok {
			return fmt.Errorf("namespace %q has no generic types", ns)
		}
		fmt.Fprintln(tw, "BASE\tALIAS")
		for _, base := range names {
			alias, _ := reg.AliasName(ns, base)
			fmt.Fprintf(tw, "%s\t%s\n", base, alias)
		}
		return nil
	}

	fmt.Fprintln(tw, "NAMESPACE\tBASE\tNAME")
	for _, e := range reg.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Namespace, e.BaseName, e.Name)
	}
	return nil
}
