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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"dirpx.dev/bridge"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive Lua REPL with the sample host objects",
	Long: `Start an interactive Lua session.

Features:
  - Command history (up/down arrows)
  - History search (Ctrl+R)
  - Multi-line input (end line with \)
  - Expressions are printed: '=counter.Value' or just 'counter.Value'

Type 'exit' or 'quit' to end the session, or press Ctrl+D.`,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().String("history", "", "History file path (default: ~/.bridgectl_history)")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	historyFile, _ := cmd.Flags().GetString("history")
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".bridgectl_history")
	}

	eng, err := setup(cmd)
	if err != nil {
		return err
	}
	defer bridge.Shutdown()

	out := cmd.OutOrStdout()
	l, err := newSession(eng, out)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(cmd.ErrOrStderr(), "bridgectl Lua REPL (type 'exit' to quit, Ctrl+D to exit)")

	var multiLine strings.Builder
	inMultiLine := false

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if inMultiLine {
					multiLine.Reset()
					inMultiLine = false
					rl.SetPrompt("> ")
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		if strings.HasSuffix(line, "\\") {
			multiLine.WriteString(strings.TrimSuffix(line, "\\"))
			multiLine.WriteString("\n")
			inMultiLine = true
			rl.SetPrompt(">> ")
			continue
		}
		if inMultiLine {
			multiLine.WriteString(line)
			line = multiLine.String()
			multiLine.Reset()
			inMultiLine = false
			rl.SetPrompt("> ")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		if err := evalLine(l, line); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
}
