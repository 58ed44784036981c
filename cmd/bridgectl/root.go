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
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dirpx.dev/bridge"
	"dirpx.dev/bridge/config"
	"dirpx.dev/bridge/internal/sample"
)

var rootCmd = &cobra.Command{
	Use:   "bridgectl",
	Short: "Run Lua scripts against Go host types",
	Long: `bridgectl - exercise the host/guest property bridge from the command line.

Scripts see a counter instance (counter), a generic pair (pair) and the
static types Counter and Limits. The host table offers generic type
lookups: host.generic, host.alias, host.basenames and host.describe.

Configuration is read from --config (TOML) and BRIDGE_* environment
variables, which take precedence.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// newLogger builds a console logger at level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "bridgectl").Logger(), nil
}

// setup loads settings, publishes the process-wide engine and registers
// the sample types. Callers release it with bridge.Shutdown.
func setup(cmd *cobra.Command) (*bridge.Engine, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		settings.LogLevel = lvl
	}
	log, err := newLogger(cmd.ErrOrStderr(), settings.LogLevel)
	if err != nil {
		return nil, err
	}

	eng, err := bridge.Initialize(settings.Config(), bridge.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := sample.Register(eng.Members()); err != nil {
		bridge.Shutdown()
		return nil, err
	}
	log.Debug().
		Str("mangling", eng.Config().Mangling).
		Bool("include_builtins", eng.Config().IncludeBuiltins).
		Msg("engine initialized")
	return eng, nil
}
