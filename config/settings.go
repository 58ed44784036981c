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

package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"dirpx.dev/bridge/apis"
)

// DefaultLogLevel is the zerolog level name used when none is configured.
const DefaultLogLevel = "info"

// Settings is the file and environment view of the bridge configuration.
// Environment variables win over the file, the file wins over defaults.
type Settings struct {
	Mangling        string `toml:"mangling" env:"BRIDGE_MANGLING"`
	IncludeBuiltins bool   `toml:"include_builtins" env:"BRIDGE_INCLUDE_BUILTINS"`
	MaxUnwrap       int    `toml:"max_unwrap" env:"BRIDGE_MAX_UNWRAP"`
	MapPreferElem   bool   `toml:"map_prefer_elem" env:"BRIDGE_MAP_PREFER_ELEM"`
	LogLevel        string `toml:"log_level" env:"BRIDGE_LOG_LEVEL"`
}

// DefaultSettings mirrors DefaultConfig.
func DefaultSettings() Settings {
	return Settings{
		Mangling:        DefaultMangling,
		IncludeBuiltins: DefaultIncludeBuiltins,
		MaxUnwrap:       DefaultMaxUnwrap,
		MapPreferElem:   DefaultMapPreferElem,
		LogLevel:        DefaultLogLevel,
	}
}

// Load builds Settings from defaults, then the TOML file at path (skipped
// when path is empty), then BRIDGE_* environment variables.
func Load(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		var raw Settings
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Settings{}, fmt.Errorf("load bridge config: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Settings{}, fmt.Errorf("load bridge config: unknown key %q", undecoded[0].String())
		}
		if meta.IsDefined("mangling") {
			s.Mangling = strings.TrimSpace(raw.Mangling)
		}
		if meta.IsDefined("include_builtins") {
			s.IncludeBuiltins = raw.IncludeBuiltins
		}
		if meta.IsDefined("max_unwrap") {
			s.MaxUnwrap = raw.MaxUnwrap
		}
		if meta.IsDefined("map_prefer_elem") {
			s.MapPreferElem = raw.MapPreferElem
		}
		if meta.IsDefined("log_level") {
			s.LogLevel = strings.TrimSpace(raw.LogLevel)
		}
	}

	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Options converts s into Config options.
func (s Settings) Options() []Option {
	return []Option{
		WithMangling(s.Mangling),
		WithIncludeBuiltins(s.IncludeBuiltins),
		WithMaxUnwrap(s.MaxUnwrap),
		WithMapPreferElem(s.MapPreferElem),
	}
}

// Config returns the apis.Config described by s.
func (s Settings) Config() apis.Config {
	return NewConfig(s.Options()...)
}
