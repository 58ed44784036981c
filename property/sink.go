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
	"github.com/rs/zerolog"

	"dirpx.dev/bridge/apis"
)

// LogSink is an apis.ErrorSink that records guest-visible failures in a
// zerolog logger.
type LogSink struct {
	Logger zerolog.Logger
}

// Ensure LogSink implements apis.ErrorSink.
var _ apis.ErrorSink = LogSink{}

// ReportTypeError logs a usage error.
func (s LogSink) ReportTypeError(msg string) {
	s.Logger.Debug().Str("kind", KindType.String()).Msg(msg)
}

// ReportError logs any other failure.
func (s LogSink) ReportError(err error) {
	s.Logger.Warn().Err(err).Msg("property access failed")
}
