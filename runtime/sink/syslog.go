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

package sink

import (
	"fmt"
	"log/syslog"
	"strings"

	"dirpx.dev/radlog/runtime/formatter"
)

// syslogMarkers lists the tag substrings a rendered entry is scanned for,
// in the order they are checked. The first one found anywhere in the
// message picks the severity; ties between markers that both occur go to
// whichever starts earliest in the string.
var syslogMarkers = []struct {
	marker   string
	severity syslog.Priority
}{
	{"[E]", syslog.LOG_ERR},
	{"[W]", syslog.LOG_WARNING},
	{"[I]", syslog.LOG_INFO},
	{"[D]", syslog.LOG_DEBUG},
}

// SyslogSink forwards rendered entries to the local syslog daemon via the
// standard library's log/syslog package. It has no buffering of its own,
// so Flush is a no-op.
type SyslogSink struct {
	withFormatter
	w *syslog.Writer
}

// NewSyslogSink dials the local syslog daemon on the given facility
// (0-7, mapped to LOCAL0-LOCAL7) under the supplied tag.
func NewSyslogSink(facility int, tag string, f formatter.Formatter) (*SyslogSink, error) {
	if facility < 0 || facility > 7 {
		return nil, fmt.Errorf("syslog sink: facility %d out of range [0,7]", facility)
	}
	base := []syslog.Priority{
		syslog.LOG_LOCAL0, syslog.LOG_LOCAL1, syslog.LOG_LOCAL2, syslog.LOG_LOCAL3,
		syslog.LOG_LOCAL4, syslog.LOG_LOCAL5, syslog.LOG_LOCAL6, syslog.LOG_LOCAL7,
	}[facility]

	w, err := syslog.New(base|syslog.LOG_INFO, tag)
	if err != nil {
		return nil, fmt.Errorf("syslog sink: dial: %w", err)
	}
	return &SyslogSink{withFormatter: withFormatter{f: f}, w: w}, nil
}

func classifySeverity(message string) syslog.Priority {
	bestIndex := -1
	bestSeverity := syslog.LOG_ERR
	found := false

	for _, m := range syslogMarkers {
		idx := strings.Index(message, m.marker)
		if idx < 0 {
			continue
		}
		if !found || idx < bestIndex {
			bestIndex = idx
			bestSeverity = m.severity
			found = true
		}
	}
	return bestSeverity
}

func (s *SyslogSink) Write(p []byte) error {
	message := string(p)
	switch classifySeverity(message) {
	case syslog.LOG_WARNING:
		return s.w.Warning(message)
	case syslog.LOG_INFO:
		return s.w.Info(message)
	case syslog.LOG_DEBUG:
		return s.w.Debug(message)
	default:
		return s.w.Err(message)
	}
}

// Flush is a no-op: the syslog transport has no client-side buffer to
// drain.
func (s *SyslogSink) Flush() error {
	return nil
}

// Close releases the underlying syslog connection.
func (s *SyslogSink) Close() error {
	return s.w.Close()
}
