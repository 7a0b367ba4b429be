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
	"io"
	"os"

	"dirpx.dev/radlog/runtime/formatter"
)

// StreamSink writes directly to an io.Writer (stdout/stderr in practice)
// and keeps no buffer of its own, so each Write is handed to the writer
// immediately. Flush calls the writer's Sync when it has one.
type StreamSink struct {
	withFormatter
	w io.Writer
}

// NewStdoutSink builds a StreamSink writing to os.Stdout.
func NewStdoutSink(f formatter.Formatter) *StreamSink {
	return &StreamSink{withFormatter: withFormatter{f: f}, w: os.Stdout}
}

// NewStderrSink builds a StreamSink writing to os.Stderr.
func NewStderrSink(f formatter.Formatter) *StreamSink {
	return &StreamSink{withFormatter: withFormatter{f: f}, w: os.Stderr}
}

// NewStreamSink builds a StreamSink over an arbitrary writer, useful for
// tests that want to capture output without touching real file descriptors.
func NewStreamSink(w io.Writer, f formatter.Formatter) *StreamSink {
	return &StreamSink{withFormatter: withFormatter{f: f}, w: w}
}

func (s *StreamSink) Write(p []byte) error {
	_, err := s.w.Write(p)
	return err
}

func (s *StreamSink) Flush() error {
	if f, ok := s.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
