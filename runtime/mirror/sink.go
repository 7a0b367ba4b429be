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

// Package mirror adapts an apis/pipeline.Pipeline to the domain
// sink.BackendSink contract, so a channel or multilevel logger can mirror
// its already-rendered output through the ambient plugin/encoder/sink
// stack (apis/pipeline, apis/record, runtime/encoder, apis/sink) without
// that stack ever needing to know about queues, pools or format closures.
package mirror

import (
	"context"
	"strings"
	"time"

	apicontext "dirpx.dev/radlog/apis/context"
	"dirpx.dev/radlog/apis/level"
	"dirpx.dev/radlog/apis/pipeline"
	"dirpx.dev/radlog/apis/record"
	"dirpx.dev/radlog/runtime/formatter"
	backendsink "dirpx.dev/radlog/runtime/sink"
)

// Sink renders through f like any other BackendSink, but instead of
// writing the rendered bytes to a stream or file itself, it wraps them in
// a record.Record and hands that to a Pipeline.
type Sink struct {
	f        formatter.Formatter
	pipeline pipeline.Pipeline
	source   string
	level    level.Level
}

var _ backendsink.BackendSink = (*Sink)(nil)

// New builds a mirror Sink. f is the formatter the owning channel renders
// with before Write is ever called; p is where the resulting record is
// sent; source tags the record's Component field; lvl is the severity
// every mirrored record carries, since the channel's own rendered bytes
// don't preserve the per-call level.
func New(f formatter.Formatter, p pipeline.Pipeline, source string, lvl level.Level) *Sink {
	return &Sink{f: f, pipeline: p, source: source, level: lvl}
}

// Formatter returns the formatter the owning channel should render with.
func (s *Sink) Formatter() formatter.Formatter { return s.f }

// Write wraps the already-rendered line in a record.Record and emits it
// through the pipeline.
func (s *Sink) Write(p []byte) error {
	msg := strings.TrimRight(string(p), "\n")
	r := record.NewRecord(
		time.Now().UTC(),
		s.level,
		msg,
		apicontext.Pack{Component: s.source},
		nil,
		nil,
	)
	return s.pipeline.Emit(context.Background(), r)
}

// Flush flushes the pipeline's target sink.
func (s *Sink) Flush() error {
	return s.pipeline.Flush(context.Background())
}
