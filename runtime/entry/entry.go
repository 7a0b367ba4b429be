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

// Package entry defines the payload that travels through the work queue:
// either a log entry (metadata plus a deferred format closure bound to a
// sink) or a flush command. It sits at the bottom of the dependency graph
// so both the formatter/sink layer and the backend worker can depend on it
// without creating an import cycle between them.
package entry

import (
	"bytes"
	"sync/atomic"
	"time"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/metric"
)

// Sink is the minimal surface the backend worker needs: write rendered
// bytes, flush whatever buffering the concrete sink performs internally.
// Formatter selection happens earlier, at channel construction time.
type Sink interface {
	Write(p []byte) error
	Flush() error
}

// Context carries the application-settable counter that channels print
// alongside their messages when enabled.
type Context struct {
	Value   uint32
	Enabled bool
}

// Metadata is the per-emission record a channel assembles and a format
// closure consumes by value. Fields mirror the source implementation's
// log_entry_metadata: a borrowed format template, a borrowed argument
// store, small owned strings, and an owned hex dump.
type Metadata struct {
	Timestamp   time.Time
	Context     Context
	Template    string // empty when only a structured context is logged
	Store       *argpool.Store
	ChannelName string
	ChannelTag  byte // 0 disables tag printing
	HexDump     []byte
	Tree        *metric.Context // non-nil for structured-context emissions
}

// FormatFunc renders meta into buf. It is built at enqueue time (closing
// over the sink's formatter) and invoked once, at drain time, by the
// backend worker.
type FormatFunc func(meta Metadata, buf *bytes.Buffer)

// FlushCmd is pushed through the queue in place of a log payload. Once all
// target sinks have been flushed, Done is set exactly once.
type FlushCmd struct {
	Sinks []Sink
	Done  atomic.Bool
}

// Entry is either a log payload (FormatFunc + Metadata + Sink set, Flush
// nil) or a flush command (Flush set, the rest zero). The two are mutually
// exclusive.
type Entry struct {
	Sink       Sink
	FormatFunc FormatFunc
	Metadata   Metadata
	Flush      *FlushCmd
}

// NewLogEntry builds a log-payload entry.
func NewLogEntry(sink Sink, fn FormatFunc, meta Metadata) Entry {
	return Entry{Sink: sink, FormatFunc: fn, Metadata: meta}
}

// NewFlushEntry builds a flush-command entry targeting sinks.
func NewFlushEntry(sinks []Sink) Entry {
	return Entry{Flush: &FlushCmd{Sinks: sinks}}
}
