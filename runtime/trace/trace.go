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

// Package trace implements a lightweight event-trace helper layered on
// top of a single channel: duration begin/end markers plus a scoped
// complete-event that only emits if its block ran longer than a
// threshold. It is independent of the facade package so that tracing can
// be wired up in isolation (its own queue, pool and backend) or pointed
// at an existing channel from a larger logging setup.
package trace

import (
	"fmt"
	"sync"
	"time"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/backend"
	"dirpx.dev/radlog/runtime/channel"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/formatter"
	"dirpx.dev/radlog/runtime/queue"
	"dirpx.dev/radlog/runtime/sink"
)

// DefaultEventTraceFile is the filename InitDefault writes to when the
// caller doesn't supply one of its own.
const DefaultEventTraceFile = "event_trace.log"

// defaultBufferCapacity sizes the buffered file sink InitDefault and
// InitWithFile construct.
const defaultBufferCapacity = 64 * 1024

var (
	once        sync.Once
	traceCh     *channel.Channel
	ownedBackend *backend.Backend
)

// InitWithChannel points the tracer at an already-wired channel, such as
// one registered with a facade. Only the first call across InitWithChannel,
// InitDefault and InitWithFile has any effect; later calls are silent
// no-ops, matching the source implementation's one-shot tracer setup.
func InitWithChannel(ch *channel.Channel) {
	once.Do(func() {
		traceCh = ch
	})
}

// InitDefault sets up a private queue, pool, backend and buffered file
// sink writing to DefaultEventTraceFile.
func InitDefault() {
	InitWithFile(DefaultEventTraceFile)
}

// InitWithFile is InitDefault but writing to an explicit path.
func InitWithFile(path string) {
	once.Do(func() {
		q := queue.New[entry.Entry](queue.DefaultCapacity)
		pool := argpool.New(queue.DefaultCapacity)
		s := sink.NewBufferedFileSink(path, defaultBufferCapacity, formatter.NewTextFormatter())
		ch := channel.New("event_trace", "TRACE", 0, false, s, pool, q)

		b := backend.New(q, pool, backend.PriorityNormal)
		b.Start()

		traceCh = ch
		ownedBackend = b
	})
}

func logf(format string, args ...any) {
	if traceCh == nil {
		return
	}
	traceCh.Log(format, args...)
}

// DurationBegin marks the start of a named event.
func DurationBegin(name string) {
	logf("Entering %s", name)
}

// DurationEnd marks the end of a named event.
func DurationEnd(name string) {
	logf("Leaving %s", name)
}

// Scope starts a complete event and returns a function that ends it. The
// end is only logged if the elapsed time reached thresholdMicros; a zero
// threshold logs unconditionally. Intended for defer:
//
//	defer trace.Scope("decode_pdu", 50)()
func Scope(name string, thresholdMicros int64) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Microseconds()
		if elapsed < thresholdMicros {
			return
		}
		logf("%s", fmt.Sprintf("%s completed in %dus", name, elapsed))
	}
}
