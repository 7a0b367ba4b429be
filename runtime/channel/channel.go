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

// Package channel implements the log channel: the per-subsystem handle
// application code calls into. A channel binds a name, an optional tag, a
// sink and pushes deferred-format entries onto a shared work queue rented
// from a shared argument pool. Nothing here ever touches disk or stdout
// directly; that's the backend worker's job once it drains the queue.
package channel

import (
	"bytes"
	"sync/atomic"
	"time"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/formatter"
	"dirpx.dev/radlog/runtime/metric"
	"dirpx.dev/radlog/runtime/queue"
)

// UnboundedHexDump is the sentinel hex_dump_max_size value meaning "do not
// truncate".
const UnboundedHexDump int32 = -1

// Sink is the surface a channel needs from whatever it writes through:
// the entry package's minimal write/flush contract, plus a formatter
// accessor so the channel can build a closure that renders at drain time
// rather than at call time.
type Sink interface {
	entry.Sink
	Formatter() formatter.Formatter
}

// Channel is a named, taggable log destination. Its identity (id, name,
// tag, whether it prints its context counter) is fixed at construction;
// its context value, hex dump truncation and enabled flag are mutated
// concurrently via atomics so hot-path emission never takes a lock of its
// own beyond the shared queue's.
type Channel struct {
	id           string
	name         string
	tag          byte
	printContext bool

	sink  Sink
	pool  *argpool.Pool
	queue *queue.Queue[entry.Entry]

	contextValue   atomic.Uint32
	hexDumpMaxSize atomic.Int32
	enabled        atomic.Bool
}

// New builds a Channel. It starts enabled with unbounded hex dumps.
func New(id, name string, tag byte, printContext bool, sink Sink, pool *argpool.Pool, q *queue.Queue[entry.Entry]) *Channel {
	c := &Channel{
		id:           id,
		name:         name,
		tag:          tag,
		printContext: printContext,
		sink:         sink,
		pool:         pool,
		queue:        q,
	}
	c.enabled.Store(true)
	c.hexDumpMaxSize.Store(UnboundedHexDump)
	return c
}

// ID returns the channel's registration key.
func (c *Channel) ID() string { return c.id }

// Name returns the channel's display name, printed in text output.
func (c *Channel) Name() string { return c.name }

// Enable turns the channel on.
func (c *Channel) Enable() { c.enabled.Store(true) }

// Disable turns the channel off; emissions become no-ops until re-enabled.
func (c *Channel) Disable() { c.enabled.Store(false) }

// Enabled reports whether the channel currently accepts emissions.
func (c *Channel) Enabled() bool { return c.enabled.Load() }

// SetContextValue updates the counter printed alongside messages when the
// channel was constructed with printContext true.
func (c *Channel) SetContextValue(v uint32) { c.contextValue.Store(v) }

// SetHexDumpMaxSize bounds how many bytes of a hex dump buffer are kept.
// UnboundedHexDump disables truncation.
func (c *Channel) SetHexDumpMaxSize(n int32) { c.hexDumpMaxSize.Store(n) }

// Log renders template against args and enqueues it for asynchronous
// formatting and writing. It never allocates on the heap beyond the
// variadic args slice the caller already built; the format arguments
// themselves are held in a pooled store.
func (c *Channel) Log(template string, args ...any) {
	if !c.enabled.Load() {
		return
	}

	store := c.pool.Alloc()
	if store == nil {
		return // pool exhausted: drop rather than block or allocate
	}
	for _, a := range args {
		store.AddPositional(a)
	}

	meta := c.baseMetadata(template, store)
	c.enqueue(meta, store)
}

// LogHex is Log plus a byte buffer rendered as a hex dump beneath the
// message. The buffer is copied and truncated to the channel's configured
// hex_dump_max_size before being handed to the queue, since the caller's
// slice may be reused the instant this call returns.
func (c *Channel) LogHex(buf []byte, template string, args ...any) {
	if !c.enabled.Load() {
		return
	}

	store := c.pool.Alloc()
	if store == nil {
		return
	}
	for _, a := range args {
		store.AddPositional(a)
	}

	meta := c.baseMetadata(template, store)
	meta.HexDump = c.truncatedCopy(buf)
	c.enqueue(meta, store)
}

// LogContext renders template against args while also walking ctx as a
// structured context tree. ctx.Template and ctx.Args are populated here
// from the call's own arguments so callers only need to build the
// metric tree.
func (c *Channel) LogContext(ctx *metric.Context, template string, args ...any) {
	if !c.enabled.Load() {
		return
	}

	ctx.Template = template
	ctx.Args = args

	meta := entry.Metadata{
		Timestamp:   time.Now().UTC(),
		Context:     entry.Context{Value: c.contextValue.Load(), Enabled: c.printContext},
		ChannelName: c.name,
		ChannelTag:  c.tag,
		Tree:        ctx,
	}

	f := c.sink.Formatter()
	fn := func(meta entry.Metadata, buf *bytes.Buffer) {
		formatter.RenderContext(f, meta, buf)
	}

	e := entry.NewLogEntry(c.sink, fn, meta)
	c.queue.Push(e) // no pooled store to reclaim on failure in this path
}

func (c *Channel) baseMetadata(template string, store *argpool.Store) entry.Metadata {
	return entry.Metadata{
		Timestamp:   time.Now().UTC(),
		Context:     entry.Context{Value: c.contextValue.Load(), Enabled: c.printContext},
		Template:    template,
		Store:       store,
		ChannelName: c.name,
		ChannelTag:  c.tag,
	}
}

func (c *Channel) truncatedCopy(buf []byte) []byte {
	n := len(buf)
	if max := c.hexDumpMaxSize.Load(); max >= 0 && int(max) < n {
		n = int(max)
	}
	dump := make([]byte, n)
	copy(dump, buf[:n])
	return dump
}

func (c *Channel) enqueue(meta entry.Metadata, store *argpool.Store) {
	f := c.sink.Formatter()
	fn := func(meta entry.Metadata, buf *bytes.Buffer) {
		f.Format(meta, buf)
	}

	e := entry.NewLogEntry(c.sink, fn, meta)
	if !c.queue.Push(e) {
		c.pool.Dealloc(store)
	}
}
