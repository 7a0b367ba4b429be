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

// Package backend implements the single worker goroutine that drains the
// shared work queue and turns deferred-format entries into bytes on their
// target sinks. Everything upstream of this package only ever touches the
// queue and the pool; only the backend ever calls a format closure or
// writes to a sink.
package backend

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/queue"
)

// pollInterval is how long run sleeps after finding the queue empty.
const pollInterval = 100 * time.Microsecond

// ErrorHandler is invoked, from the backend goroutine, whenever a sink
// write fails or a format closure panics. The default handler writes to
// stderr.
type ErrorHandler func(err error)

// DefaultErrorHandler writes err to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintln(os.Stderr, "radlog: backend error:", err)
}

// Priority is a coarse scheduling hint applied to the backend goroutine's
// OS thread on start, best-effort: a failure to apply it is reported
// through the error handler rather than treated as fatal, since logging
// must keep working even on platforms or sandboxes that forbid priority
// changes.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
	PriorityVeryHigh
)

// Backend owns the single consumer goroutine for a work queue. Start is
// idempotent: only the first call actually spawns the goroutine, and it
// blocks until that goroutine has begun polling, so a caller never races
// the backend's first iteration.
type Backend struct {
	queue    *queue.Queue[entry.Entry]
	pool     *argpool.Pool
	priority Priority

	startOnce sync.Once
	started   chan struct{}
	stop      chan struct{}
	done      chan struct{}

	mu           sync.Mutex
	errorHandler ErrorHandler

	queueFullReported bool
}

// New builds a Backend bound to q and pool. Pool is used to reclaim
// argument stores once a log entry's format closure has consumed them.
func New(q *queue.Queue[entry.Entry], pool *argpool.Pool, priority Priority) *Backend {
	return &Backend{
		queue:        q,
		pool:         pool,
		priority:     priority,
		started:      make(chan struct{}),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		errorHandler: DefaultErrorHandler,
	}
}

// SetErrorHandler overrides the error handler. It takes effect whether
// called before or after Start: the handler is stored and read under b.mu,
// so a running worker picks up the new one on its next report. A nil
// handler is ignored and the current one stays installed.
func (b *Backend) SetErrorHandler(h ErrorHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if h != nil {
		b.errorHandler = h
	}
}

func (b *Backend) reportError(err error) {
	b.mu.Lock()
	h := b.errorHandler
	b.mu.Unlock()
	h(err)
}

// Start launches the worker goroutine exactly once, no matter how many
// times it is called, and does not return until that goroutine has begun
// its poll loop.
func (b *Backend) Start() {
	b.startOnce.Do(func() {
		go b.run()
	})
	<-b.started
}

func (b *Backend) run() {
	applyPriority(b.priority, b.reportError)
	close(b.started)
	defer close(b.done)

	for {
		select {
		case <-b.stop:
			b.drainRemaining()
			return
		default:
		}

		e, ok := b.queue.TryPop()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		b.reportQueueOnFullOnce()
		b.process(e)
	}
}

func (b *Backend) drainRemaining() {
	for {
		e, ok := b.queue.TryPop()
		if !ok {
			return
		}
		b.process(e)
	}
}

// reportQueueOnFullOnce reports the near-full condition at most once during
// the backend's entire lifetime. Unlike a per-crossing alarm, the flag is
// never cleared once set: a queue that drains and later re-fills does not
// re-trigger the report.
func (b *Backend) reportQueueOnFullOnce() {
	if b.queueFullReported || !b.queue.IsAlmostFull() {
		return
	}
	b.queueFullReported = true
	b.reportError(fmt.Errorf("radlog: work queue is near capacity"))
}

func (b *Backend) process(e entry.Entry) {
	if e.Flush != nil {
		b.processFlush(e.Flush)
		return
	}
	b.processLogEntry(e)
}

// processLogEntry performs the five steps the producer deferred: render
// into a scratch buffer, reclaim the argument store the closure consumed,
// then write the rendered bytes to the sink.
func (b *Backend) processLogEntry(e entry.Entry) {
	var buf bytes.Buffer
	store := e.Metadata.Store

	func() {
		defer func() {
			if r := recover(); r != nil {
				b.reportError(fmt.Errorf("radlog: panic while formatting entry: %v", r))
			}
		}()
		e.FormatFunc(e.Metadata, &buf)
	}()

	b.pool.Dealloc(store)

	if e.Sink == nil {
		return
	}
	if err := e.Sink.Write(buf.Bytes()); err != nil {
		b.reportError(fmt.Errorf("radlog: sink write failed: %w", err))
	}
}

// processFlush flushes every targeted sink in order, then marks the
// command done. Done is only ever set after every sink has had its Flush
// called, so a caller spin-polling Done never observes a partially
// flushed set.
func (b *Backend) processFlush(cmd *entry.FlushCmd) {
	for _, s := range cmd.Sinks {
		if err := s.Flush(); err != nil {
			b.reportError(fmt.Errorf("radlog: sink flush failed: %w", err))
		}
	}
	cmd.Done.Store(true)
}

// Stop signals the worker to finish draining whatever is already queued
// and exit, then blocks until it has. It does not prevent new pushes from
// racing in concurrently; callers that want a clean shutdown should stop
// producers first.
func (b *Backend) Stop() {
	select {
	case <-b.stop:
	default:
		close(b.stop)
	}
	<-b.done
}
