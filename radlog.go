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

// Package radlog is the public facade over the asynchronous logging
// runtime: a shared work queue and argument pool, a single backend
// worker, and repositories of sinks, channels and multi-level loggers
// built on top of them. Application code is expected to call New (or use
// the package-level default System via Init) once at startup, register
// its sinks and channels, and log through the returned handles; nothing
// under runtime/ is meant to be used directly by application code.
package radlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dirpx.dev/radlog/apis/health"
	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/backend"
	"dirpx.dev/radlog/runtime/channel"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/formatter"
	"dirpx.dev/radlog/runtime/multilevel"
	"dirpx.dev/radlog/runtime/queue"
	"dirpx.dev/radlog/runtime/repo"
	"dirpx.dev/radlog/runtime/sink"
)

// reservedIDChar separates a multilevel logger's id from its per-severity
// tag in the synthetic channel ids multilevel.New generates. User-supplied
// ids are stripped of it so application code can never accidentally (or
// deliberately) collide with a synthetic entry.
const reservedIDChar = "#"

// System bundles everything a running logger needs: the shared queue and
// pool, the backend worker draining them, and repositories of sinks,
// channels and loggers keyed by id.
type System struct {
	q    *queue.Queue[entry.Entry]
	pool *argpool.Pool
	be   *backend.Backend

	sinks    *repo.Repo[sink.BackendSink]
	channels *repo.Repo[*channel.Channel]
	loggers  *repo.Repo[*multilevel.Logger]

	defaultSink      sink.BackendSink
	defaultFormatter formatter.Formatter
}

// Config controls the collaborators New builds. A zero Config is valid and
// uses package defaults.
type Config struct {
	QueueCapacity int
	Priority      backend.Priority
}

// New builds and starts a System: the queue and pool are sized per cfg,
// and the backend worker goroutine is already running by the time New
// returns.
func New(cfg Config) *System {
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = queue.DefaultCapacity
	}

	q := queue.New[entry.Entry](capacity)
	pool := argpool.New(capacity)
	be := backend.New(q, pool, cfg.Priority)
	be.Start()

	defaultFormatter := formatter.NewTextFormatter()
	defaultSink := sink.NewStdoutSink(defaultFormatter)

	return &System{
		q:                q,
		pool:             pool,
		be:               be,
		sinks:            repo.New[sink.BackendSink](),
		channels:         repo.New[*channel.Channel](),
		loggers:          repo.New[*multilevel.Logger](),
		defaultSink:      defaultSink,
		defaultFormatter: defaultFormatter,
	}
}

// Stop joins the backend worker, draining whatever is already queued
// first. It does not flush sinks; call Flush before Stop if that's
// required.
func (s *System) Stop() {
	s.be.Stop()
}

// SetErrorHandler overrides how the backend reports format panics and
// sink I/O failures. Must be called before any concurrent logging begins.
func (s *System) SetErrorHandler(h backend.ErrorHandler) {
	s.be.SetErrorHandler(h)
}

// SetDefaultSink replaces the sink new channels/loggers get when no
// explicit sink is supplied to Channel/Logger.
func (s *System) SetDefaultSink(sk sink.BackendSink) {
	s.defaultSink = sk
}

// GetDefaultSink returns the current default sink.
func (s *System) GetDefaultSink() sink.BackendSink {
	return s.defaultSink
}

// SetDefaultFormatter replaces the formatter used when building a default
// sink is needed (it does not retroactively affect already-built sinks,
// since a sink owns its formatter from construction).
func (s *System) SetDefaultFormatter(f formatter.Formatter) {
	s.defaultFormatter = f
}

// GetDefaultFormatter returns the current default formatter.
func (s *System) GetDefaultFormatter() formatter.Formatter {
	return s.defaultFormatter
}

// RegisterSink stores sk under name, first registration wins.
func (s *System) RegisterSink(name string, sk sink.BackendSink) sink.BackendSink {
	return s.sinks.Emplace(name, func() sink.BackendSink { return sk })
}

// Sink fetches a previously registered sink by name.
func (s *System) Sink(name string) (sink.BackendSink, bool) {
	return s.sinks.Find(stripReserved(name))
}

// Channel fetches or creates a channel. If id was never registered, it is
// created using sk (or the system's default sink if sk is nil).
func (s *System) Channel(id, name string, tag byte, printContext bool, sk sink.BackendSink) *channel.Channel {
	id = stripReserved(id)
	if sk == nil {
		sk = s.defaultSink
	}
	return s.channels.Emplace(id, func() *channel.Channel {
		return channel.New(id, name, tag, printContext, sk, s.pool, s.q)
	})
}

// FindChannel looks up an already-registered channel without creating one.
func (s *System) FindChannel(id string) (*channel.Channel, bool) {
	return s.channels.Find(stripReserved(id))
}

// Logger fetches or creates a four-severity logger bound to sk (or the
// system's default sink if sk is nil).
func (s *System) Logger(id string, sk sink.BackendSink) *multilevel.Logger {
	id = stripReserved(id)
	if sk == nil {
		sk = s.defaultSink
	}
	return s.loggers.Emplace(id, func() *multilevel.Logger {
		return multilevel.New(id, sk, s.pool, s.q)
	})
}

// FindLogger looks up an already-registered logger without creating one.
func (s *System) FindLogger(id string) (*multilevel.Logger, bool) {
	return s.loggers.Find(stripReserved(id))
}

// Flush pushes a flush command targeting every registered sink (plus the
// default sink, if it isn't already among them) and blocks until the
// backend has flushed all of them, polling in the same short interval the
// backend uses to poll the queue.
func (s *System) Flush() {
	sinks := s.sinks.Contents()
	if s.defaultSink != nil {
		registered := false
		for _, sk := range sinks {
			if sk == s.defaultSink {
				registered = true
				break
			}
		}
		if !registered {
			sinks = append(sinks, s.defaultSink)
		}
	}

	targets := make([]entry.Sink, 0, len(sinks))
	for _, sk := range sinks {
		targets = append(targets, sk)
	}

	e := entry.NewFlushEntry(targets)
	for !s.q.Push(e) {
		time.Sleep(100 * time.Microsecond)
	}
	for !e.Flush.Done.Load() {
		time.Sleep(100 * time.Microsecond)
	}
}

// Health runs the system's standard checkers: queue occupancy and argument
// pool pressure.
func (s *System) Health(ctx context.Context) health.Report {
	agg := health.NewAggregator()
	agg.Add("queue", health.CheckFunc(s.checkQueue))
	agg.Add("pool", health.CheckFunc(s.checkPool))
	return agg.Run(ctx)
}

func (s *System) checkQueue(context.Context) (health.Result, error) {
	if s.q.IsAlmostFull() {
		return health.Result{
			Status:  health.StatusDegraded,
			Details: map[string]any{"len": s.q.Len(), "capacity": s.q.Capacity()},
		}, nil
	}
	return health.Result{Status: health.StatusHealthy}, nil
}

func (s *System) checkPool(context.Context) (health.Result, error) {
	available := s.pool.Available()
	capacity := s.pool.Capacity()
	if available == 0 {
		return health.Result{
			Status: health.StatusUnhealthy,
			Error:  fmt.Errorf("argument pool exhausted (capacity %d)", capacity),
		}, nil
	}
	if available < capacity/10 {
		return health.Result{
			Status:  health.StatusDegraded,
			Details: map[string]any{"available": available, "capacity": capacity},
		}, nil
	}
	return health.Result{Status: health.StatusHealthy}, nil
}

func stripReserved(id string) string {
	return strings.ReplaceAll(id, reservedIDChar, "")
}
