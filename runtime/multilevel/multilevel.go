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

// Package multilevel implements the four-severity logger built on top of
// four underlying channels, one per level, so that disabling a level is
// just disabling its backing channel rather than a per-call comparison.
// This is deliberately a separate, narrower severity type from
// apis/level.Level: that package models the ambient six-level vocabulary
// used for configuration and diagnostics, while this one models exactly
// the four wire levels the source implementation exposes per logger.
package multilevel

import (
	"fmt"
	"sync"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/channel"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/queue"
)

// Level orders the four severities from most to least severe. Its integer
// value also indexes Logger's backing channel array.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelDebug

	// levelCount is the sentinel "one past the last real level", used to
	// size arrays and bound SetLevel.
	levelCount
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

var levelTags = [levelCount]byte{'E', 'W', 'I', 'D'}

// Logger bundles four channels, one per Level, under a single id. Setting
// the level, context value or hex dump size broadcasts to all four under
// a dedicated mutex; the direct per-level accessors (Error/Warning/Info/
// Debug) bypass that mutex entirely and go straight to the channel, since
// a channel's own enabled flag and atomics are already safe for
// concurrent use.
type Logger struct {
	id       string
	channels [levelCount]*channel.Channel

	mu sync.Mutex
}

// New constructs a Logger and its four backing channels. Each channel is
// registered under a synthetic id of the form "<id>#<tag>" (tag being the
// level's single-letter marker), so a facade holding loggers and raw
// channels in the same namespace can tell them apart.
func New(id string, sink channel.Sink, pool *argpool.Pool, q *queue.Queue[entry.Entry]) *Logger {
	l := &Logger{id: id}
	for i := Level(0); i < levelCount; i++ {
		tag := levelTags[i]
		chID := fmt.Sprintf("%s#%c", id, tag)
		l.channels[i] = channel.New(chID, id, tag, false, sink, pool, q)
	}
	// Default to Info and above enabled, matching a freshly constructed
	// logger that hasn't had SetLevel called yet.
	l.SetLevel(LevelInfo)
	return l
}

// ID returns the logger's registration key.
func (l *Logger) ID() string { return l.id }

// Channel returns the backing channel for lvl, for callers that need
// lower-level access (e.g. LogHex, LogContext) than the four severity
// methods expose.
func (l *Logger) Channel(lvl Level) *channel.Channel {
	if lvl < 0 || lvl >= levelCount {
		return nil
	}
	return l.channels[lvl]
}

// SetLevel enables every channel at or above lvl in severity (i.e. every
// channel whose index is <= ordinal(lvl)) and disables the rest.
func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, ch := range l.channels {
		if Level(i) <= lvl {
			ch.Enable()
		} else {
			ch.Disable()
		}
	}
}

// SetContext broadcasts value to all four channels.
func (l *Logger) SetContext(value uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.channels {
		ch.SetContextValue(value)
	}
}

// SetHexDumpMaxSize broadcasts n to all four channels.
func (l *Logger) SetHexDumpMaxSize(n int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.channels {
		ch.SetHexDumpMaxSize(n)
	}
}

// Error logs at LevelError, bypassing the broadcast mutex.
func (l *Logger) Error(template string, args ...any) { l.channels[LevelError].Log(template, args...) }

// Warning logs at LevelWarning, bypassing the broadcast mutex.
func (l *Logger) Warning(template string, args ...any) {
	l.channels[LevelWarning].Log(template, args...)
}

// Info logs at LevelInfo, bypassing the broadcast mutex.
func (l *Logger) Info(template string, args ...any) { l.channels[LevelInfo].Log(template, args...) }

// Debug logs at LevelDebug, bypassing the broadcast mutex.
func (l *Logger) Debug(template string, args ...any) { l.channels[LevelDebug].Log(template, args...) }
