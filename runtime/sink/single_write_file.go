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
	"os"

	"dirpx.dev/radlog/runtime/formatter"
)

// SingleWriteFileSink buffers entries in memory and commits them to disk
// exactly once, either when the buffer would overflow or on an explicit
// Flush. After that single write, buffering is disabled and every further
// Write is a silent no-op; this is the crash-dump idiom, where the goal is
// to capture whatever fit in memory right before termination, not to keep
// accumulating a log.
type SingleWriteFileSink struct {
	withFormatter

	path     string
	capacity int

	buffer  []byte
	written bool
	failed  bool
}

// NewSingleWriteFileSink builds a SingleWriteFileSink. A non-positive
// capacity defaults to DefaultBufferCapacity.
func NewSingleWriteFileSink(path string, capacity int, f formatter.Formatter) *SingleWriteFileSink {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &SingleWriteFileSink{
		withFormatter: withFormatter{f: f},
		path:          path,
		capacity:      capacity,
		buffer:        make([]byte, 0, capacity),
	}
}

func (s *SingleWriteFileSink) commit() error {
	if s.written || s.failed {
		return nil
	}
	s.written = true
	if len(s.buffer) == 0 {
		return nil
	}

	h, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		s.failed = true
		return err
	}
	defer h.Close()

	if _, err := h.Write(s.buffer); err != nil {
		s.failed = true
		return fmt.Errorf("single write file sink commit: %w", err)
	}
	s.buffer = nil
	return h.Sync()
}

func (s *SingleWriteFileSink) Write(p []byte) error {
	if s.written || s.failed {
		return nil
	}

	if len(s.buffer)+len(p) < s.capacity {
		s.buffer = append(s.buffer, p...)
		return nil
	}

	return s.commit()
}

// Flush forces the single commit to happen now, even if the buffer never
// reached capacity. Calling it more than once is harmless.
func (s *SingleWriteFileSink) Flush() error {
	return s.commit()
}
