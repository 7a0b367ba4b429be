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

// MinRotationSize is the smallest non-zero max_size_bytes the FileSink
// accepts; requests below it are clamped up.
const MinRotationSize = 4 * 1024

// FileSink writes to a plain file, optionally rotating to an index-suffixed
// sibling file once cumulative writes since the last rotation reach
// MaxSizeBytes. A handle that has previously failed is never retried; later
// writes are silently discarded, matching the source implementation's
// latched-failure file handle.
type FileSink struct {
	withFormatter

	baseFilename string
	maxSizeBytes int64

	currentSizeBytes int64
	fileIndex        int
	handle           *os.File
	failed           bool
}

// NewFileSink builds a FileSink. maxSizeBytes of 0 disables rotation; a
// non-zero value below MinRotationSize is clamped up to it.
func NewFileSink(baseFilename string, maxSizeBytes int64, f formatter.Formatter) *FileSink {
	if maxSizeBytes > 0 && maxSizeBytes < MinRotationSize {
		maxSizeBytes = MinRotationSize
	}
	return &FileSink{
		withFormatter: withFormatter{f: f},
		baseFilename:  baseFilename,
		maxSizeBytes:  maxSizeBytes,
	}
}

func (s *FileSink) currentPath() string {
	return buildFilenameWithIndex(s.baseFilename, s.fileIndex)
}

func (s *FileSink) openCurrent() error {
	h, err := os.OpenFile(s.currentPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		s.failed = true
		return err
	}
	s.handle = h
	s.currentSizeBytes = 0
	return nil
}

func (s *FileSink) rotate() error {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	s.fileIndex++
	return s.openCurrent()
}

func (s *FileSink) Write(p []byte) error {
	if s.failed {
		return nil
	}

	if s.handle == nil {
		if err := s.openCurrent(); err != nil {
			return err
		}
	} else if s.maxSizeBytes > 0 && s.currentSizeBytes+int64(len(p)) >= s.maxSizeBytes {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	n, err := s.handle.Write(p)
	s.currentSizeBytes += int64(n)
	if err != nil {
		s.failed = true
		return fmt.Errorf("file sink write: %w", err)
	}
	return nil
}

func (s *FileSink) Flush() error {
	if s.failed || s.handle == nil {
		return nil
	}
	if err := s.handle.Sync(); err != nil {
		return fmt.Errorf("file sink flush: %w", err)
	}
	return nil
}
