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

import "dirpx.dev/radlog/runtime/formatter"

// BackendSink is the contract the backend worker and log channels write
// through: two fallible operations plus a formatter accessor. It is the
// Go-native rendering of the source implementation's sink base class,
// deliberately narrower than apis/sink.Sink (no context.Context, no Close)
// because these variants are only ever touched from the single backend
// goroutine, never concurrently and never cancelled mid-write.
type BackendSink interface {
	Write(p []byte) error
	Flush() error
	Formatter() formatter.Formatter
}

type withFormatter struct {
	f formatter.Formatter
}

func (w *withFormatter) Formatter() formatter.Formatter { return w.f }
