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

package radlog

import "sync"

var (
	defaultOnce   sync.Once
	defaultSystem *System
)

// Init builds the package-level default System on its first call, with a
// package default Config, and returns it. Subsequent calls return the same
// instance; Init never builds a second backend.
func Init() *System {
	defaultOnce.Do(func() {
		defaultSystem = New(Config{})
	})
	return defaultSystem
}

// Default returns the package-level System, building it with Init if
// necessary.
func Default() *System {
	return Init()
}
