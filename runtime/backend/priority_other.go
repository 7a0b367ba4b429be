//go:build !linux

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

package backend

// applyPriority is a no-op outside Linux: there is no portable equivalent
// of setpriority(2) available without an extra platform-specific
// dependency, and silently doing nothing is preferable to failing to
// start the backend over a scheduling hint.
func applyPriority(Priority, func(error)) {}
