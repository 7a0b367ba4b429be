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
	"strconv"
	"strings"
)

// splitFilenameExtension finds the last dot in the final path component
// only; directory dots never count, and a dot at the very start or very
// end of the filename is not treated as an extension separator.
func splitFilenameExtension(path string) (name, ext string) {
	sep := strings.LastIndexByte(path, '/')
	base := path
	if sep >= 0 {
		base = path[sep+1:]
	}

	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || dot == len(base)-1 {
		return path, ""
	}

	baseStart := 0
	if sep >= 0 {
		baseStart = sep + 1
	}
	absoluteDot := baseStart + dot
	return path[:absoluteDot], path[absoluteDot:]
}

// buildFilenameWithIndex returns basename unchanged for index 0; for any
// other index it inserts the index before the extension, or appends it to
// the bare name when there is no extension.
func buildFilenameWithIndex(basename string, index int) string {
	if index == 0 {
		return basename
	}
	name, ext := splitFilenameExtension(basename)
	idx := strconv.Itoa(index)
	if ext == "" {
		return name + "." + idx
	}
	return name + "." + idx + ext
}
