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

// Package formatter renders log entries into bytes. A Formatter is
// stateless with respect to the entries it renders, save for a small scope
// stack it keeps while walking a single structured context (reset before
// each render since the backend worker invokes formatters from one thread
// at a time).
package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/metric"
)

// Formatter renders both plain entries and, via the embedded metric.Visitor
// contract, structured contexts.
type Formatter interface {
	metric.Visitor

	// Format renders a plain entry (a metadata prefix plus an optional
	// printf-style template and hex dump). RenderContext does not call it;
	// it writes a structured context's metadata prefix through
	// writeMetadataPrefix instead.
	Format(meta entry.Metadata, buf *bytes.Buffer)

	// Name identifies the formatter for registries/diagnostics.
	Name() string
}

// RenderContext writes the metadata prefix (shared with Format) followed
// by the structured context's rendering, driven by metric.Walk.
func RenderContext(f Formatter, meta entry.Metadata, buf *bytes.Buffer) {
	writeMetadataPrefix(f, meta, buf)
	metric.Walk(meta.Tree, f, buf)
}

// writeMetadataPrefix is implemented per-formatter because the text and
// JSON formatters disagree on whether a prefix exists at all (JSON has
// none; the object itself carries no timestamp/name/tag fields).
func writeMetadataPrefix(f Formatter, meta entry.Metadata, buf *bytes.Buffer) {
	if p, ok := f.(interface {
		WriteMetadataPrefix(entry.Metadata, *bytes.Buffer)
	}); ok {
		p.WriteMetadataPrefix(meta, buf)
	}
}

// renderTemplate applies printf-style args to tmpl and reports whether
// rendering failed (panicked, or fmt's own verb/argument mismatch
// machinery kicked in and inserted one of its "%!" error markers into the
// output).
func renderTemplate(tmpl string, args []any) (out string, bad bool) {
	defer func() {
		if r := recover(); r != nil {
			bad = true
		}
	}()
	out = fmt.Sprintf(tmpl, args...)
	if strings.Contains(out, "%!") {
		bad = true
	}
	return out, bad
}

func invalidFormatSuffix(tmpl string) string {
	return fmt.Sprintf(" -> invalid format string: %q", tmpl)
}

func formatHexDump(dump []byte, buf *bytes.Buffer) {
	for offset := 0; offset < len(dump); offset += 16 {
		end := offset + 16
		if end > len(dump) {
			end = len(dump)
		}
		fmt.Fprintf(buf, "    %04x:", offset)
		for _, b := range dump[offset:end] {
			fmt.Fprintf(buf, " %02x", b)
		}
		buf.WriteByte('\n')
	}
}
