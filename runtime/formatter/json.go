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

package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/metric"
)

type jsonScope struct {
	remaining int
	isList    bool
}

// JSONFormatter emits a stream of concatenated top-level JSON objects, one
// per entry, with no enclosing array. Trailing commas are suppressed via a
// per-scope remaining-child counter; list elements that are themselves sets
// get an extra wrapper object since JSON array elements must be objects.
type JSONFormatter struct {
	scopes    []jsonScope
	nestLevel int
}

// NewJSONFormatter constructs a ready-to-use JSONFormatter.
func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

func (f *JSONFormatter) Name() string { return "json" }

func jsonEscape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(string(b), "\""), "\"")
}

func (f *JSONFormatter) Format(meta entry.Metadata, buf *bytes.Buffer) {
	buf.WriteString("{\n  \"log_entry\": \"")
	if meta.Template != "" {
		var args []any
		if meta.Store != nil {
			args = meta.Store.Positional
		}
		out, bad := renderTemplate(meta.Template, args)
		buf.WriteString(jsonEscape(out))
		if bad {
			buf.WriteString(jsonEscape(invalidFormatSuffix(meta.Template)))
		}
	}
	buf.WriteString("\"")
	if len(meta.HexDump) > 0 {
		buf.WriteString(",\n  \"hex_dump\": \"")
		for i, b := range meta.HexDump {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(buf, "%02x", b)
		}
		buf.WriteString("\"")
	}
	buf.WriteString("\n}\n")
}

func (f *JSONFormatter) indentStr(level int) string {
	return strings.Repeat(" ", (level+f.nestLevel)*2)
}

func (f *JSONFormatter) push(size int, isList bool) {
	f.scopes = append(f.scopes, jsonScope{remaining: size, isList: isList})
}

func (f *JSONFormatter) pop() {
	f.scopes = f.scopes[:len(f.scopes)-1]
}

func (f *JSONFormatter) inList() bool {
	return len(f.scopes) > 0 && f.scopes[len(f.scopes)-1].isList
}

func (f *JSONFormatter) consumeParent() {
	if len(f.scopes) == 0 {
		return
	}
	f.scopes[len(f.scopes)-1].remaining--
}

func (f *JSONFormatter) needsComma() bool {
	return len(f.scopes) > 0 && f.scopes[len(f.scopes)-1].remaining > 0
}

func commaIf(b bool) string {
	if b {
		return ","
	}
	return ""
}

func (f *JSONFormatter) ContextBegin(ctx *metric.Context, buf *bytes.Buffer) {
	f.scopes = f.scopes[:0]
	f.nestLevel = 0

	buf.WriteString("{\n")
	size := len(ctx.Root.Children)
	f.push(size, false)

	if ctx.HasTemplate() {
		buf.WriteString("  \"log_entry\": \"")
		out, bad := renderTemplate(ctx.Template, ctx.Args)
		buf.WriteString(jsonEscape(out))
		if bad {
			buf.WriteString(jsonEscape(invalidFormatSuffix(ctx.Template)))
		}
		buf.WriteString("\"")
		// Only a context with at least one top-level child needs the
		// separating comma; a template-only context with no children
		// would otherwise leave a trailing comma before the closing brace.
		if size > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
}

func (f *JSONFormatter) ContextEnd(ctx *metric.Context, buf *bytes.Buffer) {
	f.pop()
	buf.WriteString("}\n")
}

func (f *JSONFormatter) MetricSetBegin(setName string, size, level int, buf *bytes.Buffer) {
	if f.inList() {
		fmt.Fprintf(buf, "%s{\n", f.indentStr(level))
		f.nestLevel++
	}
	f.consumeParent()
	fmt.Fprintf(buf, "%s%q: {\n", f.indentStr(level), setName)
	f.push(size, false)
}

func (f *JSONFormatter) MetricSetEnd(setName string, level int, buf *bytes.Buffer) {
	f.pop()
	fmt.Fprintf(buf, "%s}%s\n", f.indentStr(level), commaIf(f.needsComma() && !f.inList()))

	if f.inList() {
		f.nestLevel--
		fmt.Fprintf(buf, "%s}%s\n", f.indentStr(level), commaIf(f.needsComma()))
	}
}

func (f *JSONFormatter) ListBegin(listName string, size, level int, buf *bytes.Buffer) {
	f.consumeParent()
	fmt.Fprintf(buf, "%s%q: [\n", f.indentStr(level), listName)
	f.push(size, true)
}

func (f *JSONFormatter) ListEnd(listName string, level int, buf *bytes.Buffer) {
	f.pop()
	fmt.Fprintf(buf, "%s]%s\n", f.indentStr(level), commaIf(f.needsComma()))
}

func (f *JSONFormatter) Metric(name, valueString, units string, kind metric.Kind, level int, buf *bytes.Buffer) {
	f.consumeParent()
	needsComma := f.needsComma()
	if kind == metric.KindString {
		fmt.Fprintf(buf, "%s%q: %q%s\n", f.indentStr(level), name, valueString, commaIf(needsComma))
		return
	}
	fmt.Fprintf(buf, "%s%q: %s%s\n", f.indentStr(level), name, valueString, commaIf(needsComma))
}
