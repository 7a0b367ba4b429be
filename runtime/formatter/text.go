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
	"fmt"
	"strings"

	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/metric"
)

const (
	textTimeLayout  = "2006-01-02T15:04:05.000000"
	textNameWidth   = 7
	textValueWidth  = 5
	hexDumpLineSize = 16
)

type textScope struct {
	remaining int
	isList    bool
}

// TextFormatter renders entries as human-readable lines: a timestamp/name
// /tag/context prefix followed by the formatted message, or a bracketed
// inline rendering / indented block dump of a structured context.
type TextFormatter struct {
	scopes       []textScope
	pendingClose []string
	inline       bool
}

// NewTextFormatter constructs a ready-to-use TextFormatter.
func NewTextFormatter() *TextFormatter { return &TextFormatter{} }

func (f *TextFormatter) Name() string { return "text" }

func (f *TextFormatter) WriteMetadataPrefix(meta entry.Metadata, buf *bytes.Buffer) {
	buf.WriteString(meta.Timestamp.UTC().Format(textTimeLayout))
	buf.WriteByte(' ')
	if meta.ChannelName != "" {
		fmt.Fprintf(buf, "[%-*s] ", textNameWidth, meta.ChannelName)
	}
	if meta.ChannelTag != 0 {
		fmt.Fprintf(buf, "[%c] ", meta.ChannelTag)
	}
	if meta.Context.Enabled {
		fmt.Fprintf(buf, "[%*d] ", textValueWidth, meta.Context.Value)
	}
}

func (f *TextFormatter) Format(meta entry.Metadata, buf *bytes.Buffer) {
	f.WriteMetadataPrefix(meta, buf)
	if meta.Template != "" {
		var args []any
		if meta.Store != nil {
			args = meta.Store.Positional
		}
		out, bad := renderTemplate(meta.Template, args)
		buf.WriteString(out)
		if bad {
			buf.WriteString(invalidFormatSuffix(meta.Template))
		}
	}
	buf.WriteByte('\n')
	if len(meta.HexDump) > 0 {
		formatHexDump(meta.HexDump, buf)
	}
}

func (f *TextFormatter) reset(inline bool) {
	f.scopes = f.scopes[:0]
	f.pendingClose = f.pendingClose[:0]
	f.inline = inline
}

func (f *TextFormatter) consumeParent() string {
	if len(f.scopes) == 0 {
		return ""
	}
	top := &f.scopes[len(f.scopes)-1]
	top.remaining--
	if top.remaining > 0 && !top.isList {
		return ", "
	}
	return ""
}

func (f *TextFormatter) push(size int, isList bool, closeSep string) {
	f.scopes = append(f.scopes, textScope{remaining: size, isList: isList})
	f.pendingClose = append(f.pendingClose, closeSep)
}

func (f *TextFormatter) pop() string {
	n := len(f.scopes)
	sep := f.pendingClose[n-1]
	f.scopes = f.scopes[:n-1]
	f.pendingClose = f.pendingClose[:n-1]
	return sep
}

func indent(level int) string { return strings.Repeat("  ", level) }

func (f *TextFormatter) ContextBegin(ctx *metric.Context, buf *bytes.Buffer) {
	f.reset(ctx.HasTemplate())
	if f.inline {
		buf.WriteString("[")
		f.push(len(ctx.Root.Children), true, "")
		return
	}
	fmt.Fprintf(buf, "Context dump for %q\n", ctx.Name)
}

func (f *TextFormatter) ContextEnd(ctx *metric.Context, buf *bytes.Buffer) {
	if !f.inline {
		return
	}
	f.pop()
	buf.WriteString("]: ")
	out, bad := renderTemplate(ctx.Template, ctx.Args)
	buf.WriteString(out)
	if bad {
		buf.WriteString(invalidFormatSuffix(ctx.Template))
	}
	buf.WriteByte('\n')
}

func (f *TextFormatter) MetricSetBegin(setName string, size, level int, buf *bytes.Buffer) {
	if f.inline {
		sep := f.consumeParent()
		buf.WriteString("[")
		f.push(size, false, sep)
		return
	}
	fmt.Fprintf(buf, "%s> Set: %s\n", indent(level), setName)
}

func (f *TextFormatter) MetricSetEnd(setName string, level int, buf *bytes.Buffer) {
	if !f.inline {
		return
	}
	buf.WriteString("]")
	buf.WriteString(f.pop())
}

func (f *TextFormatter) ListBegin(listName string, size, level int, buf *bytes.Buffer) {
	if f.inline {
		sep := f.consumeParent()
		f.push(size, true, sep)
		return
	}
	fmt.Fprintf(buf, "%s> List: %s\n", indent(level), listName)
}

func (f *TextFormatter) ListEnd(listName string, level int, buf *bytes.Buffer) {
	if !f.inline {
		return
	}
	buf.WriteString(f.pop())
}

func (f *TextFormatter) Metric(name, valueString, units string, kind metric.Kind, level int, buf *bytes.Buffer) {
	if f.inline {
		sep := f.consumeParent()
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(valueString)
		if units != "" {
			buf.WriteByte(' ')
			buf.WriteString(units)
		}
		buf.WriteString(sep)
		return
	}
	buf.WriteString(indent(level))
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(valueString)
	if units != "" {
		buf.WriteByte(' ')
		buf.WriteString(units)
	}
	buf.WriteByte('\n')
}
