package formatter

import (
	"bytes"
	"testing"
	"time"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/metric"
)

func fixedTimestamp() time.Time {
	return time.Unix(0, 0).UTC().Add(50000 * time.Microsecond)
}

func storeWith(args ...any) *argpool.Store {
	s := &argpool.Store{}
	for _, a := range args {
		s.AddPositional(a)
	}
	return s
}

func TestTextFormatterS1PlainEntryFullMetadata(t *testing.T) {
	f := NewTextFormatter()
	meta := entry.Metadata{
		Timestamp:   fixedTimestamp(),
		Template:    "Text %d",
		Store:       storeWith(88),
		ChannelName: "ABC",
		ChannelTag:  'Z',
		Context:     entry.Context{Value: 10, Enabled: true},
	}
	var buf bytes.Buffer
	f.Format(meta, &buf)

	want := "1970-01-01T00:00:00.050000 [ABC    ] [Z] [   10] Text 88\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatterS1PlainEntry(t *testing.T) {
	f := NewJSONFormatter()
	meta := entry.Metadata{
		Timestamp: fixedTimestamp(),
		Template:  "Text %d",
		Store:     storeWith(88),
	}
	var buf bytes.Buffer
	f.Format(meta, &buf)

	want := "{\n  \"log_entry\": \"Text 88\"\n}\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestTextFormatterS2EmptyChannelName(t *testing.T) {
	f := NewTextFormatter()
	meta := entry.Metadata{
		Timestamp:  fixedTimestamp(),
		Template:   "Text %d",
		Store:      storeWith(88),
		ChannelTag: 'Z',
		Context:    entry.Context{Value: 10, Enabled: true},
	}
	var buf bytes.Buffer
	f.Format(meta, &buf)

	want := "1970-01-01T00:00:00.050000 [Z] [   10] Text 88\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestTextFormatterS3HexDump(t *testing.T) {
	f := NewTextFormatter()
	dump := make([]byte, 20)
	for i := range dump {
		dump[i] = byte(i)
	}
	meta := entry.Metadata{Timestamp: fixedTimestamp(), HexDump: dump}
	var buf bytes.Buffer
	f.Format(meta, &buf)

	want := "1970-01-01T00:00:00.050000 \n" +
		"    0000: 00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f\n" +
		"    0010: 10 11 12 13\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func buildS4Tree() *metric.Context {
	ctx := metric.NewContext("ctx")
	sectorList := metric.NewList("sector_list")
	sector := sectorList.EmplaceBack("sector_metrics")
	sector.Add(&metric.Metric{Name: "type", Value: "event", Kind: metric.KindString})
	sector.Add(&metric.Metric{Name: "sector_id", Value: 1, Kind: metric.KindNumeric})

	ueList := metric.NewList("ue_list")
	for i := 0; i < 2; i++ {
		ue := ueList.EmplaceBack("ue_container")
		bearerList := metric.NewList("bearer_list")
		bearerList.EmplaceBack("bearer").Add(&metric.Metric{Name: "id", Value: i, Kind: metric.KindNumeric})
		bearerList.EmplaceBack("bearer").Add(&metric.Metric{Name: "id", Value: i + 10, Kind: metric.KindNumeric})
		ue.Add(bearerList)
	}
	sector.Add(ueList)
	ctx.Root.Add(sectorList)
	return ctx
}

func TestJSONFormatterS4StructuredContextNoTemplate(t *testing.T) {
	f := NewJSONFormatter()
	ctx := buildS4Tree()
	meta := entry.Metadata{Timestamp: fixedTimestamp(), Tree: ctx}

	var buf bytes.Buffer
	RenderContext(f, meta, &buf)

	out := buf.String()
	if bytes.Count([]byte(out), []byte(",,")) != 0 {
		t.Fatalf("unexpected double comma in output:\n%s", out)
	}
	// Spot check a few structural properties rather than the whole byte
	// string: valid nesting of the list-of-sets idiom, no trailing comma
	// before any closing brace/bracket, at least one quoted metric.
	if !bytes.Contains([]byte(out), []byte(`"sector_list": [`)) {
		t.Fatalf("missing sector_list key:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte(`"type": "event"`)) {
		t.Fatalf("missing string metric:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte(`"sector_id": 1`)) {
		t.Fatalf("missing numeric metric:\n%s", out)
	}
	if bytes.Contains([]byte(out), []byte(",\n}")) || bytes.Contains([]byte(out), []byte(",\n]")) {
		t.Fatalf("trailing comma before a closing brace/bracket:\n%s", out)
	}
}

func TestTextFormatterS5InlineStructuredContext(t *testing.T) {
	f := NewTextFormatter()
	ctx := metric.NewContext("ctx")
	ctx.Template = "Text %d"
	ctx.Args = []any{88}
	set := metric.NewSet("set")
	set.Add(&metric.Metric{Name: "k1", Value: "v1", Units: "u", Kind: metric.KindString})
	ctx.Root.Add(set)

	meta := entry.Metadata{Timestamp: fixedTimestamp(), Tree: ctx}
	var buf bytes.Buffer
	RenderContext(f, meta, &buf)

	want := "1970-01-01T00:00:00.050000 [[k1: v1 u]]: Text 88\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestTextFormatterBlockStructuredContext(t *testing.T) {
	f := NewTextFormatter()
	ctx := metric.NewContext("dump")
	set := metric.NewSet("set")
	set.Add(&metric.Metric{Name: "k1", Value: 1, Kind: metric.KindNumeric})
	ctx.Root.Add(set)

	meta := entry.Metadata{Timestamp: fixedTimestamp(), Tree: ctx}
	var buf bytes.Buffer
	RenderContext(f, meta, &buf)

	want := "1970-01-01T00:00:00.050000 Context dump for \"dump\"\n" +
		"  > Set: set\n" +
		"    k1: 1\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestTextFormatterInvalidTemplate(t *testing.T) {
	f := NewTextFormatter()
	meta := entry.Metadata{Timestamp: fixedTimestamp(), Template: "%d", Store: storeWith("not-a-number")}
	var buf bytes.Buffer
	f.Format(meta, &buf)

	want := "1970-01-01T00:00:00.050000 " + "%!d(string=not-a-number)" + " -> invalid format string: \"%d\"\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatterNoHexDumpFieldWhenEmpty(t *testing.T) {
	f := NewJSONFormatter()
	meta := entry.Metadata{Timestamp: fixedTimestamp(), Template: "msg"}
	var buf bytes.Buffer
	f.Format(meta, &buf)
	if bytes.Contains(buf.Bytes(), []byte("hex_dump")) {
		t.Fatalf("expected no hex_dump field: %q", buf.String())
	}
}
