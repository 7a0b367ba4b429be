package channel

import (
	"bytes"
	"testing"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/formatter"
	"dirpx.dev/radlog/runtime/metric"
	"dirpx.dev/radlog/runtime/queue"
)

type fakeSink struct {
	f formatter.Formatter
}

func (f *fakeSink) Write(p []byte) error           { return nil }
func (f *fakeSink) Flush() error                   { return nil }
func (f *fakeSink) Formatter() formatter.Formatter { return f.f }

func newTestChannel(capacity int) (*Channel, *queue.Queue[entry.Entry], *argpool.Pool) {
	q := queue.New[entry.Entry](capacity)
	pool := argpool.New(capacity)
	sink := &fakeSink{f: formatter.NewTextFormatter()}
	ch := New("ch1", "CH1", 'I', false, sink, pool, q)
	return ch, q, pool
}

func TestLogEnqueuesRenderedEntry(t *testing.T) {
	ch, q, _ := newTestChannel(4)
	ch.Log("hello %d", 42)

	if q.Len() != 1 {
		t.Fatalf("expected 1 queued entry, got %d", q.Len())
	}
	e, ok := q.TryPop()
	if !ok {
		t.Fatalf("expected to pop an entry")
	}
	var buf bytes.Buffer
	e.FormatFunc(e.Metadata, &buf)
	if !bytes.Contains(buf.Bytes(), []byte("hello 42")) {
		t.Fatalf("unexpected render: %q", buf.String())
	}
}

func TestDisabledChannelDropsEmissions(t *testing.T) {
	ch, q, _ := newTestChannel(4)
	ch.Disable()
	ch.Log("should not appear")

	if q.Len() != 0 {
		t.Fatalf("expected no queued entries, got %d", q.Len())
	}
}

func TestPushFailureReturnsStoreToPool(t *testing.T) {
	ch, _, pool := newTestChannel(1)
	ch.Log("first")     // fills the queue of capacity 1
	before := pool.Available()
	ch.Log("second")    // queue full, push fails
	after := pool.Available()

	if after != before {
		t.Fatalf("expected dropped store to return to pool: before=%d after=%d", before, after)
	}
}

func TestLogHexTruncatesToMaxSize(t *testing.T) {
	ch, q, _ := newTestChannel(4)
	ch.SetHexDumpMaxSize(2)
	ch.LogHex([]byte{1, 2, 3, 4}, "")

	e, _ := q.TryPop()
	if len(e.Metadata.HexDump) != 2 {
		t.Fatalf("expected hex dump truncated to 2 bytes, got %d", len(e.Metadata.HexDump))
	}
}

func TestLogContextPopulatesTreeTemplateAndArgs(t *testing.T) {
	ch, q, _ := newTestChannel(4)
	ctx := metric.NewContext("ctx")
	ch.LogContext(ctx, "value %d", 7)

	e, ok := q.TryPop()
	if !ok {
		t.Fatalf("expected an entry")
	}
	if e.Metadata.Tree.Template != "value %d" {
		t.Fatalf("template not propagated: %q", e.Metadata.Tree.Template)
	}
	if len(e.Metadata.Tree.Args) != 1 || e.Metadata.Tree.Args[0] != 7 {
		t.Fatalf("args not propagated: %v", e.Metadata.Tree.Args)
	}
}
