package backend

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"dirpx.dev/radlog/runtime/argpool"
	"dirpx.dev/radlog/runtime/entry"
	"dirpx.dev/radlog/runtime/queue"
)

type recordingSink struct {
	mu      sync.Mutex
	writes  [][]byte
	flushed bool
	failNext bool
}

func (s *recordingSink) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errBoom
	}
	cp := append([]byte(nil), p...)
	s.writes = append(s.writes, cp)
	return nil
}

func (s *recordingSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed = true
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestBackendProcessesLogEntries(t *testing.T) {
	q := queue.New[entry.Entry](8)
	pool := argpool.New(8)
	b := New(q, pool, PriorityNormal)
	b.Start()
	defer b.Stop()

	sink := &recordingSink{}
	store := pool.Alloc()
	fn := func(meta entry.Metadata, buf *bytes.Buffer) { buf.WriteString("rendered") }
	q.Push(entry.NewLogEntry(sink, fn, entry.Metadata{Store: store}))

	waitFor(t, func() bool { return sink.count() == 1 })
	if string(sink.writes[0]) != "rendered" {
		t.Fatalf("got %q", sink.writes[0])
	}
}

func TestBackendDeallocatesStoreAfterFormat(t *testing.T) {
	q := queue.New[entry.Entry](8)
	pool := argpool.New(8)
	b := New(q, pool, PriorityNormal)
	b.Start()
	defer b.Stop()

	sink := &recordingSink{}
	store := pool.Alloc()
	before := pool.Available()
	fn := func(meta entry.Metadata, buf *bytes.Buffer) {}
	q.Push(entry.NewLogEntry(sink, fn, entry.Metadata{Store: store}))

	waitFor(t, func() bool { return pool.Available() == before+1 })
}

func TestBackendRecoversFromFormatPanic(t *testing.T) {
	q := queue.New[entry.Entry](8)
	pool := argpool.New(8)
	var reported []error
	b := New(q, pool, PriorityNormal)
	b.SetErrorHandler(func(err error) { reported = append(reported, err) })
	b.Start()
	defer b.Stop()

	sink := &recordingSink{}
	fn := func(meta entry.Metadata, buf *bytes.Buffer) { panic("kaboom") }
	q.Push(entry.NewLogEntry(sink, fn, entry.Metadata{}))

	waitFor(t, func() bool { return len(reported) > 0 })
}

func TestBackendFlushCommandMarksDoneAfterAllSinksFlushed(t *testing.T) {
	q := queue.New[entry.Entry](8)
	pool := argpool.New(8)
	b := New(q, pool, PriorityNormal)
	b.Start()
	defer b.Stop()

	s1, s2 := &recordingSink{}, &recordingSink{}
	e := entry.NewFlushEntry([]entry.Sink{s1, s2})
	q.Push(e)

	waitFor(t, func() bool { return e.Flush.Done.Load() })
	if !s1.flushed || !s2.flushed {
		t.Fatalf("expected both sinks flushed")
	}
}
