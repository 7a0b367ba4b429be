package radlog

import (
	"bytes"
	"context"
	"testing"
	"time"

	"dirpx.dev/radlog/apis/health"
	"dirpx.dev/radlog/runtime/formatter"
	"dirpx.dev/radlog/runtime/sink"
)

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

func TestChannelRegistrationIsIdempotent(t *testing.T) {
	sys := New(Config{QueueCapacity: 8})
	defer sys.Stop()

	var buf bytes.Buffer
	sk := sink.NewStreamSink(&buf, formatter.NewTextFormatter())

	c1 := sys.Channel("svc", "SVC", 'I', false, sk)
	c2 := sys.Channel("svc", "SVC", 'I', false, sk)
	if c1 != c2 {
		t.Fatalf("expected the same channel instance on re-registration")
	}
}

func TestFlushWaitsForAllSinks(t *testing.T) {
	sys := New(Config{QueueCapacity: 8})
	defer sys.Stop()

	var buf bytes.Buffer
	sk := sink.NewStreamSink(&buf, formatter.NewTextFormatter())
	sys.RegisterSink("mine", sk)
	ch := sys.Channel("svc", "SVC", 'I', false, sk)
	ch.Log("hello")

	sys.Flush()
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Fatalf("expected flushed output to contain the logged message, got %q", buf.String())
	}
}

func TestStrippedReservedCharOnLookup(t *testing.T) {
	sys := New(Config{QueueCapacity: 8})
	defer sys.Stop()

	var buf bytes.Buffer
	sk := sink.NewStreamSink(&buf, formatter.NewTextFormatter())
	sys.Channel("svc", "SVC", 'I', false, sk)

	if _, ok := sys.FindChannel("s#v#c"); !ok {
		t.Fatalf("expected reserved characters to be stripped before lookup")
	}
}

func TestHealthReportsHealthyByDefault(t *testing.T) {
	sys := New(Config{QueueCapacity: 8})
	defer sys.Stop()

	report := sys.Health(context.Background())
	if report.Status != health.StatusHealthy {
		t.Fatalf("expected healthy status, got %v", report.Status)
	}
}

func TestInitReturnsSameInstance(t *testing.T) {
	s1 := Init()
	s2 := Init()
	if s1 != s2 {
		t.Fatalf("expected Init to return the same System instance")
	}
}

func TestPoolExhaustionReportsUnhealthy(t *testing.T) {
	sys := New(Config{QueueCapacity: 2})
	defer sys.Stop()

	var buf bytes.Buffer
	sk := sink.NewStreamSink(&buf, formatter.NewTextFormatter())
	ch := sys.Channel("svc", "SVC", 'I', false, sk)

	// Exhaust the pool by allocating directly without ever deallocating.
	a1 := sys.pool.Alloc()
	a2 := sys.pool.Alloc()
	_ = a1
	_ = a2
	_ = ch

	waitFor(t, func() bool {
		report := sys.Health(context.Background())
		return report.Status == health.StatusUnhealthy
	})
}
