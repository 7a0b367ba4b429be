package argpool

import "testing"

func TestAllocDeallocRoundTrip(t *testing.T) {
	p := New(4)
	if p.Capacity() != 4 {
		t.Fatalf("capacity = %d, want 4", p.Capacity())
	}

	s := p.Alloc()
	if s == nil {
		t.Fatalf("expected a store")
	}
	s.AddPositional(1)
	s.AddNamed("k", "v")

	p.Dealloc(s)
	if got := p.Available(); got != 4 {
		t.Fatalf("available = %d, want 4", got)
	}
	if len(s.Positional) != 0 || len(s.Named) != 0 {
		t.Fatalf("expected dealloc to clear the store")
	}
}

func TestPoolExhaustion(t *testing.T) {
	p := New(2)
	a := p.Alloc()
	b := p.Alloc()
	if a == nil || b == nil {
		t.Fatalf("expected two allocations to succeed")
	}
	if c := p.Alloc(); c != nil {
		t.Fatalf("expected pool to be exhausted")
	}

	p.Dealloc(a)
	if c := p.Alloc(); c == nil {
		t.Fatalf("expected a store to be available after dealloc")
	}
}

func TestDeallocNilIsNoOp(t *testing.T) {
	p := New(1)
	p.Dealloc(nil)
	if got := p.Available(); got != 1 {
		t.Fatalf("available = %d, want 1", got)
	}
}
