package repo

import "testing"

func TestEmplaceCreatesOnce(t *testing.T) {
	r := New[int]()
	calls := 0
	make1 := func() int { calls++; return 42 }

	v1 := r.Emplace("a", make1)
	v2 := r.Emplace("a", make1)

	if v1 != 42 || v2 != 42 {
		t.Fatalf("got %d, %d", v1, v2)
	}
	if calls != 1 {
		t.Fatalf("expected makeFn called once, got %d", calls)
	}
}

func TestFindMissingKey(t *testing.T) {
	r := New[string]()
	if _, ok := r.Find("missing"); ok {
		t.Fatalf("expected not found")
	}
}

func TestContentsSnapshot(t *testing.T) {
	r := New[int]()
	r.Emplace("a", func() int { return 1 })
	r.Emplace("b", func() int { return 2 })

	contents := r.Contents()
	if len(contents) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(contents))
	}
}
