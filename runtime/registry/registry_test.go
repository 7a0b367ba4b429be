package registry

import (
	"context"
	"testing"
)

type widget struct{ name string }

func TestRegisterAndBuild(t *testing.T) {
	r := New[*widget, string]()

	MustRegister(r, Key{Kind: "widget", Name: "a"}, BuilderFunc[*widget, string](
		func(ctx context.Context, spec string) (*widget, error) {
			return &widget{name: spec}, nil
		}))

	w, err := r.Build(context.Background(), Key{Kind: "widget", Name: "a"}, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.name != "hello" {
		t.Fatalf("got %q, want %q", w.name, "hello")
	}
}

func TestDuplicateRegisterIsNoOp(t *testing.T) {
	r := New[*widget, string]()
	b1 := BuilderFunc[*widget, string](func(ctx context.Context, spec string) (*widget, error) {
		return &widget{name: "first"}, nil
	})
	b2 := BuilderFunc[*widget, string](func(ctx context.Context, spec string) (*widget, error) {
		return &widget{name: "second"}, nil
	})

	key := Key{Kind: "widget", Name: "dup"}
	if !r.Register(key, b1) {
		t.Fatalf("first registration should succeed")
	}
	if r.Register(key, b2) {
		t.Fatalf("second registration should fail")
	}

	w, err := r.Build(context.Background(), key, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.name != "first" {
		t.Fatalf("expected original builder to remain installed, got %q", w.name)
	}
}

func TestCaseFoldLower(t *testing.T) {
	r := New[*widget, string](WithCaseFoldLower())
	MustRegister(r, Key{Kind: "Sink", Name: "Stdout"}, BuilderFunc[*widget, string](
		func(ctx context.Context, spec string) (*widget, error) { return &widget{}, nil }))

	if !r.Has(Key{Kind: "sink", Name: "stdout"}) {
		t.Fatalf("expected case-folded lookup to find the builder")
	}
}

func TestBuildUnknownKey(t *testing.T) {
	r := New[*widget, string]()
	if _, err := r.Build(context.Background(), Key{Kind: "widget", Name: "missing"}, ""); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestSealRejectsRegistration(t *testing.T) {
	r := New[*widget, string]()
	r.Seal()
	if r.Register(Key{Kind: "widget", Name: "late"}, BuilderFunc[*widget, string](
		func(ctx context.Context, spec string) (*widget, error) { return &widget{}, nil })) {
		t.Fatalf("expected registration after Seal to fail")
	}
}
