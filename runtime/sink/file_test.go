package sink

import (
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/radlog/runtime/formatter"
)

func TestFileSinkWritesAndFlushes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	s := NewFileSink(path, 0, formatter.NewTextFormatter())
	if err := s.Write([]byte("hello\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "hello\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFileSinkRotatesAtThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	s := NewFileSink(path, MinRotationSize, formatter.NewTextFormatter())
	chunk := make([]byte, MinRotationSize-1)
	for i := range chunk {
		chunk[i] = 'a'
	}
	if err := s.Write(chunk); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.Write([]byte("bb")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("base file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.1.log")); err != nil {
		t.Fatalf("rotated file missing: %v", err)
	}
}

func TestFileSinkDiscardsAfterFailure(t *testing.T) {
	s := NewFileSink("/nonexistent-dir-xyz/out.log", 0, formatter.NewTextFormatter())
	if err := s.Write([]byte("a")); err == nil {
		t.Fatalf("expected error on first failed open")
	}
	if err := s.Write([]byte("b")); err != nil {
		t.Fatalf("expected silent discard after latched failure, got %v", err)
	}
}
