package sink

import (
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/radlog/runtime/formatter"
)

func TestBufferedFileSinkHoldsUntilFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buf.log")

	s := NewBufferedFileSink(path, 64, formatter.NewTextFormatter())
	if err := s.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := os.Stat(path); err == nil {
		t.Fatalf("file should not exist before flush")
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestBufferedFileSinkFlushesOnOverflowThenBuffersNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buf.log")

	s := NewBufferedFileSink(path, 8, formatter.NewTextFormatter())
	if err := s.Write([]byte("1234567")); err != nil { // 7 bytes, fits under 8
		t.Fatalf("write 1: %v", err)
	}
	if err := s.Write([]byte("89")); err != nil { // would reach 9 >= 8, triggers flush
		t.Fatalf("write 2: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "1234567" {
		t.Fatalf("expected only the first write flushed to disk, got %q", got)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	got, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back after close: %v", err)
	}
	if string(got) != "123456789" {
		t.Fatalf("expected overflowing write preserved after close, got %q", got)
	}
}
