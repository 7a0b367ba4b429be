package sink

import (
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/radlog/runtime/formatter"
)

func TestSingleWriteFileSinkCommitsOnceOnOverflow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.log")

	s := NewSingleWriteFileSink(path, 8, formatter.NewTextFormatter())
	if err := s.Write([]byte("1234567")); err != nil {
		t.Fatalf("write 1: %v", err)
	}
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("file should not exist before overflow")
	}

	if err := s.Write([]byte("89")); err != nil {
		t.Fatalf("write 2: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "1234567" {
		t.Fatalf("got %q", got)
	}

	// Further writes after the single commit are silent no-ops.
	if err := s.Write([]byte("more")); err != nil {
		t.Fatalf("write after commit should be a no-op, got err %v", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "1234567" {
		t.Fatalf("file mutated after commit: %q", got)
	}
}

func TestSingleWriteFileSinkFlushCommitsWhateverIsBuffered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.log")

	s := NewSingleWriteFileSink(path, 1024, formatter.NewTextFormatter())
	if err := s.Write([]byte("partial")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "partial" {
		t.Fatalf("got %q", got)
	}
}
