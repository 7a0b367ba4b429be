package radlog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dirpx.dev/radlog/apis/level"
	"dirpx.dev/radlog/apis/sink/policy"
)

func TestDiagnosticsMirrorWritesJSONRecords(t *testing.T) {
	sys := New(Config{QueueCapacity: 8})
	defer sys.Stop()

	path := filepath.Join(t.TempDir(), "mirror.log")
	mirrorSink, err := sys.EnableDiagnosticsMirror(context.Background(), MirrorOptions{
		Path:     path,
		Level:    level.Info,
		MinLevel: level.Trace,
		Batch:    policy.Batch{MaxEntries: 1},
	})
	if err != nil {
		t.Fatalf("EnableDiagnosticsMirror: %v", err)
	}

	ch := sys.Channel("diag", "DIAG", 'I', false, mirrorSink)
	ch.Log("hello mirror")

	waitFor(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && len(data) > 0
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading mirror file: %v", err)
	}
	if !strings.Contains(string(data), "hello mirror") {
		t.Fatalf("expected mirrored JSON to contain the message, got %q", string(data))
	}
	if !strings.Contains(string(data), `"level":"info"`) {
		t.Fatalf("expected mirrored JSON to contain the level, got %q", string(data))
	}
}

func TestDiagnosticsMirrorMutedByMinLevel(t *testing.T) {
	sys := New(Config{QueueCapacity: 8})
	defer sys.Stop()

	path := filepath.Join(t.TempDir(), "mirror.log")
	mirrorSink, err := sys.EnableDiagnosticsMirror(context.Background(), MirrorOptions{
		Path:     path,
		Level:    level.Debug,
		MinLevel: level.Error,
		Batch:    policy.Batch{MaxEntries: 1},
	})
	if err != nil {
		t.Fatalf("EnableDiagnosticsMirror: %v", err)
	}

	ch := sys.Channel("diag2", "DIAG2", 'I', false, mirrorSink)
	ch.Log("should be muted")
	sys.Flush()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("reading mirror file: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected a muted mirror to write nothing, got %q", string(data))
	}
}
