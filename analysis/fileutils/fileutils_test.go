package fileutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteJSONFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.json")

	if err := WriteJSONFileAtomic(path, map[string]int{"a": 1}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(b), `"a": 1`) {
		t.Fatalf("unexpected content: %q", string(b))
	}
	if !strings.HasSuffix(string(b), "\n") {
		t.Fatalf("expected trailing newline")
	}
}

func TestReadJSONFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "in.json")
	if err := os.WriteFile(path, []byte(`{"x":"y"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got map[string]string
	if err := ReadJSONFile(path, &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got["x"] != "y" {
		t.Fatalf("got %v, want map[x:y]", got)
	}

	if err := ReadJSONFile(filepath.Join(dir, "missing.json"), &got); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("  hello  ", 10); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if got := Truncate("hello world", 5); got != "hello…" {
		t.Fatalf("got %q, want %q", got, "hello…")
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Fatalf("max<=0 should be a no-op, got %q", got)
	}
}

func TestSanitizeNewlines(t *testing.T) {
	t.Parallel()

	if got := SanitizeNewlines("a\r\nb\rc\nd"); got != `a\nb\nc\nd` {
		t.Fatalf("got %q", got)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "present.json")
	if FileExists(path) {
		t.Fatalf("FileExists(%q)=true before creation", path)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !FileExists(path) {
		t.Fatalf("FileExists(%q)=false after creation", path)
	}
}
