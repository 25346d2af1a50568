package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"jobwatch/pkg/logx"
)

func openTestFile(t *testing.T, path string) Store {
	t.Helper()
	s, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFileStoreCreatesEmptyBackingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	s := openTestFile(t, path)

	if s.Contains("https://x.com/a") {
		t.Fatal("fresh store should be empty")
	}
	// A missing file is not an error; opening materializes the empty set.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("backing file not created at open: %v", err)
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		t.Fatalf("created file is not a JSON array: %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("created file should be empty: %v", urls)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s := openTestFile(t, path)
	s.Add("https://x.com/a")
	s.Add("https://x.com/b")
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	re := openTestFile(t, path)
	for _, key := range []string{"https://x.com/a", "https://x.com/b"} {
		if !re.Contains(key) {
			t.Fatalf("key %q lost across reopen", key)
		}
	}
	if re.Contains("https://x.com/c") {
		t.Fatal("unexpected key after reopen")
	}
}

func TestFileStoreFlushIsCompleteOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s := openTestFile(t, path)
	s.Add("https://x.com/a")
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	s.Add("https://x.com/b")
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		t.Fatalf("backing file is not a JSON array: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("backing file has %d entries, want 2: %v", len(urls), urls)
	}
}

func TestFileStoreCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := openTestFile(t, path)
	if s.Contains("anything") {
		t.Fatal("corrupt store should degrade to empty")
	}
	// And it must still be writable.
	s.Add("https://x.com/a")
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush after corrupt load: %v", err)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	s := openTestFile(t, path)

	s.Add("https://x.com/a")
	s.Add("https://x.com/a")
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("duplicate add leaked into persistence: %v", urls)
	}
}

func TestOpenDisabledDriver(t *testing.T) {
	s, err := Open(Config{}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Add("k")
	if !s.Contains("k") {
		t.Fatal("memory store lost a key")
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("memory Flush should be a no-op: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "redis"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
