package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.json")

	if err := WriteFileAtomic(path, []byte("one"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte("two"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() second write error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("content = %q, want two", data)
	}
	if _, err := os.Stat(path + TempSuffix); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestListStaleTemp(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json.tmp", "a.yaml.tmp", "ok.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.tmp"), 0755); err != nil {
		t.Fatal(err)
	}

	stale, err := ListStaleTemp(dir)
	if err != nil {
		t.Fatalf("ListStaleTemp() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.yaml.tmp"), filepath.Join(dir, "b.json.tmp")}
	if len(stale) != len(want) {
		t.Fatalf("stale = %v, want %v", stale, want)
	}
	for i := range want {
		if stale[i] != want[i] {
			t.Errorf("stale[%d] = %q, want %q", i, stale[i], want[i])
		}
	}
}

func TestListStaleTempMissingDir(t *testing.T) {
	stale, err := ListStaleTemp(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("ListStaleTemp() error = %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("stale = %v, want none", stale)
	}
}
