package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheUsage(t *testing.T) {
	dir := t.TempDir()

	if entries, size := cacheUsage(dir); entries != 0 || size != 0 {
		t.Errorf("empty dir usage = %d entries, %d bytes", entries, size)
	}
	if entries, _ := cacheUsage(filepath.Join(dir, "absent")); entries != 0 {
		t.Errorf("absent dir entries = %d, want 0", entries)
	}

	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "one"), []byte("1234"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "two"), []byte("56"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, size := cacheUsage(dir)
	if entries != 2 {
		t.Errorf("entries = %d, want 2", entries)
	}
	if size != 6 {
		t.Errorf("size = %d, want 6", size)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
