package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("dir = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
		t.Errorf("dir = %q, want ~/.cache/%s", dir, appName)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"html", []string{"html"}},
		{"json,html", []string{"json", "html"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestStandardizedPath(t *testing.T) {
	if got := standardizedPath("/data/n1.swc"); got != "/data/n1_standardized.swc" {
		t.Errorf("standardizedPath = %q", got)
	}
}

func TestReportPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		output string
		multi  bool
		want   string
	}{
		{"Derived", "/data/n1.swc", "json", "", false, "/data/n1.report.json"},
		{"ExplicitWithExt", "/data/n1.swc", "html", "out.html", false, "out.html"},
		{"ExplicitNoExt", "/data/n1.swc", "html", "out", false, "out.html"},
		{"MultiIgnoresOutput", "/data/n1.swc", "json", "out", true, "/data/n1.report.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reportPath(tt.input, tt.format, tt.output, tt.multi); got != tt.want {
				t.Errorf("reportPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "standardmorph.toml")
	content := `
delimiter = ","
convention = "AIND"
distance_threshold = 25.0

[serve]
addr = ":9090"
mongo_uri = "mongodb://localhost:27017"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Delimiter != "," || cfg.Convention != "AIND" || cfg.DistanceThreshold != 25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Serve.Addr)
	}
	if cfg.Serve.MongoDatabase != appName {
		t.Errorf("MongoDatabase = %q, want default %q", cfg.Serve.MongoDatabase, appName)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Addr = %q, want default", cfg.Serve.Addr)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("delimiter = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid TOML should error")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	want := []string{"validate", "standardize", "report", "browse", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
