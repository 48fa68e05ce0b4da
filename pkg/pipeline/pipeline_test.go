package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/standardmorph/standardmorph/pkg/cache"
	"github.com/standardmorph/standardmorph/pkg/report"
)

const cleanSWC = `# id type x y z radius parent
1 1 0 0 0 5 -1
2 2 5 0 0 1 1
3 2 10 0 0 1 2
4 3 0 5 0 1 1
5 3 0 10 0 1 4
`

const branchingSWC = `1 1 0 0 0 5 -1
2 2 1 1 1 1 1
3 2 2 2 2 1 2
4 2 3 3 3 1 2
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"html", false},
		{"swc", false},
		{"invalid", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "html"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{InputPath: "n.swc"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want default [json]", opts.Formats)
	}
	if opts.Logger == nil || opts.Provider == nil {
		t.Error("runtime defaults not applied")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}
}

func TestOptionsValidateRejects(t *testing.T) {
	if err := (&Options{}).ValidateAndSetDefaults(); err == nil {
		t.Error("missing input_path should fail")
	}
	opts := Options{InputPath: "n.swc", Convention: "bogus"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown convention should fail")
	}
	opts = Options{InputPath: "n.swc", Formats: []string{"pdf"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestExecuteCleanFile(t *testing.T) {
	path := writeInput(t, "clean.swc", cleanSWC)
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), Options{
		InputPath:   path,
		ToolVersion: "1.0.0",
		Formats:     []string{FormatJSON, FormatHTML},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", res.Stats.NodeCount)
	}
	if !res.Report.Passed() {
		t.Errorf("findings = %v, want none", res.Report.Findings)
	}
	if res.ContentHash == "" {
		t.Error("ContentHash is empty")
	}

	var decoded report.Report
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded.ToolVersion != "1.0.0" {
		t.Errorf("ToolVersion = %q", decoded.ToolVersion)
	}
	if !strings.Contains(string(res.Artifacts[FormatHTML]), "No errors found") {
		t.Error("html artifact missing pass marker")
	}
}

func TestExecuteReportsFindings(t *testing.T) {
	path := writeInput(t, "branching.swc", branchingSWC)
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), Options{InputPath: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(res.Report.Findings) != 1 {
		t.Fatalf("findings = %+v, want one", res.Report.Findings)
	}
	f := res.Report.Findings[0]
	if f.Test != "SomaChildrenFurcation" {
		t.Errorf("Test = %q", f.Test)
	}
	if len(f.NodesWithError) != 1 || f.NodesWithError[0] != 2 {
		t.Errorf("NodesWithError = %v, want [2]", f.NodesWithError)
	}
}

func TestExecuteFilenameConvention(t *testing.T) {
	good := writeInput(t, "N1-210101-axon-JG.swc", cleanSWC)
	bad := writeInput(t, "badname.swc", cleanSWC)
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), Options{InputPath: good, Convention: "AIND"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Report.Passed() {
		t.Errorf("findings = %v, want none for valid name", res.Report.Findings)
	}

	res, err = runner.Execute(context.Background(), Options{InputPath: bad, Convention: "AIND"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Report.Findings) != 1 || res.Report.Findings[0].Test != "FileNameFormat" {
		t.Errorf("findings = %+v, want FileNameFormat", res.Report.Findings)
	}
}

func TestExecuteRenumberedOutput(t *testing.T) {
	content := "7 1 0 0 0 5 -1\n12 2 1 0 0 1 7\n3 2 2 0 0 1 12\n"
	path := writeInput(t, "scrambled.swc", content)
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), Options{
		InputPath: path,
		Formats:   []string{FormatSWC},
		Renumber:  true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(res.Artifacts[FormatSWC])), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.HasPrefix(lines[0], "1 1 ") {
		t.Errorf("root row = %q, want renumbered to 1", lines[0])
	}
	if !strings.HasSuffix(lines[2], " 2") {
		t.Errorf("last row = %q, want parent 2", lines[2])
	}
}

func TestExecuteUsesReportCache(t *testing.T) {
	path := writeInput(t, "clean.swc", cleanSWC)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{InputPath: path, ToolVersion: "1.0.0"}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.ReportHit {
		t.Error("first run should miss the report cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.ReportHit {
		t.Error("second run should hit the report cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if second.Report.ID != first.Report.ID {
		t.Error("cached report should keep its identity")
	}

	// Refresh bypasses both caches and produces a fresh report.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.ReportHit {
		t.Error("refresh run should not hit the report cache")
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh run should not hit the artifact cache")
	}
}

func TestExecuteBatchKeepsInputIdentity(t *testing.T) {
	// Two byte-identical files under different names share one cache;
	// each report must carry its own path.
	dir := t.TempDir()
	a := filepath.Join(dir, "a.swc")
	b := filepath.Join(dir, "b.swc")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte(cleanSWC), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	results, err := runner.ExecuteBatch(context.Background(), Options{}, []string{a, b})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Report.InputFile != a {
		t.Errorf("InputFile = %q, want %q", results[0].Report.InputFile, a)
	}
	if results[1].Report.InputFile != b {
		t.Errorf("InputFile = %q, want %q", results[1].Report.InputFile, b)
	}
}

func TestExecuteCachedReportHonorsFilename(t *testing.T) {
	// A badly named file must not be served the clean report cached for a
	// well-named file with identical content.
	dir := t.TempDir()
	good := filepath.Join(dir, "N1-210101-axon-JG.swc")
	bad := filepath.Join(dir, "badname.swc")
	for _, p := range []string{good, bad} {
		if err := os.WriteFile(p, []byte(cleanSWC), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), Options{InputPath: good, Convention: "AIND"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Report.Passed() {
		t.Errorf("findings = %v, want none for valid name", res.Report.Findings)
	}

	res, err = runner.Execute(context.Background(), Options{InputPath: bad, Convention: "AIND"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Report.Findings) != 1 || res.Report.Findings[0].Test != "FileNameFormat" {
		t.Errorf("findings = %+v, want FileNameFormat", res.Report.Findings)
	}
}

func TestExecuteCacheHitTracksInputPath(t *testing.T) {
	// Same base name in two directories shares the cache entry; the hit
	// must still report the path it was asked to validate.
	first := writeInput(t, "clean.swc", cleanSWC)
	second := writeInput(t, "clean.swc", cleanSWC)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{InputPath: first}); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	res, err := runner.Execute(context.Background(), Options{InputPath: second})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !res.CacheInfo.ReportHit {
		t.Error("identical content under the same name should hit")
	}
	if res.Report.InputFile != second {
		t.Errorf("InputFile = %q, want %q", res.Report.InputFile, second)
	}
}

func TestExecuteArtifactCacheOutlivesReportEntry(t *testing.T) {
	// Artifact keys derive from the content-based report key, so rendered
	// artifacts stay addressable after the report entry is gone.
	path := writeInput(t, "clean.swc", cleanSWC)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{InputPath: path, ToolVersion: "1.0.0", Formats: []string{FormatHTML}}
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should render fresh artifacts")
	}

	keyOpts := opts
	if err := keyOpts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	reportKey := runner.Keyer.ReportKey(first.ContentHash, keyOpts.reportKeyOpts())
	if err := fc.Delete(context.Background(), reportKey); err != nil {
		t.Fatal(err)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.CacheInfo.ReportHit {
		t.Error("report entry was deleted, expected a miss")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("artifacts should be served from cache after the report miss")
	}
}

func TestExecuteMalformedInput(t *testing.T) {
	path := writeInput(t, "bad.swc", "1 1 0 0 0 5\n")
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{InputPath: path}); err == nil {
		t.Error("wrong column count should fail the run")
	}
}

func TestExecuteBatch(t *testing.T) {
	good := writeInput(t, "good.swc", cleanSWC)
	bad := writeInput(t, "bad.swc", "not a row\n")
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	results, err := runner.ExecuteBatch(context.Background(), Options{}, []string{good, bad})
	if err == nil {
		t.Error("batch with a malformed file should report an error")
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 successful", len(results))
	}
	if results[0].Report.InputFile != good {
		t.Errorf("InputFile = %q", results[0].Report.InputFile)
	}
}
