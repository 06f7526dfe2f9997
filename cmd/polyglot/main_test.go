package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/polyglot/config"
	"github.com/ZaguanLabs/polyglot/processor"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	// A missing .env keeps the developer's own file out of the tests.
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// mockProject writes a config using the mock backend, a file cache and an
// output directory under dir.
func mockProject(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	configPath = writeTestFile(t, dir, "polyglot.yaml", fmt.Sprintf(`
source_language: en
target_languages: [sk, de]
translation:
  service: mock
  retry_delay: 0s
processing:
  workers: 2
  output_dir: %s
cache:
  backend: file
  path: %s
log:
  level: error
`, filepath.Join(dir, "out"), filepath.Join(dir, "cache.json")))
	return dir, configPath
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "polyglot") {
		t.Errorf("expected version output, got: %s", stdout)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if _, _, err := runCLI(t, "transmogrify"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRun_MissingArguments(t *testing.T) {
	for _, args := range [][]string{
		{"translate"},
		{"extract"},
		{"diff", "only-one.md"},
		{"cache", "export"},
	} {
		if _, _, err := runCLI(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestRun_Extract(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "page.html", "<p>Hello</p><p>World</p>")

	stdout, _, err := runCLI(t, "extract", input)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(stdout, "Hello") || !strings.Contains(stdout, "World") {
		t.Errorf("extract should list both fragments, got: %s", stdout)
	}
	if !strings.Contains(stdout, "2 translatable") {
		t.Errorf("extract should show fragment count, got: %s", stdout)
	}
}

func TestRun_ExtractJSON(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "strings.json", `{"title": "Hello", "count": 3, "items": ["World"]}`)

	stdout, _, err := runCLI(t, "extract", "--json", input)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var out extractOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if out.Format != "json" || out.Count != 2 {
		t.Errorf("unexpected output %+v", out)
	}
	if out.InputFile != "strings.json" {
		t.Errorf("InputFile = %s", out.InputFile)
	}
}

func TestRun_ExtractUnsupported(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "main.go", "package main\n")

	if _, _, err := runCLI(t, "extract", input); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestRun_Diff(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestFile(t, dir, "old.md", "# Title\n\nFirst line\n\nSecond line\n")
	newPath := writeTestFile(t, dir, "new.md", "# Title\n\nFirst line changed\n\nSecond line\n\nThird line added\n")

	stdout, _, err := runCLI(t, "diff", newPath, oldPath)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(stdout, "Needs translation") {
		t.Errorf("diff should report pending fragments, got: %s", stdout)
	}
	if !strings.Contains(stdout, "Third line added") {
		t.Errorf("diff should list the added line, got: %s", stdout)
	}
}

func TestRun_DiffJSON(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestFile(t, dir, "old.txt", "Hello\n\nWorld\n")
	newPath := writeTestFile(t, dir, "new.txt", "Hello\n\nWorld\n")

	stdout, _, err := runCLI(t, "diff", "--json", newPath, oldPath)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}

	var out diffOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if out.Stats.Unchanged != 2 || len(out.NeedsTranslation) != 0 {
		t.Errorf("identical documents should not need translation: %+v", out)
	}
}

func TestRun_Translate(t *testing.T) {
	dir, configPath := mockProject(t)
	input := writeTestFile(t, dir, "greeting.txt", "Hello\n\nGood morning\n")

	stdout, _, err := runCLI(t, "--config", configPath, "translate", input)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(stdout, "1 documents, 1 processed, 0 failed") {
		t.Errorf("unexpected summary: %s", stdout)
	}

	sk, err := os.ReadFile(filepath.Join(dir, "out", "greeting_sk.txt"))
	if err != nil {
		t.Fatalf("missing sk output: %v", err)
	}
	if !strings.Contains(string(sk), "Ahoj") || !strings.Contains(string(sk), "[sk] Good morning") {
		t.Errorf("unexpected sk output %q", sk)
	}

	de, err := os.ReadFile(filepath.Join(dir, "out", "greeting_de.txt"))
	if err != nil {
		t.Fatalf("missing de output: %v", err)
	}
	if !strings.Contains(string(de), "[de] Good morning") {
		t.Errorf("unexpected de output %q", de)
	}
}

func TestRun_TranslateFlagsOverrideConfig(t *testing.T) {
	dir, configPath := mockProject(t)
	input := writeTestFile(t, dir, "greeting.txt", "Good night\n")
	outDir := filepath.Join(dir, "elsewhere")

	_, _, err := runCLI(t, "--config", configPath, "translate",
		"--target", "hu", "--output-dir", outDir, input)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "greeting_hu.txt")); err != nil {
		t.Errorf("expected hu output in --output-dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "greeting_sk.txt")); err == nil {
		t.Error("configured targets should be replaced by --target")
	}
}

func TestRun_TranslateJSON(t *testing.T) {
	dir, configPath := mockProject(t)
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, docs, "a.md", "# Hello\n")
	writeTestFile(t, docs, "b.html", "<p>World</p>")
	writeTestFile(t, docs, "notes.log", "ignored")

	stdout, _, err := runCLI(t, "--config", configPath, "translate", "--json", docs)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	var out SummaryJSON
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if out.Total != 2 || out.Processed != 2 || out.Failed != 0 {
		t.Errorf("unexpected summary %+v", out)
	}
	for _, doc := range out.Documents {
		if len(doc.Outputs) != 2 {
			t.Errorf("%s: expected 2 outputs, got %v", doc.Path, doc.Outputs)
		}
	}
}

func TestRun_TranslateNothingFound(t *testing.T) {
	dir, configPath := mockProject(t)
	writeTestFile(t, dir, "notes.log", "ignored")

	_, _, err := runCLI(t, "--config", configPath, "translate", "--exclude", "*", dir)
	if err == nil || !strings.Contains(err.Error(), "no matching documents") {
		t.Fatalf("expected no-documents error, got %v", err)
	}
}

func TestRun_TranslateReportsFailures(t *testing.T) {
	dir, configPath := mockProject(t)
	good := writeTestFile(t, dir, "ok.txt", "Hello\n")
	unsupported := writeTestFile(t, dir, "notes.log", "ignored")

	stdout, _, err := runCLI(t, "--config", configPath, "translate", good, unsupported)
	if err == nil {
		t.Fatal("expected error when a document fails")
	}
	if !strings.Contains(stdout, "FAIL") || !strings.Contains(stdout, "1 failed") {
		t.Errorf("summary should list the failure, got: %s", stdout)
	}
}

func TestRun_CacheExportImport(t *testing.T) {
	dir, configPath := mockProject(t)
	input := writeTestFile(t, dir, "greeting.txt", "Hello\n\nGood morning\n")

	if _, _, err := runCLI(t, "--config", configPath, "translate", input); err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	exportPath := filepath.Join(dir, "export.json")
	stdout, _, err := runCLI(t, "--config", configPath, "cache", "export", exportPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(stdout, "Exported 4 entries") {
		t.Errorf("unexpected export output: %s", stdout)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatal(err)
	}
	var export struct {
		Version  string            `json:"version"`
		Metadata map[string]string `json:"metadata"`
		Entries  []struct {
			Value string `json:"value"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("invalid export: %v", err)
	}
	if export.Version != "1.0" || export.Metadata["source_language"] != "en" || len(export.Entries) != 4 {
		t.Errorf("unexpected export %+v", export)
	}

	// Import into a fresh project.
	_, otherConfig := mockProject(t)
	stdout, _, err = runCLI(t, "--config", otherConfig, "cache", "import", exportPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(stdout, "Imported 4 entries") {
		t.Errorf("unexpected import output: %s", stdout)
	}
}

func TestProcessorOptions_ContiguousRebuild(t *testing.T) {
	content := "Hello\n\nGood morning\n\nGood night"
	translations := map[string]string{"paragraph_0": "Ahoj", "paragraph_2": "Dobrú noc"}

	tests := []struct {
		contiguous bool
		want       string
	}{
		{false, "Ahoj\n\nGood morning\n\nDobrú noc"},
		{true, "Ahoj"},
	}
	for _, tt := range tests {
		proc, err := processor.ForPath("notes.txt", processorOptions(config.Settings{ContiguousRebuild: tt.contiguous})...)
		if err != nil {
			t.Fatal(err)
		}
		got, err := proc.Rebuild(content, translations)
		if err != nil {
			t.Fatalf("Rebuild failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("contiguous=%v: got %q, want %q", tt.contiguous, got, tt.want)
		}
	}
}
