package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Analysis.IncludeTests {
		t.Error("Analysis.IncludeTests should be false by default")
	}
	if cfg.Analysis.Receiver != "self" {
		t.Errorf("Analysis.Receiver = %q, want self", cfg.Analysis.Receiver)
	}
	if cfg.Analysis.MaxFileSize != 0 || cfg.Analysis.Workers != 0 {
		t.Error("size and worker limits should be off by default")
	}

	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Exclude.Dirs should have default values")
	}

	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.Dir != ".mood/cache" {
		t.Errorf("Cache.Dir = %s, want .mood/cache", cfg.Cache.Dir)
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}

	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
	if cfg.Log.Level != "warn" || cfg.Log.Encoding != "console" {
		t.Errorf("Log = %+v, want warn/console", cfg.Log)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "mood.toml", `
[analysis]
include_tests = true
receiver = "this"
workers = 4

[exclude]
dirs = ["vendor", "custom_exclude"]

[cache]
enabled = false

[output]
format = "records"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.Analysis.IncludeTests {
		t.Error("Analysis.IncludeTests should be true")
	}
	if cfg.Analysis.Receiver != "this" {
		t.Errorf("Analysis.Receiver = %q, want this", cfg.Analysis.Receiver)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Analysis.Workers = %d, want 4", cfg.Analysis.Workers)
	}
	if len(cfg.Exclude.Dirs) != 2 || cfg.Exclude.Dirs[1] != "custom_exclude" {
		t.Errorf("Exclude.Dirs = %v", cfg.Exclude.Dirs)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.Output.Format != "records" {
		t.Errorf("Output.Format = %s, want records", cfg.Output.Format)
	}
	// Unset keys keep their defaults.
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want default 24", cfg.Cache.TTL)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "mood.yaml", `
analysis:
  max_file_size: 1048576

output:
  format: markdown

log:
  level: debug
  encoding: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Analysis.MaxFileSize != 1048576 {
		t.Errorf("Analysis.MaxFileSize = %d, want 1048576", cfg.Analysis.MaxFileSize)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Encoding != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "mood.json", `{
  "analysis": {"include_tests": true},
  "output": {"format": "toon", "color": false}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.Analysis.IncludeTests {
		t.Error("Analysis.IncludeTests should be true")
	}
	if cfg.Output.Format != "toon" || cfg.Output.Color {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/mood.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "mood.toml", "[analysis\ninvalid toml")

	if _, err := Load(path); err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"format", "[output]\nformat = \"pdf\"\n", "output.format"},
		{"level", "[log]\nlevel = \"trace\"\n", "log.level"},
		{"encoding", "[log]\nencoding = \"xml\"\n", "log.encoding"},
		{"workers", "[analysis]\nworkers = -1\n", "analysis.workers"},
		{"receiver", "[analysis]\nreceiver = \"\"\n", "analysis.receiver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "mood.toml", tt.content))
			if err == nil {
				t.Fatal("Load() should reject the value")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoadOrDefault(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, path, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.Analysis.Receiver != "self" {
		t.Error("LoadOrDefault() should return defaults")
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".mood"), 0755); err != nil {
		t.Fatal(err)
	}
	content := "[analysis]\nreceiver = \"cls\"\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".mood", "mood.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	chdir(t, tmpDir)

	cfg, path, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if path != filepath.Join(".mood", "mood.toml") {
		t.Errorf("path = %q", path)
	}
	if cfg.Analysis.Receiver != "cls" {
		t.Errorf("LoadOrDefault() should load from file, got Receiver=%q", cfg.Analysis.Receiver)
	}
}

func TestFindPrefersWorkingDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	for _, p := range []string{"mood.yaml", filepath.Join(".mood", "mood.toml")} {
		full := filepath.Join(tmpDir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if got := Find(tmpDir); got != filepath.Join(tmpDir, "mood.yaml") {
		t.Errorf("Find() = %q", got)
	}
	if got := Find(t.TempDir()); got != "" {
		t.Errorf("Find() in empty dir = %q", got)
	}
}

func TestEncodeTOMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.Receiver = "this"
	cfg.Exclude.Patterns = []string{"*_pb2.py"}

	data, err := cfg.EncodeTOML()
	if err != nil {
		t.Fatalf("EncodeTOML() error: %v", err)
	}
	if !strings.Contains(string(data), "[analysis]") {
		t.Errorf("missing [analysis] table:\n%s", data)
	}

	loaded, err := Load(writeConfig(t, "mood.toml", string(data)))
	if err != nil {
		t.Fatalf("Load() of encoded config: %v", err)
	}
	if loaded.Analysis.Receiver != "this" {
		t.Errorf("Receiver = %q after round trip", loaded.Analysis.Receiver)
	}
	if len(loaded.Exclude.Patterns) != 1 || loaded.Exclude.Patterns[0] != "*_pb2.py" {
		t.Errorf("Patterns = %v after round trip", loaded.Exclude.Patterns)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = []string{"*_pb2.py"}

	tests := []struct {
		path     string
		excluded bool
	}{
		{"shapes.py", false},
		{"pkg/shapes.py", false},
		{"venv/lib/site.py", true},
		{"pkg/__pycache__/shapes.py", true},
		{"api/service_pb2.py", true},
		{"test_shapes.py", true},
		{"pkg/shapes_test.py", true},
		{"tests/helpers.py", true},
		{"pkg/conftest.py", true},
		{"testing.py", false},
		{"build.py", false},
	}

	for _, tt := range tests {
		if got := cfg.ShouldExclude(tt.path); got != tt.excluded {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.excluded)
		}
	}
}

func TestShouldExcludeIncludeTests(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.IncludeTests = true

	for _, p := range []string{"test_shapes.py", "tests/helpers.py"} {
		if cfg.ShouldExclude(p) {
			t.Errorf("ShouldExclude(%q) = true with include_tests", p)
		}
	}
}
