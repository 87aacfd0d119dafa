package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/observe/internal/errors"
	"github.com/vango-dev/observe/pkg/value"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.WriteMode() != value.ModeReplace {
		t.Errorf("WriteMode() = %v, want replace", cfg.WriteMode())
	}
	if cfg.Metrics.Addr != DefaultMetricsAddr {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, DefaultMetricsAddr)
	}
	if cfg.Tracing.TracerName != DefaultTracerName {
		t.Errorf("Tracing.TracerName = %q, want %q", cfg.Tracing.TracerName, DefaultTracerName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	var oe *errors.ObserveError
	if !stderrors.As(err, &oe) || oe.Code != "E200" {
		t.Errorf("error = %v, want E200", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "demo",
  "mode": "merge",
  "initial": {
    "name": "John",
    "age": 12,
    "ratio": 0.5,
    "big": 3000000000,
    "huge": 1e300,
    "user": {"email": "john@example.com", "visits": 3}
  },
  "metrics": {
    "enabled": true
  }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want %q", cfg.Name, "demo")
	}
	if cfg.WriteMode() != value.ModeMerge {
		t.Errorf("WriteMode() = %v, want merge", cfg.WriteMode())
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true")
	}
	// Defaults fill the fields left out
	if cfg.Metrics.Addr != DefaultMetricsAddr {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, DefaultMetricsAddr)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}

	// Whole JSON numbers are ints, the rest stay float64
	if age, ok := cfg.Initial["age"].(int); !ok || age != 12 {
		t.Errorf("initial age = %#v, want int 12", cfg.Initial["age"])
	}
	if ratio, ok := cfg.Initial["ratio"].(float64); !ok || ratio != 0.5 {
		t.Errorf("initial ratio = %#v, want 0.5", cfg.Initial["ratio"])
	}
	// Large whole numbers match what the REPL parses for the same input
	big, err := ParseValue("3000000000")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Initial["big"], big) {
		t.Errorf("initial big = %#v, ParseValue = %#v", cfg.Initial["big"], big)
	}
	if _, ok := cfg.Initial["huge"].(float64); !ok {
		t.Errorf("initial huge = %#v, want float64", cfg.Initial["huge"])
	}
	user := cfg.Initial["user"].(map[string]any)
	if visits, ok := user["visits"].(int); !ok || visits != 3 {
		t.Errorf("nested visits = %#v, want int 3", user["visits"])
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `name: demo
logLevel: debug
modes:
  user: merge
initial:
  name: John
  age: 12
  tags: [a, b]
  user:
    email: john@example.com
    active: true
tracing:
  enabled: true
`
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Fatal("Exists() should find observe.yaml")
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	want := map[string]any{
		"name": "John",
		"age":  12,
		"tags": []any{"a", "b"},
		"user": map[string]any{"email": "john@example.com", "active": true},
	}
	if !reflect.DeepEqual(cfg.Initial, want) {
		t.Errorf("Initial = %#v, want %#v", cfg.Initial, want)
	}
	if got := cfg.KeyModes()["user"]; got != value.ModeMerge {
		t.Errorf("KeyModes()[user] = %v, want merge", got)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.TracerName != DefaultTracerName {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		wantLine int
	}{
		{
			name:     "json syntax",
			file:     "observe.json",
			content:  "{\n  \"name\": \"demo\",\n  \"mode\": ,\n}\n",
			wantLine: 3,
		},
		{
			name:     "yaml syntax",
			file:     "observe.yaml",
			content:  "name: demo\nmode: [replace\n",
			wantLine: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			var oe *errors.ObserveError
			if !stderrors.As(err, &oe) {
				t.Fatalf("error = %v, want ObserveError", err)
			}
			if oe.Code != "E201" {
				t.Errorf("Code = %q, want E201", oe.Code)
			}
			if oe.Location == nil || oe.Location.File != path {
				t.Fatalf("Location = %v, want %s", oe.Location, path)
			}
			// yaml.v3 reports the line where it gave up, which is not
			// always the line of the mistake.
			if tt.wantLine > 0 && oe.Location.Line != tt.wantLine {
				t.Errorf("Location.Line = %d, want %d", oe.Location.Line, tt.wantLine)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"observe.json", "observe.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			cfg := Sample()
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if !reflect.DeepEqual(loaded.Initial, cfg.Initial) {
				t.Errorf("Initial = %#v, want %#v", loaded.Initial, cfg.Initial)
			}
			if loaded.Modes["user"] != "merge" {
				t.Errorf("Modes = %v", loaded.Modes)
			}
		})
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		wantCode string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:     "unknown mode",
			modify:   func(c *Config) { c.Mode = "patch" },
			wantCode: "E202",
		},
		{
			name: "unknown key mode",
			modify: func(c *Config) {
				c.Initial["user"] = map[string]any{}
				c.Modes = map[string]string{"user": "deep"}
			},
			wantCode: "E202",
		},
		{
			name:     "mode for missing key",
			modify:   func(c *Config) { c.Modes = map[string]string{"email": "merge"} },
			wantCode: "E204",
		},
		{
			name:     "bad log level",
			modify:   func(c *Config) { c.LogLevel = "loud" },
			wantCode: "E203",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			var oe *errors.ObserveError
			if !stderrors.As(err, &oe) || oe.Code != tt.wantCode {
				t.Errorf("Validate() = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`"Jane"`, "Jane"},
		{`Jane`, "Jane"},
		{`13`, 13},
		{`1.5`, 1.5},
		{`true`, true},
		{`null`, nil},
		{`[1, 2]`, []any{1, 2}},
		{`{"email": "a@b.c", "n": 1}`, map[string]any{"email": "a@b.c", "n": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			if err != nil {
				t.Fatalf("ParseValue(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseValue(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}

	_, err := ParseValue(`{"a": `)
	if err == nil || !strings.Contains(err.Error(), "E103") {
		t.Errorf("ParseValue(invalid) = %v, want E103", err)
	}
}

func TestNormalize(t *testing.T) {
	in := map[any]any{"a": 2.0, 1: []any{3.0, 3.5}, "big": 3e9, "neg": -1e12}
	got := Normalize(in)
	want := map[string]any{"a": 2, "1": []any{3, 3.5}, "big": 3000000000, "neg": -1000000000000}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %#v, want %#v", got, want)
	}
}
