package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/observe/internal/errors"
	"github.com/vango-dev/observe/pkg/value"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "observe.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "observe.yaml"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultMetricsAddr is the default metrics listen address.
	DefaultMetricsAddr = "localhost:9464"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "observe"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "observe"
)

// fileNames are searched in order by Load.
var fileNames = []string{ConfigFileName, YAMLConfigFileName, "observe.yml"}

// Config represents the complete configuration file.
type Config struct {
	// Name is the container name used in logs.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Mode is the write mode of every key: replace or merge.
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Modes overrides Mode for single keys.
	Modes map[string]string `json:"modes,omitempty" yaml:"modes,omitempty"`

	// Initial is the initial state. Its keys are the container keys.
	Initial map[string]any `json:"initial,omitempty" yaml:"initial,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled serves /metrics while the tool runs.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Addr is the listen address of the metrics server.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	// Enabled attaches the tracing hook.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name:     "observe",
		LogLevel: DefaultLogLevel,
		Mode:     value.ModeReplace.String(),
		Initial:  map[string]any{},
		Metrics: MetricsConfig{
			Addr:      DefaultMetricsAddr,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Sample returns the configuration written by "observe init".
func Sample() *Config {
	cfg := New()
	cfg.Name = "demo"
	cfg.Modes = map[string]string{"user": value.ModeMerge.String()}
	cfg.Initial = map[string]any{
		"name": "John",
		"age":  12,
		"tags": []any{"a", "b"},
		"user": map[string]any{"email": "john@example.com", "active": true},
	}
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for observe.json, observe.yaml and observe.yml, in that order.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E200").
		WithDetail("No observe.json or observe.yaml found in " + dir).
		WithSuggestion("Run 'observe init' to create one")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .yaml and .yml are YAML, everything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E200").
				WithDetail("No config file at " + path).
				WithSuggestion("Run 'observe init' to create one")
		}
		return nil, errors.New("E200").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E201").
				WithLocation(path, yamlErrorLine(err)).
				WithSuggestion("Check that the file is valid YAML").
				Wrap(err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E201").
				WithLocation(path, jsonErrorLine(data, err)).
				WithSuggestion("Check that the file is valid JSON").
				Wrap(err)
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.Initial = NormalizeMap(cfg.Initial)

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML or JSON
// depending on the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E201").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E200").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Mode == "" {
		c.Mode = value.ModeReplace.String()
	}
	if c.Initial == nil {
		c.Initial = map[string]any{}
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := value.ParseMode(c.Mode); err != nil {
		return errors.New("E202").
			WithSuggestion(fmt.Sprintf("Change mode %q to replace or merge", c.Mode)).
			Wrap(err)
	}

	keys := make([]string, 0, len(c.Modes))
	for key := range c.Modes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := value.ParseMode(c.Modes[key]); err != nil {
			return errors.New("E202").WithKey(key).Wrap(err)
		}
		if _, ok := c.Initial[key]; !ok {
			return errors.New("E204").
				WithKey(key).
				WithSuggestion("Add the key to initial or remove it from modes")
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		return errors.New("E203").
			WithSuggestion(fmt.Sprintf("Change logLevel %q to debug, info, warn or error", c.LogLevel)).
			Wrap(err)
	}
	return nil
}

// WriteMode returns the parsed default write mode.
func (c *Config) WriteMode() value.Mode {
	m, _ := value.ParseMode(c.Mode)
	return m
}

// KeyModes returns the parsed per-key write modes.
func (c *Config) KeyModes() map[string]value.Mode {
	out := make(map[string]value.Mode, len(c.Modes))
	for key, s := range c.Modes {
		if m, err := value.ParseMode(s); err == nil {
			out[key] = m
		}
	}
	return out
}

// SlogLevel returns the parsed log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range fileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// jsonErrorLine returns the 1-based line of a JSON syntax or type error.
func jsonErrorLine(data []byte, err error) int {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return 1 + strings.Count(string(data[:offset]), "\n")
}

// yamlErrorLine extracts the line from yaml.v3 messages such as
// "yaml: line 3: did not find expected key".
func yamlErrorLine(err error) int {
	msg := err.Error()
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(msg[i:], "line %d", &line); scanErr != nil {
		return 0
	}
	return line
}

// maxExactInt is the largest magnitude below which every whole float64 is
// exact, so converting it to int loses nothing.
const maxExactInt = 1 << 53

// NormalizeMap applies Normalize to every entry of m.
func NormalizeMap(m map[string]any) map[string]any {
	for key, v := range m {
		m[key] = Normalize(v)
	}
	return m
}

// Normalize makes decoded JSON and YAML values compare alike: whole float64
// numbers become int and map[any]any becomes map[string]any. Nested maps and
// slices are normalized in place.
func Normalize(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && t >= -maxExactInt && t <= maxExactInt && float64(int(t)) == t {
			return int(t)
		}
		return t
	case map[string]any:
		return NormalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for key, item := range t {
			out[fmt.Sprint(key)] = Normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = Normalize(item)
		}
		return t
	}
	return v
}

// ParseValue parses a value typed on the command line. JSON is accepted, and
// since the parser is YAML, so are bare words: `Jane` is the string "Jane".
// The empty input is nil.
func ParseValue(s string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, errors.New("E103").
			WithDetail(fmt.Sprintf("Could not parse %q as a value.", s)).
			Wrap(err)
	}
	return Normalize(v), nil
}
