package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/observe/internal/config"
	"github.com/vango-dev/observe/pkg/metrics"
	"github.com/vango-dev/observe/pkg/value"
)

func TestRunDemo(t *testing.T) {
	var buf bytes.Buffer
	if err := runDemo(&buf); err != nil {
		t.Fatalf("runDemo error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"== string\nset name \"John\"\nset name \"Jane\"\n  name: \"John\" -> \"Jane\"\nget name \"Jane\"\n",
		"== slice\nset nums [1,2,3]\nset nums [1,2,3,4]\n  nums: [1,2,3] -> [1,2,3,4]\n",
		"set user {\"age\":12}\nset user {\"age\":13}\n  user: {\"age\":12,\"name\":\"John\"} -> {\"age\":13,\"name\":\"John\"}\n",
		"set age 13\n  age: 12 -> 13\nset name \"John\"\nset name \"Jane\"\n  name: \"John\" -> \"Jane\"\n",
		"snapshot {\"age\":13,\"name\":\"Jane\"}\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version", "--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := buf.String(); got != version+"\n" {
		t.Errorf("version = %q", got)
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	path, err := runInit(dir, "yaml", false)
	if err != nil {
		t.Fatalf("runInit error: %v", err)
	}
	if filepath.Base(path) != config.YAMLConfigFileName {
		t.Errorf("path = %q", path)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config invalid: %v", err)
	}

	if _, err := runInit(dir, "json", false); err == nil {
		t.Error("runInit should refuse to overwrite without --force")
	}
	if _, err := runInit(dir, "json", true); err != nil {
		t.Errorf("runInit --force error: %v", err)
	}
	if _, err := runInit(dir, "toml", true); err == nil {
		t.Error("runInit should reject unknown formats")
	}
}

func TestNewContainer(t *testing.T) {
	cfg := config.Sample()
	c := newContainer(cfg, newLogger(io.Discard, 0))

	if got := strings.Join(c.Keys(), ","); got != "age,name,tags,user" {
		t.Errorf("Keys() = %q", got)
	}
	user, err := c.Cell("user")
	if err != nil {
		t.Fatal(err)
	}
	if user.Mode() != value.ModeMerge {
		t.Errorf("user mode = %v, want merge", user.Mode())
	}
	name, _ := c.Cell("name")
	if name.Mode() != value.ModeReplace {
		t.Errorf("name mode = %v, want replace", name.Mode())
	}
}

func TestRunSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observe.json")
	if err := os.WriteFile(path, []byte(`{"initial": {"age": 12}}`), 0644); err != nil {
		t.Fatal(err)
	}

	var out, stderr bytes.Buffer
	in := strings.NewReader("watch age\nset age 13\nquit\n")
	opts := runOptions{configPath: path, quiet: true}

	if err := runSession(context.Background(), opts, in, &out, &stderr); err != nil {
		t.Fatalf("runSession error: %v", err)
	}
	if got := out.String(); got != "watching age\nage: 12 -> 13\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunSessionInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observe.yaml")
	if err := os.WriteFile(path, []byte("mode: patch\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := runOptions{configPath: path, quiet: true}
	err := runSession(context.Background(), opts, strings.NewReader(""), io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "E202") {
		t.Errorf("runSession = %v, want E202", err)
	}
}

func TestRunSessionWithMetrics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observe.yaml")
	if err := os.WriteFile(path, []byte("initial:\n  age: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// The REPL waits on a pipe so the server stays up while it is queried.
	pr, pw := io.Pipe()
	var out bytes.Buffer
	opts := runOptions{configPath: path, metricsAddr: "127.0.0.1:0"}

	done := make(chan error, 1)
	go func() {
		done <- runSession(context.Background(), opts, pr, &out, io.Discard)
	}()

	pw.Write([]byte("set age 13\nquit\n"))
	pw.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runSession error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runSession did not return after quit")
	}
	if !strings.Contains(out.String(), "metrics on http://127.0.0.1:") {
		t.Errorf("banner missing metrics address:\n%s", out.String())
	}
}

func TestMetricsRouter(t *testing.T) {
	reg := newMetricsRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	v := value.New(0, value.WithName("count"), value.WithHooks(m))
	v.Set(1)

	srv := httptest.NewServer(newMetricsRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `observe_writes_total{cell="count",result="changed"} 1`) {
		t.Errorf("/metrics missing write counter:\n%s", body)
	}
}

func TestMetricsServerLifecycle(t *testing.T) {
	srv, err := listenMetrics("127.0.0.1:0", newMetricsRouter(newMetricsRegistry()), newLogger(io.Discard, 0))
	if err != nil {
		t.Fatalf("listenMetrics error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve error: %v", err)
	}
}

func TestListenMetricsPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	_, err = listenMetrics(ln.Addr().String(), http.NotFoundHandler(), newLogger(io.Discard, 0))
	if err == nil || !strings.Contains(err.Error(), "E303") {
		t.Errorf("listenMetrics = %v, want E303", err)
	}
}
