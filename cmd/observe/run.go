package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/observe/internal/config"
	"github.com/vango-dev/observe/pkg/container"
	"github.com/vango-dev/observe/pkg/metrics"
	"github.com/vango-dev/observe/pkg/tracing"
	"github.com/vango-dev/observe/pkg/value"
	"golang.org/x/sync/errgroup"
)

// runOptions are the flags of the run command.
type runOptions struct {
	configPath  string
	metricsAddr string
	logLevel    string
	quiet       bool
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session",
		Long: `Build a container from the config and read commands from stdin.

The config is read from --config, or from observe.json or observe.yaml
in the working directory. Without either the sample config is used.

Examples:
  observe run
  observe run --config=state.yaml
  observe run --metrics-addr=:9464
  echo 'set age 13' | observe run --quiet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSession(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default observe.json or observe.yaml)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve metrics on this address (enables metrics)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (default from config)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the banner or prompt")

	return cmd
}

// loadConfig resolves the config for run and demo.
func loadConfig(path string, stderr io.Writer) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		warn(stderr, "No config found, using the sample config")
		cfg = config.Sample()
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// runSession runs the REPL and, when enabled, the metrics server.
func runSession(ctx context.Context, opts runOptions, in io.Reader, out, stderr io.Writer) error {
	cfg, err := loadConfig(opts.configPath, stderr)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.SlogLevel()
	logger := newLogger(stderr, level).With("container", cfg.Name)

	var hooks []value.Hook
	var srv *metricsServer
	if cfg.Metrics.Enabled {
		reg := newMetricsRegistry()
		hooks = append(hooks, metrics.New(
			metrics.WithRegistry(reg),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		))
		srv, err = listenMetrics(cfg.Metrics.Addr, newMetricsRouter(reg), logger)
		if err != nil {
			return err
		}
	}
	if cfg.Tracing.Enabled {
		hooks = append(hooks, tracing.New(
			tracing.WithTracerName(cfg.Tracing.TracerName),
			tracing.WithContext(ctx),
		))
	}

	c := newContainer(cfg, logger, hooks...)

	sess := newSession(c, out)
	if !opts.quiet {
		printBanner(out)
		info(out, "container %q with keys: %v", cfg.Name, c.Keys())
		if srv != nil {
			info(out, "metrics on http://%s/metrics", srv.Addr())
		}
		fmt.Fprintln(out)
		sess.prompt = "> "
	}

	g, gctx := errgroup.WithContext(ctx)
	replCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	if srv != nil {
		g.Go(func() error {
			return srv.Serve(replCtx)
		})
	}
	g.Go(func() error {
		// Leaving the REPL stops the metrics server.
		defer cancel()
		return sess.Run(replCtx, in)
	})

	return g.Wait()
}

// newContainer builds the container described by cfg.
func newContainer(cfg *config.Config, logger *slog.Logger, hooks ...value.Hook) *container.Container {
	opts := []container.Option{
		container.WithMode(cfg.WriteMode()),
		container.WithLogger(logger),
		container.WithHooks(hooks...),
	}
	for key, mode := range cfg.KeyModes() {
		opts = append(opts, container.WithKeyMode(key, mode))
	}
	return container.New(cfg.Initial, opts...)
}
