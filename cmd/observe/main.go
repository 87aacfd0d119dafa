package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/observe/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┐ ┌─┐┌─┐┬─┐┬  ┬┌─┐
  │ │├┴┐└─┐├┤ ├┬┘└┐┌┘├┤
  └─┘└─┘└─┘└─┘┴└─ └┘ └─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "observe",
		Short: "Observable values and containers",
		Long: `observe drives a container of observable values from the command line.

A container holds one observable value per key. Writing a value that is
structurally equal to the stored one changes nothing; any other write
notifies the key's listeners with the old and new value.

  • Replace and merge write modes
  • Prometheus metrics for writes and dispatches
  • OpenTelemetry spans per dispatch`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		runCmd(),
		demoCmd(),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// newLogger returns the text logger used by every command.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).
		With("component", "observe")
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
