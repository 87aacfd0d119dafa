package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/vango-dev/observe/pkg/container"
	"github.com/vango-dev/observe/pkg/listener"
	"github.com/vango-dev/observe/pkg/value"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Location represents a position in a configuration file.
type Location struct {
	File string
	Line int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// ObserveError is a structured error with a code, context and suggestions.
type ObserveError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (runtime, config, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Key is the container key involved, if any.
	Key string

	// Location is the configuration file position, if any.
	Location *Location

	// Context contains the lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ObserveError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ObserveError) Unwrap() error {
	return e.Wrapped
}

// WithKey records the container key involved.
func (e *ObserveError) WithKey(key string) *ObserveError {
	e.Key = key
	return e
}

// WithLocation adds a file position and reads the surrounding lines.
func (e *ObserveError) WithLocation(file string, line int) *ObserveError {
	e.Location = &Location{File: file, Line: line}
	if line > 0 {
		e.Context = readContextLines(file, line, 5)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ObserveError) WithSuggestion(s string) *ObserveError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *ObserveError) WithDetail(d string) *ObserveError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ObserveError) Wrap(err error) *ObserveError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates an ObserveError from a registered error code.
func New(code string) *ObserveError {
	template, ok := registry[code]
	if !ok {
		return &ObserveError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ObserveError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new ObserveError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ObserveError {
	return &ObserveError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an ObserveError.
func FromError(err error, code string) *ObserveError {
	if err == nil {
		return nil
	}
	var oe *ObserveError
	if stderrors.As(err, &oe) {
		return oe
	}
	return New(code).Wrap(err)
}

// Classify maps errors returned by the library packages to their codes.
// Unrecognised errors are returned as E100.
func Classify(err error) *ObserveError {
	if err == nil {
		return nil
	}
	var oe *ObserveError
	if stderrors.As(err, &oe) {
		return oe
	}

	switch {
	case stderrors.Is(err, container.ErrKeyNotFound):
		return New("E101").Wrap(err)
	case stderrors.Is(err, listener.ErrListenerPanic):
		e := New("E102").Wrap(err)
		if n := len(listener.Failures(err)); n > 1 {
			e.Message = fmt.Sprintf("%d listeners panicked", n)
		}
		return e
	case stderrors.Is(err, container.ErrTypeMismatch):
		return New("E104").Wrap(err)
	case stderrors.Is(err, value.ErrUnknownMode):
		return New("E202").Wrap(err)
	}
	return New("E100").Wrap(err)
}
