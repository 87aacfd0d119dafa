package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vango-dev/observe/internal/config"
	"github.com/vango-dev/observe/internal/errors"
	"github.com/vango-dev/observe/pkg/container"
	"github.com/vango-dev/observe/pkg/listener"
)

const helpText = `Commands:
  get KEY          print the value of KEY
  set KEY VALUE    write VALUE (JSON) to KEY
  snapshot         print every key and value
  keys             list the keys
  watch KEY        print every change of KEY
  once KEY         print the next change of KEY
  unwatch KEY      stop printing changes of KEY
  help             show this help
  quit             leave`

// session executes REPL commands against a container.
type session struct {
	c      *container.Container
	out    io.Writer
	prompt string

	mu      sync.Mutex
	watches map[string][]listener.Handle
}

func newSession(c *container.Container, out io.Writer) *session {
	return &session{
		c:       c,
		out:     out,
		watches: make(map[string][]listener.Handle),
	}
}

// Run reads commands from in until quit, EOF or ctx is done.
func (s *session) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		s.printPrompt()
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := s.Exec(line)
			if err != nil {
				s.printf("%s\n", errors.Classify(err).FormatCompact())
			}
			if quit {
				return nil
			}
		}
	}
}

func (s *session) printPrompt() {
	if s.prompt != "" {
		s.printf("%s", s.prompt)
	}
}

// printf serializes output from commands and listeners.
func (s *session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// Exec runs one command line. It reports whether the session should end.
func (s *session) Exec(line string) (bool, error) {
	cmd, rest := splitWord(strings.TrimSpace(line))
	key, arg := splitWord(rest)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		s.printf("%s\n", helpText)
		return false, nil
	case "keys":
		s.printf("%s\n", strings.Join(s.c.Keys(), " "))
		return false, nil
	case "snapshot":
		s.printf("%s\n", encode(s.c.Snapshot()))
		return false, nil
	}

	if key == "" {
		return false, errors.New("E302").
			WithSuggestion(fmt.Sprintf("Usage: %s KEY", cmd))
	}

	switch cmd {
	case "get":
		v, err := s.c.Get(key)
		if err != nil {
			return false, s.keyError(key, err)
		}
		s.printf("%s\n", encode(v))
	case "set":
		if arg == "" {
			return false, errors.New("E302").
				WithKey(key).
				WithSuggestion("Usage: set KEY VALUE")
		}
		v, err := config.ParseValue(arg)
		if err != nil {
			return false, err
		}
		if err := s.c.Set(key, v); err != nil {
			return false, s.keyError(key, err)
		}
	case "watch", "once":
		if err := s.watch(key, cmd == "once"); err != nil {
			return false, s.keyError(key, err)
		}
		s.printf("watching %s\n", key)
	case "unwatch":
		n, err := s.unwatch(key)
		if err != nil {
			return false, s.keyError(key, err)
		}
		s.printf("removed %d listeners from %s\n", n, key)
	default:
		return false, errors.New("E301").
			WithDetail(fmt.Sprintf("Unknown command %q.", cmd)).
			WithSuggestion("Type 'help' for a list of commands")
	}
	return false, nil
}

func (s *session) watch(key string, once bool) error {
	show := func(old, new any) {
		s.printf("%s: %s -> %s\n", key, encode(old), encode(new))
	}

	var (
		h   listener.Handle
		err error
	)
	if once {
		h, err = s.c.Once(key, show)
	} else {
		h, err = s.c.AddEventListener(key, show)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.watches[key] = append(s.watches[key], h)
	s.mu.Unlock()
	return nil
}

func (s *session) unwatch(key string) (int, error) {
	cell, err := s.c.Cell(key)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	handles := s.watches[key]
	delete(s.watches, key)
	s.mu.Unlock()

	removed := 0
	for _, h := range handles {
		// Fired once-listeners are already gone.
		if cell.Off(h) {
			removed++
		}
	}
	return removed, nil
}

func (s *session) keyError(key string, err error) error {
	e := errors.Classify(err).WithKey(key)
	if e.Code == "E101" {
		e.WithSuggestion("Known keys: " + strings.Join(s.c.Keys(), ", "))
	}
	return e
}

func splitWord(s string) (word, rest string) {
	word, rest, _ = strings.Cut(s, " ")
	return word, strings.TrimSpace(rest)
}

// encode renders a value as compact JSON. Map keys come out sorted.
func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
