package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vango-dev/observe/pkg/container"
	"github.com/vango-dev/observe/pkg/value"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted scenarios",
		Long: `Run a few scripted writes and print every dispatch.

Scenarios:
  string     a string value ignores equal writes
  slice      slices compare by content, not identity
  merge      a record in merge mode keeps the keys a patch leaves out
  container  listeners of one key never see writes to another`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}
}

// runDemo writes the scenario transcript to out.
func runDemo(out io.Writer) error {
	scenarios := []struct {
		name string
		run  func(io.Writer) error
	}{
		{"string", demoString},
		{"slice", demoSlice},
		{"merge", demoMerge},
		{"container", demoContainer},
	}
	for _, s := range scenarios {
		fmt.Fprintf(out, "== %s\n", s.name)
		if err := s.run(out); err != nil {
			return err
		}
	}
	return nil
}

func printChange[T any](out io.Writer, name string) value.Listener[T] {
	return func(old, new T) {
		fmt.Fprintf(out, "  %s: %s -> %s\n", name, encode(old), encode(new))
	}
}

func demoSet[T any](out io.Writer, v *value.Value[T], next T) error {
	fmt.Fprintf(out, "set %s %s\n", v.Name(), encode(next))
	return v.Set(next)
}

func demoString(out io.Writer) error {
	name := value.New("John", value.WithName("name"))
	name.On(printChange[string](out, "name"))

	for _, next := range []string{"John", "Jane"} {
		if err := demoSet(out, name, next); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "get name %s\n", encode(name.Get()))
	return nil
}

func demoSlice(out io.Writer) error {
	nums := value.New([]int{1, 2, 3}, value.WithName("nums"))
	nums.On(printChange[[]int](out, "nums"))

	for _, next := range [][]int{{1, 2, 3}, {1, 2, 3, 4}} {
		if err := demoSet(out, nums, next); err != nil {
			return err
		}
	}
	return nil
}

func demoMerge(out io.Writer) error {
	user := value.New(map[string]any{"name": "John", "age": 12},
		value.WithName("user"), value.WithMode(value.ModeMerge))
	user.On(printChange[map[string]any](out, "user"))

	for _, next := range []map[string]any{{"age": 12}, {"age": 13}} {
		if err := demoSet(out, user, next); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "get user %s\n", encode(user.Get()))
	return nil
}

func demoContainer(out io.Writer) error {
	c := container.New(map[string]any{"name": "John", "age": 12})
	for _, key := range c.Keys() {
		if _, err := c.AddEventListener(key, printChange[any](out, key)); err != nil {
			return err
		}
	}

	writes := []struct {
		key string
		v   any
	}{
		{"age", 13},
		{"name", "John"},
		{"name", "Jane"},
	}
	for _, w := range writes {
		fmt.Fprintf(out, "set %s %s\n", w.key, encode(w.v))
		if err := c.Set(w.key, w.v); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "snapshot %s\n", encode(c.Snapshot()))
	return nil
}
