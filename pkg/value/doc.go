// Package value provides Value, a single observable slot.
//
// A Value holds one piece of state and notifies its listeners whenever a write
// actually changes that state:
//
//	name := value.New("John")
//	name.On(func(old, new string) {
//	    fmt.Printf("%s -> %s\n", old, new)
//	})
//	name.Set("John") // equal, nothing happens
//	name.Set("Jane") // prints "John -> Jane"
//
// Listeners run synchronously on the goroutine that called Set, after the new
// state has been stored and before Set returns.
//
// # Write modes
//
// ModeReplace (the default) stores the written value whenever it is not
// structurally equal to the current one. See structural.Equal.
//
// ModeMerge treats records (non-nil maps) as patches. A write is ignored when
// every key it shares with the current record already holds an equal value;
// otherwise its keys are assigned into the current record in place and keys it
// does not mention are kept:
//
//	user := value.New(map[string]any{"name": "John", "age": 12}, value.WithMode(value.ModeMerge))
//	user.Set(map[string]any{"age": 12}) // no change
//	user.Set(map[string]any{"age": 13}) // {"name": "John", "age": 13}
//
// Since only shared keys are compared, a patch that introduces nothing but new
// keys is also ignored. Values that are not records are replaced exactly as in
// ModeReplace.
//
// # Equality
//
// The comparison can be swapped at construction with WithEqual. In ModeMerge
// the custom function replaces both the partial and the full comparison.
package value
