// Package container groups observable values under a fixed set of keys.
//
// The key set is taken from the map given to New and never changes afterwards.
// Each key owns its own value.Value, so listeners registered on one key are
// never called for writes to another:
//
//	c := container.New(map[string]any{"name": "John", "age": 12})
//	c.AddEventListener("age", func(old, new any) {
//	    fmt.Println("age:", old, "->", new)
//	})
//	c.Set("name", "Jane") // no output
//	c.Set("age", 13)      // age: 12 -> 13
//
// Operations on a key that was not part of the initial map fail with
// ErrKeyNotFound.
//
// Key gives a typed view on a single key:
//
//	var Age = container.NewKey[int]("age")
//	n, err := container.Lookup(c, Age)
//	err = container.Store(c, Age, n+1)
package container
