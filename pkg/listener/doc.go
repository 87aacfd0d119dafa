// Package listener provides an ordered, re-entrant registry of callbacks.
//
// A Registry holds registrations in the order they were added. Dispatch invokes
// them synchronously on the caller's goroutine:
//
//	var reg listener.Registry[string]
//	h := reg.Add(func(s string) { fmt.Println("got", s) })
//	reg.Once(func(s string) { fmt.Println("first only", s) })
//	reg.Dispatch("a") // got a, first only a
//	reg.Dispatch("b") // got b
//	reg.Remove(h)
//
// Every registration gets its own Handle, so adding the same function twice
// yields two registrations that are removed independently.
//
// # Dispatch semantics
//
// Dispatch works on a snapshot of the registrations taken when it starts.
// Listeners may add, remove, or dispatch again from inside a callback:
//   - registrations added during a dispatch are not invoked by it
//   - a registration removed before its turn is skipped
//   - a Once registration is removed right before it runs, so nested dispatches
//     never see it
//
// A listener that panics does not stop the others. Each panic is recovered into
// a *Failure and all failures of one pass are returned together as a
// *DispatchError once every listener has had its turn.
package listener
