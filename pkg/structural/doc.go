// Package structural implements the value comparisons and record merges used by
// observable values.
//
// Equal is a structural comparison: two values are equal when they have the same
// type and the same contents, regardless of identity. A freshly allocated
// []int{1, 2, 3} is equal to another []int{1, 2, 3}.
//
// PartialEqual relaxes Equal for records (non-nil maps). Only keys present in
// both records take part in the comparison, so a patch that restates a subset of
// the current fields compares equal to the current record:
//
//	current := map[string]any{"name": "John", "age": 12}
//	structural.PartialEqual(current, map[string]any{"age": 12}) // true
//	structural.PartialEqual(current, map[string]any{"age": 13}) // false
//
// Assign and Clone are the shallow record operations that back merge writes.
//
// # Limitations
//
// Equal is built on go-cmp, which detects cycles. PartialEqual walks nested
// records itself, so a record that contains itself may recurse without bound.
package structural
