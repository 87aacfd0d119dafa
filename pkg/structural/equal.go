package structural

import (
	"math"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// equalOptions make cmp.Equal behave like a plain structural comparison:
// unexported fields take part, nil and empty collections match, and NaN
// equals NaN.
var equalOptions = cmp.Options{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
	cmpopts.EquateNaNs(),
}

// Equal reports whether a and b are structurally equal.
//
// Scalars compare by value, slices and arrays element by element, maps by key
// set and values, structs field by field (unexported fields included), and
// pointers and interfaces by what they refer to. Values of different types are
// never equal. A nil pointer or interface is never equal to a non-nil one.
// Nil and empty slices (or maps) are equal since neither has elements.
// Floating point NaN is equal to NaN. Funcs are equal only when both are nil.
func Equal(a, b any) bool {
	// Fast paths for the common comparable kinds.
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && (av == bv || math.IsNaN(av) && math.IsNaN(bv))
	}
	return cmp.Equal(a, b, equalOptions)
}

// PartialEqual reports whether a and b agree on every key they share.
//
// When both arguments are records (non-nil maps with the same key type), keys
// present on only one side are ignored and shared keys are compared with
// PartialEqual again, so nested records are compared partially as well. Two
// records without any shared key are partially equal. Every other pair of values
// is compared with Equal.
func PartialEqual(a, b any) bool {
	return partialValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func partialValue(a, b reflect.Value) bool {
	a, b = unwrap(a), unwrap(b)
	if !isRecord(a) || !isRecord(b) || a.Type().Key() != b.Type().Key() {
		return Equal(iface(a), iface(b))
	}

	iter := a.MapRange()
	for iter.Next() {
		bv := b.MapIndex(iter.Key())
		if !bv.IsValid() {
			continue
		}
		if !partialValue(iter.Value(), bv) {
			return false
		}
	}
	return true
}

// IsRecord reports whether v is a record: a non-nil map.
func IsRecord(v any) bool {
	return isRecord(unwrap(reflect.ValueOf(v)))
}

func isRecord(v reflect.Value) bool {
	return v.IsValid() && v.Kind() == reflect.Map && !v.IsNil()
}

// unwrap strips non-nil interface layers, which is how values stored in a
// map[string]any are surfaced by reflection.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// iface returns the value held by v, or nil for the zero Value.
func iface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}
