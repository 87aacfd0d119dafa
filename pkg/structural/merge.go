package structural

import "reflect"

// Assign copies every key of the record src into the record dst, overwriting
// keys that dst already holds. Keys of dst that src does not mention are left
// untouched. It is a shallow copy: nested records are assigned, not merged.
//
// Assign reports false and leaves dst unchanged when either argument is not a
// record or when the key or element types of src cannot be stored in dst.
func Assign(dst, src any) bool {
	d, s := unwrap(reflect.ValueOf(dst)), unwrap(reflect.ValueOf(src))
	if !isRecord(d) || !isRecord(s) {
		return false
	}
	dt, st := d.Type(), s.Type()
	if !st.Key().AssignableTo(dt.Key()) || !st.Elem().AssignableTo(dt.Elem()) {
		return false
	}

	iter := s.MapRange()
	for iter.Next() {
		d.SetMapIndex(iter.Key(), iter.Value())
	}
	return true
}

// Clone returns a shallow copy of a map or slice so that later in-place writes to
// the original do not show through the copy. Any other value, including nil maps
// and slices, is returned as is.
func Clone(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return v
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}
	return v
}
