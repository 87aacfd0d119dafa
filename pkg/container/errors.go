package container

import "errors"

var (
	// ErrKeyNotFound is returned for keys that were not given to New.
	ErrKeyNotFound = errors.New("observe: key not found")

	// ErrTypeMismatch is returned by the typed accessors when the stored value
	// does not have the key's type.
	ErrTypeMismatch = errors.New("observe: type mismatch")
)
