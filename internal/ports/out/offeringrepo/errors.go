package offeringrepo

import "errors"

var (
	// ErrNotFound indicates the requested offering does not exist.
	ErrNotFound = errors.New("offering not found")

	// ErrAlreadyExists indicates an offering already exists with the provided ID.
	ErrAlreadyExists = errors.New("offering already exists")
)
