package signuprepo

import "errors"

var (
	// ErrNotFound indicates no active signup exists for the member/offering pair.
	ErrNotFound = errors.New("signup not found")

	// ErrAlreadyExists indicates a signup already exists with the provided ID.
	ErrAlreadyExists = errors.New("signup already exists")
)
