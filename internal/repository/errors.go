package repository

import "errors"

var (
	// ErrNilID is returned when a required id argument is empty.
	ErrNilID = errors.New("nil id")
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint rejects the write.
	ErrAlreadyExists = errors.New("already exists")
)
