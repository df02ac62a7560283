package store

import "errors"

var (
	// ErrNotFound is returned when no entity with the requested key exists.
	ErrNotFound = errors.New("lattice: entity not found")

	// ErrDuplicateKey is returned when inserting an entity whose key is already taken.
	ErrDuplicateKey = errors.New("lattice: duplicate entity key")

	// ErrEmptyKey is returned when an operation requires a key and none was supplied.
	ErrEmptyKey = errors.New("lattice: entity key is empty")
)
