// Package store defines the entity model and keyed CRUD storage contract
// used throughout lattice, together with an in-memory implementation.
//
// Lattice is designed for applications that want a transport-agnostic CRUD
// core: entities go in and out of a [Store], and everything above it
// (request dispatch, HTTP, Lambda) is thin translation.
//
// # Entities
//
// An [Entity] is a uniquely keyed record with an open set of named fields:
//
//	e := store.Entity{
//	    Key:    "42",
//	    Fields: map[string]any{"title": "First entry", "content": "..."},
//	}
//
// Keys are unique within a Store. Updates replace the stored fields
// wholesale; there is no partial merge.
//
// # Implementations
//
// [MemoryStore] keeps entities in process memory, guarded by a mutex, and
// lists them in insertion order. The dynamostore package provides the same
// contract backed by a DynamoDB table for state that must outlive the
// process.
//
// # Key Assignment
//
// By default callers supply entity keys. Enable [Config].AssignKeys to have
// the store generate a UUID key on insert when the incoming key is empty:
//
//	cfg := store.DefaultConfig()
//	cfg.AssignKeys = true
//	s := store.NewMemoryStore(cfg)
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrNotFound] - no entity with the requested key exists
//   - [ErrDuplicateKey] - insert collided with an existing key
//   - [ErrEmptyKey] - operation requires a key and none was supplied
package store
