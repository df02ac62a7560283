package store

import "context"

// Entity is a uniquely keyed data record.
type Entity struct {
	// Key identifies the entity within a Store.
	Key string `json:"key"`

	// Fields is the open set of named attributes carried by the entity.
	// Field values are replaced wholesale on update, never merged.
	Fields map[string]any `json:"fields"`
}

// clone returns a copy of the entity with its own fields map.
// Nested values are shared; stores treat field values as immutable.
func (e Entity) clone() Entity {
	if e.Fields == nil {
		return Entity{Key: e.Key}
	}
	fields := make(map[string]any, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	return Entity{Key: e.Key, Fields: fields}
}

// Store is a keyed collection of entities.
//
// Implementations must be safe for concurrent use; each method is an atomic
// unit. In-memory implementations ignore the context, while implementations
// backed by a remote database use it for cancellation. No operation carries
// an implied timeout; callers impose their own deadline via ctx.
type Store interface {
	// Insert adds a new entity and returns the stored copy.
	// Returns ErrDuplicateKey if an entity with the same key already exists.
	// When the store assigns keys, an empty incoming key is replaced by a
	// generated one; otherwise an empty key yields ErrEmptyKey.
	Insert(ctx context.Context, e Entity) (Entity, error)

	// Get returns the entity stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (Entity, error)

	// List returns a snapshot of all entities in insertion order.
	// The snapshot is a copy; later store mutations do not affect it.
	List(ctx context.Context) ([]Entity, error)

	// Update replaces the entity stored under key wholesale and returns the
	// stored copy. Returns ErrNotFound if the key is absent.
	Update(ctx context.Context, key string, e Entity) (Entity, error)

	// Delete removes and returns the entity stored under key.
	// Returns ErrNotFound if the key is absent.
	Delete(ctx context.Context, key string) (Entity, error)
}
