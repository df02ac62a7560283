package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of [Store].
//
// Entities live in a map guarded by a mutex; each operation holds the lock
// for its full duration, so operations are atomic with respect to each
// other. List order is insertion order: updates keep an entity's position,
// deletes remove it.
//
// State spans the life of the process. Use dynamostore for persistence.
type MemoryStore struct {
	mu       sync.Mutex
	config   Config
	entities map[string]Entity
	order    []string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory [Store].
func NewMemoryStore(config Config) *MemoryStore {
	config.Validate()
	return &MemoryStore{
		config:   config,
		entities: make(map[string]Entity),
	}
}

// Insert adds a new entity. The stored value is a copy of e; the caller's
// fields map is not retained.
func (m *MemoryStore) Insert(_ context.Context, e Entity) (Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, err := m.config.ResolveKey(e.Key)
	if err != nil {
		return Entity{}, err
	}
	if _, exists := m.entities[key]; exists {
		return Entity{}, ErrDuplicateKey
	}

	stored := e.clone()
	stored.Key = key
	m.entities[key] = stored
	m.order = append(m.order, key)
	return stored.clone(), nil
}

// Get returns the entity stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) (Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[key]
	if !ok {
		return Entity{}, ErrNotFound
	}
	return e.clone(), nil
}

// List returns a snapshot of all entities in insertion order.
func (m *MemoryStore) List(_ context.Context) ([]Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]Entity, 0, len(m.order))
	for _, key := range m.order {
		snapshot = append(snapshot, m.entities[key].clone())
	}
	return snapshot, nil
}

// Update replaces the entity stored under key wholesale. The entity keeps
// its original position in List order.
func (m *MemoryStore) Update(_ context.Context, key string, e Entity) (Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key == "" {
		return Entity{}, ErrEmptyKey
	}
	if _, ok := m.entities[key]; !ok {
		return Entity{}, ErrNotFound
	}

	stored := e.clone()
	stored.Key = key
	m.entities[key] = stored
	return stored.clone(), nil
}

// Delete removes and returns the entity stored under key.
func (m *MemoryStore) Delete(_ context.Context, key string) (Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[key]
	if !ok {
		return Entity{}, ErrNotFound
	}
	delete(m.entities, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return e, nil
}

// Len returns the number of stored entities.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entities)
}
