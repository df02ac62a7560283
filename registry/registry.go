package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a service instance. Factories may resolve their own
// dependencies through the registry they are given.
type Factory func(r *Registry) (any, error)

// Registry holds registered factories and the singleton instances they
// produce.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]any
	building  map[string]bool
	order     []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]any),
		building:  make(map[string]bool),
	}
}

// Register binds a logical name to a factory.
// Returns ErrAlreadyRegistered if the name is already bound.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("lattice: dependency name is empty")
	}
	if factory == nil {
		return fmt.Errorf("lattice: factory for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	r.factories[name] = factory
	return nil
}

// Resolve returns the singleton instance bound to name, constructing it via
// the registered factory on first resolution. Returns ErrUnknownDependency
// if no factory was registered, ErrCircularDependency if the factory graph
// cycles back to name during construction.
func (r *Registry) Resolve(name string) (any, error) {
	r.mu.Lock()
	if instance, ok := r.instances[name]; ok {
		r.mu.Unlock()
		return instance, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownDependency, name)
	}
	if r.building[name] {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrCircularDependency, name)
	}
	r.building[name] = true
	// The lock is released while the factory runs so it can resolve its own
	// dependencies through this registry.
	r.mu.Unlock()

	instance, err := factory(r)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.building, name)
	if err != nil {
		return nil, fmt.Errorf("lattice: construct %q: %w", name, err)
	}
	r.instances[name] = instance
	r.order = append(r.order, name)
	return instance, nil
}

// MustResolve is like Resolve but panics on error.
// Intended for process initialization where a missing dependency is fatal.
func (r *Registry) MustResolve(name string) any {
	instance, err := r.Resolve(name)
	if err != nil {
		panic(err)
	}
	return instance
}

// Names returns all registered names in lexical order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConstructionOrder returns the names of constructed services in the order
// their factories completed.
func (r *Registry) ConstructionOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	order := make([]string, len(r.order))
	copy(order, r.order)
	return order
}

// As resolves name and asserts the instance to type T.
func As[T any](r *Registry, name string) (T, error) {
	var zero T
	instance, err := r.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("lattice: dependency %q has type %T", name, instance)
	}
	return typed, nil
}
