package registry

import "errors"

var (
	// ErrAlreadyRegistered is returned when a name is registered a second time.
	// Re-registration is never an implicit override.
	ErrAlreadyRegistered = errors.New("lattice: dependency already registered")

	// ErrUnknownDependency is returned when resolving a name with no registered factory.
	ErrUnknownDependency = errors.New("lattice: unknown dependency")

	// ErrCircularDependency is returned when factories form a construction cycle.
	ErrCircularDependency = errors.New("lattice: circular dependency")
)
