// Package registry provides a minimal dependency container with named,
// cached service construction.
//
// The registry replaces hidden, scan-based wiring with two explicit calls:
// [Registry.Register] binds a logical name to a factory, and
// [Registry.Resolve] constructs the instance on first use and caches it.
// Services are singletons by default; construction order is the order of
// first resolution, which makes the object graph deterministic and
// inspectable via [Registry.ConstructionOrder].
//
// Factories receive the registry and may resolve their own dependencies
// through it:
//
//	reg := registry.New()
//	reg.Register("journal", func(r *registry.Registry) (any, error) {
//	    return store.NewMemoryStore(store.DefaultConfig()), nil
//	})
//	reg.Register("handler", func(r *registry.Registry) (any, error) {
//	    return handler.New(r), nil
//	})
//
// Register all services once at process initialization, then resolve.
// Resolution of already-constructed services is safe for concurrent use;
// first resolutions are expected to happen during single-goroutine startup.
//
// The package defines domain-specific errors:
//
//   - [ErrAlreadyRegistered] - a name was registered twice
//   - [ErrUnknownDependency] - resolving a name with no registered factory
//   - [ErrCircularDependency] - factories form a construction cycle
package registry
