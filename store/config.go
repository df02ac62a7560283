package store

import "github.com/jacentio/lattice/internal/keygen"

// Config holds configuration shared by Store implementations.
type Config struct {
	// AssignKeys makes the store generate a key on Insert when the incoming
	// entity's key is empty. When false (the default), callers supply keys
	// and an empty key is rejected with ErrEmptyKey.
	AssignKeys bool

	// KeyFunc generates keys for AssignKeys mode.
	// Default: random UUID strings.
	KeyFunc func() string
}

// DefaultConfig returns the default configuration: caller-supplied keys.
func DefaultConfig() Config {
	return Config{
		AssignKeys: false,
		KeyFunc:    keygen.New,
	}
}

// Validate normalizes zero values in place.
// Store constructors call this; it is exported so implementations in other
// packages (e.g. dynamostore) can share it.
func (c *Config) Validate() {
	if c.KeyFunc == nil {
		c.KeyFunc = keygen.New
	}
}

// ResolveKey applies the key-assignment policy to an incoming entity key.
// It returns the key to store under, or ErrEmptyKey when the key is empty
// and the store does not assign keys.
func (c Config) ResolveKey(key string) (string, error) {
	if key != "" {
		return key, nil
	}
	if !c.AssignKeys {
		return "", ErrEmptyKey
	}
	return c.KeyFunc(), nil
}
