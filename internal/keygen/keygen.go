// Package keygen provides key generation for store-assigned entity keys.
package keygen

import "github.com/google/uuid"

// New returns a new random entity key.
// Keys are UUIDv4 strings, e.g. "2b1c6f2e-6f1a-4b9e-8a3d-0c5b7e9d1f24".
func New() string {
	return uuid.NewString()
}
