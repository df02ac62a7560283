// Package handler dispatches transport-agnostic operation descriptors to
// stores resolved through the dependency registry.
//
// An [Op] names a verb, a target store, and optionally a key and entity
// body. [Handler.Handle] resolves the target, invokes the matching store
// method, and maps the outcome to a [Response]:
//
//	success            -> StatusOK
//	store.ErrNotFound  -> StatusNotFound
//	store.ErrDuplicateKey -> StatusConflict
//	malformed op, unknown target, store.ErrEmptyKey -> StatusBadRequest
//
// Any other error is infrastructure failure (e.g. a DynamoDB call failed)
// and is returned to the caller instead of being mapped to a status.
//
// The bundled transports (gateway, internal/server) build ops with
// [OpForRoute] and translate statuses with [StatusCode]; the handler itself
// never touches a wire format.
package handler
