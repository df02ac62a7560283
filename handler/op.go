package handler

import (
	"fmt"
	"strings"

	"github.com/jacentio/lattice/store"
)

// Verb identifies a CRUD operation.
type Verb string

const (
	VerbCreate Verb = "CREATE"
	VerbRead   Verb = "READ"
	VerbList   Verb = "LIST"
	VerbUpdate Verb = "UPDATE"
	VerbDelete Verb = "DELETE"
)

// Op is the abstract representation of a client request, independent of
// transport.
type Op struct {
	// Verb selects the store operation.
	Verb Verb `json:"verb"`

	// Target is the logical store name in the registry.
	Target string `json:"target"`

	// Key is the entity key. Required for READ, UPDATE and DELETE.
	Key string `json:"key,omitempty"`

	// Body is the entity payload. Required for CREATE and UPDATE.
	Body *store.Entity `json:"body,omitempty"`
}

// Status classifies a handler outcome.
type Status string

const (
	StatusOK         Status = "ok"
	StatusNotFound   Status = "not_found"
	StatusConflict   Status = "conflict"
	StatusBadRequest Status = "bad_request"
)

// Response is the abstract representation of a handler result, independent
// of transport. Exactly one of Entity and Entities is set on success:
// Entities for LIST, Entity for everything else.
type Response struct {
	Status   Status         `json:"status"`
	Entity   *store.Entity  `json:"entity,omitempty"`
	Entities []store.Entity `json:"entities,omitempty"`
}

// StatusCode returns the conventional HTTP status code for a handler
// status, used by the bundled transports. CREATE success is 201; transports
// special-case that themselves.
func StatusCode(s Status) int {
	switch s {
	case StatusOK:
		return 200
	case StatusNotFound:
		return 404
	case StatusConflict:
		return 409
	case StatusBadRequest:
		return 400
	default:
		return 500
	}
}

// OpForRoute maps an HTTP method and path onto an operation descriptor.
// The body, if any, is left for the transport to attach. Routes:
//
//	POST   /{store}       -> CREATE
//	GET    /{store}       -> LIST
//	GET    /{store}/{key} -> READ
//	PUT    /{store}/{key} -> UPDATE
//	DELETE /{store}/{key} -> DELETE
//
// Any other shape is an error.
func OpForRoute(method, path string) (Op, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
		return Op{}, fmt.Errorf("lattice: no route for path %q", path)
	}

	target := parts[0]
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch {
	case method == "POST" && key == "":
		return Op{Verb: VerbCreate, Target: target}, nil
	case method == "GET" && key == "":
		return Op{Verb: VerbList, Target: target}, nil
	case method == "GET":
		return Op{Verb: VerbRead, Target: target, Key: key}, nil
	case method == "PUT" && key != "":
		return Op{Verb: VerbUpdate, Target: target, Key: key}, nil
	case method == "DELETE" && key != "":
		return Op{Verb: VerbDelete, Target: target, Key: key}, nil
	}
	return Op{}, fmt.Errorf("lattice: no route for %s %s", method, path)
}
