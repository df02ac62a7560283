package handler

import (
	"context"
	"errors"

	"github.com/jacentio/lattice/registry"
	"github.com/jacentio/lattice/store"
)

// Handler dispatches operation descriptors to stores resolved through a
// registry. Handlers are stateless per call and safe for concurrent use.
type Handler struct {
	reg *registry.Registry
}

// New creates a Handler backed by reg.
func New(reg *registry.Registry) *Handler {
	return &Handler{reg: reg}
}

// Handle executes op against its target store and maps the outcome to a
// response descriptor. Domain errors become response statuses; any other
// error is returned as-is for the transport to report as a server failure.
func (h *Handler) Handle(ctx context.Context, op Op) (Response, error) {
	if op.Target == "" {
		return Response{Status: StatusBadRequest}, nil
	}

	st, err := registry.As[store.Store](h.reg, op.Target)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownDependency) {
			return Response{Status: StatusBadRequest}, nil
		}
		return Response{}, err
	}

	switch op.Verb {
	case VerbCreate:
		if op.Body == nil {
			return Response{Status: StatusBadRequest}, nil
		}
		e, err := st.Insert(ctx, *op.Body)
		return entityResponse(e, err)

	case VerbRead:
		if op.Key == "" {
			return Response{Status: StatusBadRequest}, nil
		}
		e, err := st.Get(ctx, op.Key)
		return entityResponse(e, err)

	case VerbList:
		entities, err := st.List(ctx)
		if err != nil {
			return Response{}, err
		}
		if entities == nil {
			entities = []store.Entity{}
		}
		return Response{Status: StatusOK, Entities: entities}, nil

	case VerbUpdate:
		if op.Key == "" || op.Body == nil {
			return Response{Status: StatusBadRequest}, nil
		}
		// A body key, when present, must agree with the op key.
		if op.Body.Key != "" && op.Body.Key != op.Key {
			return Response{Status: StatusBadRequest}, nil
		}
		e, err := st.Update(ctx, op.Key, *op.Body)
		return entityResponse(e, err)

	case VerbDelete:
		if op.Key == "" {
			return Response{Status: StatusBadRequest}, nil
		}
		e, err := st.Delete(ctx, op.Key)
		return entityResponse(e, err)
	}

	return Response{Status: StatusBadRequest}, nil
}

// entityResponse maps a single-entity store result to a response.
func entityResponse(e store.Entity, err error) (Response, error) {
	switch {
	case err == nil:
		return Response{Status: StatusOK, Entity: &e}, nil
	case errors.Is(err, store.ErrNotFound):
		return Response{Status: StatusNotFound}, nil
	case errors.Is(err, store.ErrDuplicateKey):
		return Response{Status: StatusConflict}, nil
	case errors.Is(err, store.ErrEmptyKey):
		return Response{Status: StatusBadRequest}, nil
	}
	return Response{}, err
}
