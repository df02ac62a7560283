// Package gateway adapts Amazon API Gateway proxy events to lattice
// operations.
//
// The handler is designed to run as an AWS Lambda function behind an HTTP
// API. It translates each event into an operation descriptor, hands it to
// the core handler, and renders the response descriptor back as a proxy
// response. All protocol work is done by API Gateway; this package only
// maps shapes.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/lattice/handler"
	"github.com/jacentio/lattice/store"
)

// Handler translates API Gateway events into core operations.
type Handler struct {
	core   *handler.Handler
	logger *slog.Logger
}

// NewHandler creates a new gateway handler.
func NewHandler(core *handler.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		core:   core,
		logger: logger,
	}
}

// HandleRequest processes a single API Gateway HTTP event. This function is
// designed to be passed to lambda.Start.
func (h *Handler) HandleRequest(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := event.RequestContext.HTTP.Method
	path := event.RawPath

	op, err := handler.OpForRoute(method, path)
	if err != nil {
		h.logger.Info("unroutable request",
			"method", method,
			"path", path,
		)
		return errorResponse(handler.StatusBadRequest), nil
	}

	if op.Verb == handler.VerbCreate || op.Verb == handler.VerbUpdate {
		var body store.Entity
		if err := json.Unmarshal([]byte(event.Body), &body); err != nil {
			h.logger.Info("malformed request body",
				"method", method,
				"path", path,
				"error", err,
			)
			return errorResponse(handler.StatusBadRequest), nil
		}
		op.Body = &body
	}

	resp, err := h.core.Handle(ctx, op)
	if err != nil {
		// Infrastructure failure; let Lambda record and retry per its policy.
		h.logger.Error("operation failed",
			"verb", op.Verb,
			"target", op.Target,
			"key", op.Key,
			"error", err,
		)
		return events.APIGatewayV2HTTPResponse{}, err
	}

	h.logger.Info("operation completed",
		"verb", op.Verb,
		"target", op.Target,
		"key", op.Key,
		"status", resp.Status,
	)

	code := handler.StatusCode(resp.Status)
	if op.Verb == handler.VerbCreate && resp.Status == handler.StatusOK {
		code = 201
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}, nil
}

// errorResponse renders a bare status as a proxy response.
func errorResponse(status handler.Status) events.APIGatewayV2HTTPResponse {
	payload, _ := json.Marshal(handler.Response{Status: status})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: handler.StatusCode(status),
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}
}
