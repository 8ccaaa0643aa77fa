package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type (
	// HealthResponseDTO is the response body for the Health operation.
	HealthResponseDTO struct {
		Status  string `json:"status"`
		Version string `json:"version,omitempty"`
	}

	// HealthOutput is the huma output for the Health operation.
	HealthOutput struct {
		Body HealthResponseDTO
	}
)

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	version string
	ready   func() bool
}

// NewHealthHandler creates a new HealthHandler instance. A nil ready func
// always reports ready.
func NewHealthHandler(api huma.API, version string, ready func() bool) *HealthHandler {
	h := &HealthHandler{version: version, ready: ready}

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Report service health",
		Tags:        []string{"health"},
	}, h.handleHealth)

	return h
}

// handleHealth handles the health operation.
func (h *HealthHandler) handleHealth(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	if h.ready != nil && !h.ready() {
		return nil, huma.Error503ServiceUnavailable("library not loaded")
	}
	return &HealthOutput{Body: HealthResponseDTO{Status: "ok", Version: h.version}}, nil
}
