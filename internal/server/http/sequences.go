package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/signbridge/internal/composer"
	"github.com/ekisa-team/signbridge/internal/service"
)

type (
	// ComposeRequestDTO is the request body for the Compose operation.
	ComposeRequestDTO struct {
		Paths     []string `json:"paths" minItems:"1" maxItems:"256" doc:"Library clip paths in playback order"`
		Crossfade bool     `json:"crossfade,omitempty"`
		Force     bool     `json:"force,omitempty"`
	}

	// EvictResponseDTO is the response body for the Evict operation.
	EvictResponseDTO struct {
		Removed int    `json:"removed"`
		MaxAge  string `json:"max_age"`
	}
)

type (
	// ComposeInput is the huma input for the Compose operation.
	ComposeInput struct {
		Body ComposeRequestDTO
	}

	// ComposeOutput is the huma output for the Compose operation.
	ComposeOutput struct {
		Body *composer.Result
	}

	// EvictInput is the huma input for the Evict operation.
	EvictInput struct {
		MaxAge string `query:"max_age" doc:"Go duration, e.g. 168h. Empty uses the configured default."`
	}

	// EvictOutput is the huma output for the Evict operation.
	EvictOutput struct {
		Body EvictResponseDTO
	}
)

// SequencesHandler handles HTTP requests for composed sequences.
type SequencesHandler struct {
	service *service.Signs
	maxAge  time.Duration
}

// NewSequencesHandler creates a new SequencesHandler instance.
func NewSequencesHandler(api huma.API, svc *service.Signs, defaultMaxAge time.Duration) *SequencesHandler {
	h := &SequencesHandler{service: svc, maxAge: defaultMaxAge}

	huma.Register(api, huma.Operation{
		OperationID: "compose-sequence",
		Method:      http.MethodPost,
		Path:        "/v1/sequences",
		Summary:     "Stitch clips into one sequence",
		Tags:        []string{"sequences"},
	}, h.handleCompose)

	huma.Register(api, huma.Operation{
		OperationID: "evict-sequences",
		Method:      http.MethodDelete,
		Path:        "/v1/sequences",
		Summary:     "Delete cached sequences older than max_age",
		Tags:        []string{"sequences"},
	}, h.handleEvict)

	return h
}

// handleCompose handles the compose-sequence operation.
func (h *SequencesHandler) handleCompose(ctx context.Context, input *ComposeInput) (*ComposeOutput, error) {
	res, err := h.service.Compose(ctx, input.Body.Paths, composer.Options{
		Crossfade: input.Body.Crossfade,
		Force:     input.Body.Force,
	})
	if err != nil {
		if errors.Is(err, service.ErrOutsideLibrary) {
			return nil, huma.Error422UnprocessableEntity("paths must be library clips", err)
		}
		if errors.Is(err, composer.ErrUnavailable) {
			return nil, huma.Error503ServiceUnavailable("sequence unavailable", err)
		}
		return nil, huma.Error500InternalServerError("failed to compose sequence", err)
	}
	return &ComposeOutput{Body: res}, nil
}

// handleEvict handles the evict-sequences operation.
func (h *SequencesHandler) handleEvict(_ context.Context, input *EvictInput) (*EvictOutput, error) {
	maxAge := h.maxAge
	if input.MaxAge != "" {
		d, err := time.ParseDuration(input.MaxAge)
		if err != nil || d <= 0 {
			return nil, huma.Error400BadRequest("max_age must be a positive duration", err)
		}
		maxAge = d
	}

	removed, err := h.service.Evict(maxAge)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to evict sequences", err)
	}
	return &EvictOutput{Body: EvictResponseDTO{Removed: removed, MaxAge: maxAge.String()}}, nil
}
