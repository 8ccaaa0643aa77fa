package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/signbridge/internal/composer"
	"github.com/ekisa-team/signbridge/internal/resolver"
	"github.com/ekisa-team/signbridge/internal/service"
)

type (
	// TokensRequestDTO is the request body of every token-based operation.
	TokensRequestDTO struct {
		Tokens []string `json:"tokens" minItems:"1" maxItems:"256" doc:"Sign tokens in signing order"`
	}

	// SequenceRequestDTO is the request body for the Sequence operation.
	SequenceRequestDTO struct {
		Tokens    []string `json:"tokens" minItems:"1" maxItems:"256"`
		Compose   bool     `json:"compose,omitempty" doc:"Stitch the clips when every sign has a video"`
		Crossfade bool     `json:"crossfade,omitempty"`
		Force     bool     `json:"force,omitempty" doc:"Ignore a cached composition"`
	}

	// ResolveResponseDTO is the response body for the Resolve operation.
	ResolveResponseDTO struct {
		Signs   []resolver.Descriptor `json:"signs"`
		Summary resolver.Summary      `json:"summary"`
		Total   int                   `json:"total"`
	}
)

type (
	// ResolveInput is the huma input for the Resolve operation.
	ResolveInput struct {
		Body TokensRequestDTO
	}

	// ResolveOutput is the huma output for the Resolve operation.
	ResolveOutput struct {
		Body ResolveResponseDTO
	}

	// SequenceInput is the huma input for the Sequence operation.
	SequenceInput struct {
		Body SequenceRequestDTO
	}

	// SequenceOutput is the huma output for the Sequence operation.
	SequenceOutput struct {
		Body *service.Sequence
	}

	// MarkupInput is the huma input for the Markup operation.
	MarkupInput struct {
		Body TokensRequestDTO
	}

	// MarkupOutput carries a raw SiGML document.
	MarkupOutput struct {
		ContentType string `header:"Content-Type"`
		Body        []byte
	}

	// CoverageOutput is the huma output for the Coverage operation.
	CoverageOutput struct {
		Body service.CoverageReport
	}
)

// SignsHandler handles HTTP requests for sign resolution and markup.
type SignsHandler struct {
	service *service.Signs
}

// NewSignsHandler creates a new SignsHandler instance.
func NewSignsHandler(api huma.API, svc *service.Signs) *SignsHandler {
	h := &SignsHandler{service: svc}

	huma.Register(api, huma.Operation{
		OperationID: "resolve-signs",
		Method:      http.MethodPost,
		Path:        "/v1/signs/resolve",
		Summary:     "Resolve tokens to video, markup or fingerspelling",
		Tags:        []string{"signs"},
	}, h.handleResolve)

	huma.Register(api, huma.Operation{
		OperationID: "sign-sequence",
		Method:      http.MethodPost,
		Path:        "/v1/signs/sequence",
		Summary:     "Resolve tokens and optionally stitch their videos",
		Tags:        []string{"signs"},
	}, h.handleSequence)

	huma.Register(api, huma.Operation{
		OperationID: "sign-markup",
		Method:      http.MethodPost,
		Path:        "/v1/signs/markup",
		Summary:     "Render tokens as a SiGML document for avatar playback",
		Tags:        []string{"signs"},
	}, h.handleMarkup)

	huma.Register(api, huma.Operation{
		OperationID: "sign-coverage",
		Method:      http.MethodGet,
		Path:        "/v1/signs/coverage",
		Summary:     "Report library coverage and resolution statistics",
		Tags:        []string{"signs"},
	}, h.handleCoverage)

	return h
}

// handleResolve handles the resolve-signs operation.
func (h *SignsHandler) handleResolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	descs := h.service.Resolve(ctx, input.Body.Tokens)
	return &ResolveOutput{
		Body: ResolveResponseDTO{
			Signs:   descs,
			Summary: resolver.Summarize(descs),
			Total:   len(descs),
		},
	}, nil
}

// handleSequence handles the sign-sequence operation.
func (h *SignsHandler) handleSequence(ctx context.Context, input *SequenceInput) (*SequenceOutput, error) {
	seq, err := h.service.Sequence(ctx, input.Body.Tokens, input.Body.Compose, composer.Options{
		Crossfade: input.Body.Crossfade,
		Force:     input.Body.Force,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to build sequence", err)
	}
	return &SequenceOutput{Body: seq}, nil
}

// handleMarkup handles the sign-markup operation.
func (h *SignsHandler) handleMarkup(_ context.Context, input *MarkupInput) (*MarkupOutput, error) {
	return &MarkupOutput{
		ContentType: "application/xml",
		Body:        []byte(h.service.Markup(input.Body.Tokens)),
	}, nil
}

// handleCoverage handles the sign-coverage operation.
func (h *SignsHandler) handleCoverage(_ context.Context, _ *struct{}) (*CoverageOutput, error) {
	return &CoverageOutput{Body: h.service.Coverage()}, nil
}
