package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/signbridge/internal/gesture"
	"github.com/ekisa-team/signbridge/internal/library"
	"github.com/ekisa-team/signbridge/internal/service"
)

type (
	// AddSignRequestDTO is the request body for the AddSign operation.
	AddSignRequestDTO struct {
		Token       string `json:"token" minLength:"1" maxLength:"64"`
		Handshape   string `json:"handshape,omitempty" doc:"Unknown handshapes fall back to flat"`
		Location    string `json:"location,omitempty" doc:"Unknown locations fall back to neutral"`
		Movement    string `json:"movement,omitempty" doc:"Unknown movements fall back to forward"`
		Description string `json:"description,omitempty" maxLength:"256"`
	}
)

type (
	// RefreshOutput is the huma output for the RefreshLibrary operation.
	RefreshOutput struct {
		Body library.Coverage
	}

	// AddSignInput is the huma input for the AddSign operation.
	AddSignInput struct {
		Body AddSignRequestDTO
	}

	// AddSignOutput is the huma output for the AddSign operation.
	AddSignOutput struct {
		Body service.LexiconEntry
	}

	// LexiconOutput is the huma output for the ListLexicon operation.
	LexiconOutput struct {
		Body []service.LexiconEntry
	}
)

// LibraryHandler handles HTTP requests for the video library and the lexicon.
type LibraryHandler struct {
	service *service.Signs
}

// NewLibraryHandler creates a new LibraryHandler instance.
func NewLibraryHandler(api huma.API, svc *service.Signs) *LibraryHandler {
	h := &LibraryHandler{service: svc}

	huma.Register(api, huma.Operation{
		OperationID: "refresh-library",
		Method:      http.MethodPost,
		Path:        "/v1/library/refresh",
		Summary:     "Rescan the video library and rebuild its index",
		Tags:        []string{"library"},
	}, h.handleRefresh)

	huma.Register(api, huma.Operation{
		OperationID:   "add-lexicon-sign",
		Method:        http.MethodPost,
		Path:          "/v1/lexicon/signs",
		Summary:       "Add or replace a gesture lexicon sign",
		Tags:          []string{"lexicon"},
		DefaultStatus: http.StatusCreated,
	}, h.handleAddSign)

	huma.Register(api, huma.Operation{
		OperationID: "list-lexicon",
		Method:      http.MethodGet,
		Path:        "/v1/lexicon",
		Summary:     "List gesture lexicon signs",
		Tags:        []string{"lexicon"},
	}, h.handleLexicon)

	return h
}

// handleRefresh handles the refresh-library operation.
func (h *LibraryHandler) handleRefresh(ctx context.Context, _ *struct{}) (*RefreshOutput, error) {
	cov, err := h.service.Refresh(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to refresh library", err)
	}
	return &RefreshOutput{Body: cov}, nil
}

// handleAddSign handles the add-lexicon-sign operation.
func (h *LibraryHandler) handleAddSign(ctx context.Context, input *AddSignInput) (*AddSignOutput, error) {
	b := input.Body
	if strings.TrimSpace(b.Token) == "" {
		return nil, huma.Error422UnprocessableEntity("token must not be blank")
	}

	entry, err := h.service.AddSign(ctx, b.Token, gesture.NewSign(b.Handshape, b.Location, b.Movement, b.Description))
	if err != nil {
		if errors.Is(err, gesture.ErrEmptyToken) {
			return nil, huma.Error422UnprocessableEntity("token must not be blank", err)
		}
		return nil, huma.Error500InternalServerError("failed to save lexicon", err)
	}
	return &AddSignOutput{Body: entry}, nil
}

// handleLexicon handles the list-lexicon operation.
func (h *LibraryHandler) handleLexicon(_ context.Context, _ *struct{}) (*LexiconOutput, error) {
	return &LexiconOutput{Body: h.service.Lexicon()}, nil
}
