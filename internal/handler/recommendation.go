package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
	"github.com/osse101/ChocoboBot_Go/internal/roster"
)

// Request limits
const (
	MaxRecommendationCount = 50
	MaxGroupSize           = 50
)

// CatalogReader searches and fetches catalog entries
type CatalogReader interface {
	Search(ctx context.Context, kind domain.CollectibleKind, query string) ([]domain.Collectible, error)
	Get(ctx context.Context, kind domain.CollectibleKind, id int) (*domain.Collectible, error)
}

// GroupRecommendationRequest is the body of POST /api/v1/groups/recommendations
type GroupRecommendationRequest struct {
	CharacterIDs []string `json:"character_ids" validate:"required,min=1,max=50,dive,lodestone"`
}

// RecommendationHandler serves the recommendation and catalog endpoints
type RecommendationHandler struct {
	service recommendation.Service
	catalog CatalogReader
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service recommendation.Service, catalog CatalogReader) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		catalog: catalog,
	}
}

// lodestoneParam reads and validates the {lodestoneID} path parameter
func lodestoneParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "lodestoneID")
	if !roster.ValidLodestoneID(id) {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLodestoneErr)
		return "", false
	}
	return id, true
}

// kindParam reads the kind from the query (or path) with mounts as the default
func kindParam(w http.ResponseWriter, r *http.Request) (domain.CollectibleKind, bool) {
	raw := chi.URLParam(r, "kind")
	if raw == "" {
		raw = GetOptionalQueryParam(r, "kind", string(domain.KindMount))
	}
	kind, err := domain.ParseCollectibleKind(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidKindError)
		return "", false
	}
	return kind, true
}

// HandleCharacterRecommendations ranks the farmable collectibles a character is missing
// GET /api/v1/characters/{lodestoneID}/recommendations?kind=&count=&progress=
func (h *RecommendationHandler) HandleCharacterRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := lodestoneParam(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	count, ok := GetIntQueryParam(r, w, "count", recommendation.DefaultCount, 1, MaxRecommendationCount)
	if !ok {
		return
	}
	useProgress, ok := GetBoolQueryParam(r, w, "progress", true)
	if !ok {
		return
	}

	result, err := h.service.RecommendForCharacter(r.Context(), id, kind, recommendation.Options{
		Count:       count,
		UseProgress: useProgress,
	})
	if err != nil {
		respondServiceError(w, r, "Character recommendation", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleCharacterMissing lists a character's missing and farmable collectibles
// GET /api/v1/characters/{lodestoneID}/missing?kind=
func (h *RecommendationHandler) HandleCharacterMissing(w http.ResponseWriter, r *http.Request) {
	id, ok := lodestoneParam(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	summary, err := h.service.MissingForCharacter(r.Context(), id, kind)
	if err != nil {
		respondServiceError(w, r, "Missing collectibles", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// HandleGroupRecommendations aggregates a roster
// POST /api/v1/groups/recommendations
func (h *RecommendationHandler) HandleGroupRecommendations(w http.ResponseWriter, r *http.Request) {
	var req GroupRecommendationRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Group recommendation"); err != nil {
		return
	}

	result, err := h.service.RecommendForGroup(r.Context(), req.CharacterIDs)
	if err != nil {
		respondServiceError(w, r, "Group recommendation", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleSearchCollectibles searches a catalog by name
// GET /api/v1/collectibles/{kind}?q=
func (h *RecommendationHandler) HandleSearchCollectibles(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	query := roster.SanitizeInput(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, "q"))
		return
	}

	hits, err := h.catalog.Search(r.Context(), kind, query)
	if err != nil {
		respondServiceError(w, r, "Collectible search", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: hits})
}

// HandleGetCollectible returns one catalog entry
// GET /api/v1/collectibles/{kind}/{id}
func (h *RecommendationHandler) HandleGetCollectible(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, "id"))
		return
	}

	c, err := h.catalog.Get(r.Context(), kind, id)
	if err != nil {
		respondServiceError(w, r, "Collectible lookup", err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}
