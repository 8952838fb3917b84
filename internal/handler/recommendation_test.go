package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
)

// MockRecommendationService mocks recommendation.Service
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) RecommendForCharacter(ctx context.Context, id string, kind domain.CollectibleKind, opts recommendation.Options) (*domain.RecommendationResult, error) {
	args := m.Called(ctx, id, kind, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecommendationResult), args.Error(1)
}

func (m *MockRecommendationService) RecommendForGroup(ctx context.Context, ids []string) (*domain.GroupRecommendationResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupRecommendationResult), args.Error(1)
}

func (m *MockRecommendationService) MissingForCharacter(ctx context.Context, id string, kind domain.CollectibleKind) (*recommendation.MissingSummary, error) {
	args := m.Called(ctx, id, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.MissingSummary), args.Error(1)
}

type fakeCatalog struct {
	items []domain.Collectible
	err   error
}

func (f *fakeCatalog) Search(_ context.Context, kind domain.CollectibleKind, query string) ([]domain.Collectible, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Collectible
	for _, c := range f.items {
		if c.Kind == kind && strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Get(_ context.Context, kind domain.CollectibleKind, id int) (*domain.Collectible, error) {
	for _, c := range f.items {
		if c.Kind == kind && c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrCollectibleNotFound
}

func newTestRouter(svc recommendation.Service, catalog CatalogReader) http.Handler {
	h := NewRecommendationHandler(svc, catalog)
	r := chi.NewRouter()
	r.Get("/characters/{lodestoneID}/recommendations", h.HandleCharacterRecommendations)
	r.Get("/characters/{lodestoneID}/missing", h.HandleCharacterMissing)
	r.Post("/groups/recommendations", h.HandleGroupRecommendations)
	r.Get("/collectibles/{kind}", h.HandleSearchCollectibles)
	r.Get("/collectibles/{kind}/{id}", h.HandleGetCollectible)
	return r
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleCharacterRecommendations(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := &MockRecommendationService{}
		svc.On("RecommendForCharacter", mock.Anything, "1001", domain.KindMount, recommendation.Options{Count: 5, UseProgress: true}).
			Return(&domain.RecommendationResult{CharacterID: "1001", Kind: domain.KindMount, TotalMissing: 2}, nil)

		w := serve(t, newTestRouter(svc, &fakeCatalog{}), http.MethodGet, "/characters/1001/recommendations", "")

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.RecommendationResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 2, got.TotalMissing)
		svc.AssertExpectations(t)
	})

	t.Run("explicit options", func(t *testing.T) {
		svc := &MockRecommendationService{}
		svc.On("RecommendForCharacter", mock.Anything, "1001", domain.KindMinion, recommendation.Options{Count: 10, UseProgress: false}).
			Return(&domain.RecommendationResult{CharacterID: "1001", Kind: domain.KindMinion}, nil)

		w := serve(t, newTestRouter(svc, &fakeCatalog{}), http.MethodGet, "/characters/1001/recommendations?kind=minions&count=10&progress=false", "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad parameters never reach the service", func(t *testing.T) {
		svc := &MockRecommendationService{}
		router := newTestRouter(svc, &fakeCatalog{})

		for _, target := range []string{
			"/characters/abc/recommendations",
			"/characters/1001/recommendations?kind=glamour",
			"/characters/1001/recommendations?count=0",
			"/characters/1001/recommendations?count=51",
			"/characters/1001/recommendations?progress=maybe",
		} {
			w := serve(t, router, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, target)
		}
		svc.AssertNotCalled(t, "RecommendForCharacter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service errors map to status codes", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
			msg    string
		}{
			{domain.ErrCharacterNotFound, http.StatusNotFound, ErrMsgCharacterNotFound},
			{fmt.Errorf("%w: ffxivcollect: max retries exceeded", domain.ErrUpstreamUnavailable), http.StatusBadGateway, ErrMsgUnavailableError},
			{context.DeadlineExceeded, http.StatusGatewayTimeout, ErrMsgRequestTimeoutError},
			{assert.AnError, http.StatusInternalServerError, ErrMsgGenericServerError},
		}

		for _, tt := range tests {
			svc := &MockRecommendationService{}
			svc.On("RecommendForCharacter", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(t, newTestRouter(svc, &fakeCatalog{}), http.MethodGet, "/characters/1001/recommendations", "")

			assert.Equal(t, tt.status, w.Code)
			var got ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Equal(t, tt.msg, got.Error)
		}
	})
}

func TestHandleCharacterMissing(t *testing.T) {
	svc := &MockRecommendationService{}
	svc.On("MissingForCharacter", mock.Anything, "1001", domain.KindMount).
		Return(&recommendation.MissingSummary{CharacterID: "1001", Kind: domain.KindMount, Total: 10}, nil)

	w := serve(t, newTestRouter(svc, &fakeCatalog{}), http.MethodGet, "/characters/1001/missing?kind=mount", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":10`)
	svc.AssertExpectations(t)
}

func TestHandleGroupRecommendations(t *testing.T) {
	t.Run("valid roster", func(t *testing.T) {
		svc := &MockRecommendationService{}
		svc.On("RecommendForGroup", mock.Anything, []string{"1001", "1002"}).
			Return(&domain.GroupRecommendationResult{TotalCharacters: 2, ProcessedCharacters: []string{"1001"}}, nil)

		w := serve(t, newTestRouter(svc, &fakeCatalog{}), http.MethodPost, "/groups/recommendations", `{"character_ids":["1001","1002"]}`)

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.GroupRecommendationResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 2, got.TotalCharacters)
		svc.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		tooMany := make([]string, MaxGroupSize+1)
		for i := range tooMany {
			tooMany[i] = fmt.Sprintf("%q", fmt.Sprint(1000+i))
		}

		tests := []struct {
			name  string
			body  string
			field string
		}{
			{"malformed json", `{"character_ids":`, ""},
			{"missing ids", `{}`, "characterids"},
			{"empty roster", `{"character_ids":[]}`, "characterids"},
			{"non numeric id", `{"character_ids":["1001","abc"]}`, "characterids[1]"},
			{"too many", `{"character_ids":[` + strings.Join(tooMany, ",") + `]}`, "characterids"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &MockRecommendationService{}

				w := serve(t, newTestRouter(svc, &fakeCatalog{}), http.MethodPost, "/groups/recommendations", tt.body)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				if tt.field != "" {
					var got ValidationErrorResponse
					require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
					assert.Contains(t, got.Fields, tt.field)
				}
				svc.AssertNotCalled(t, "RecommendForGroup", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestHandleCollectibles(t *testing.T) {
	catalog := &fakeCatalog{items: []domain.Collectible{
		{ID: 1, Kind: domain.KindMount, Name: "Aery Drake"},
		{ID: 2, Kind: domain.KindMount, Name: "Fat Chocobo"},
		{ID: 3, Kind: domain.KindMinion, Name: "Wind-up Chocobo"},
	}}
	router := newTestRouter(&MockRecommendationService{}, catalog)

	t.Run("search", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/collectibles/mounts?q=chocobo", "")

		require.Equal(t, http.StatusOK, w.Code)
		var got struct {
			Data []domain.Collectible `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got.Data, 1)
		assert.Equal(t, "Fat Chocobo", got.Data[0].Name)
	})

	t.Run("search needs a query", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/collectibles/mounts", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/collectibles/minion/3", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Wind-up Chocobo")
	})

	t.Run("get unknown", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/collectibles/mounts/99", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get bad id", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/collectibles/mounts/12abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream down", func(t *testing.T) {
		down := newTestRouter(&MockRecommendationService{}, &fakeCatalog{err: domain.ErrUpstreamUnavailable})
		w := serve(t, down, http.MethodGet, "/collectibles/mounts?q=drake", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
