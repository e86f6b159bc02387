package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mnemovox/recorder/api/types"
	recordingsService "github.com/mnemovox/recorder/internal/services/recordings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSearcher implements just the Search method of the service
type mockSearcher struct {
	recordingsService.Service

	searchFunc func(ctx context.Context, term string, page, perPage int) ([]recordingsService.SearchResult, int64, error)
}

func (m *mockSearcher) Search(ctx context.Context, term string, page, perPage int) ([]recordingsService.SearchResult, int64, error) {
	return m.searchFunc(ctx, term, page, perPage)
}

func newRouter(deps *types.Dependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	RegisterRoutes(engine.Group("/api/search"), deps)
	return engine
}

func TestSearchReturnsRankedResults(t *testing.T) {
	deps := &types.Dependencies{
		ItemsPerPage: 20,
		RecordingService: &mockSearcher{
			searchFunc: func(ctx context.Context, term string, page, perPage int) ([]recordingsService.SearchResult, int64, error) {
				assert.Equal(t, "standup notes", term)
				assert.Equal(t, 1, page)
				assert.Equal(t, 20, perPage)
				return []recordingsService.SearchResult{
					{
						ID:               4,
						OriginalFilename: "standup.wav",
						TranscriptText:   "daily standup notes",
						Excerpts:         []string{"daily <mark>standup</mark> <mark>notes</mark>"},
						Score:            1.7,
					},
				}, 1, nil
			},
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=standup+notes", nil)
	newRouter(deps).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "standup notes", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, uint(4), resp.Results[0].ID)
	assert.Equal(t, int64(1), resp.Total)
}

func TestSearchRejectsShortQuery(t *testing.T) {
	deps := &types.Dependencies{RecordingService: &mockSearcher{}}

	for _, q := range []string{"", "ab", "  a  "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/search?q="+url.QueryEscape(q), nil)
		newRouter(deps).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q should be rejected", q)
	}
}

func TestSearchClampsPerPage(t *testing.T) {
	deps := &types.Dependencies{
		ItemsPerPage: 20,
		RecordingService: &mockSearcher{
			searchFunc: func(ctx context.Context, term string, page, perPage int) ([]recordingsService.SearchResult, int64, error) {
				assert.Equal(t, 100, perPage)
				return nil, 0, nil
			},
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=hello&per_page=500", nil)
	newRouter(deps).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchServiceError(t *testing.T) {
	deps := &types.Dependencies{
		ItemsPerPage: 20,
		RecordingService: &mockSearcher{
			searchFunc: func(ctx context.Context, term string, page, perPage int) ([]recordingsService.SearchResult, int64, error) {
				return nil, 0, errors.New("index unavailable")
			},
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=hello", nil)
	newRouter(deps).ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
