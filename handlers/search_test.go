package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"cinelog/handlers"
	"cinelog/models"
	searchsvc "cinelog/services/search"
)

type fakeSearchService struct {
	result models.SearchResult
	err    error

	lastQuery string
	lastOpts  searchsvc.Options
}

func (f *fakeSearchService) Search(ctx context.Context, query string, opts searchsvc.Options) (models.SearchResult, error) {
	f.lastQuery = query
	f.lastOpts = opts
	return f.result, f.err
}

func (f *fakeSearchService) History() ([]string, error) { return []string{"alien"}, nil }
func (f *fakeSearchService) ClearHistory() error        { return nil }

func TestSearchHandlerOK(t *testing.T) {
	fake := &fakeSearchService{
		result: models.SearchResult{
			Source:  models.SearchSourceCache,
			Results: []models.MovieSummary{{TMDBID: 1, Title: "Alien"}},
		},
	}
	handler := handlers.NewSearchHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=alien&skip_history=1", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alien", fake.lastQuery)
	require.True(t, fake.lastOpts.SkipHistoryLog)

	var result models.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, models.SearchSourceCache, result.Source)
	require.Len(t, result.Results, 1)
}

func TestSearchHandlerNoResultsMapsTo404(t *testing.T) {
	handler := handlers.NewSearchHandler(&fakeSearchService{err: searchsvc.ErrNoResults})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=alien", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchHandlerSupersededMapsTo409(t *testing.T) {
	handler := handlers.NewSearchHandler(&fakeSearchService{err: searchsvc.ErrSuperseded})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=alien", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSearchHandlerHistory(t *testing.T) {
	handler := handlers.NewSearchHandler(&fakeSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/api/search/history", nil)
	rec := httptest.NewRecorder()
	handler.History(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var terms []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &terms))
	require.Equal(t, []string{"alien"}, terms)
}
