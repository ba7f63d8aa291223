package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cinelog/models"
	searchsvc "cinelog/services/search"
)

type searchService interface {
	Search(ctx context.Context, query string, opts searchsvc.Options) (models.SearchResult, error)
	History() ([]string, error)
	ClearHistory() error
}

var _ searchService = (*searchsvc.Service)(nil)

// SearchHandler serves cache-resolved catalog searches and the search-term
// history.
type SearchHandler struct {
	Service searchService
}

func NewSearchHandler(s searchService) *SearchHandler {
	return &SearchHandler{Service: s}
}

// Search resolves the q query parameter against the catalog with cache
// fallback. skip_history=1 suppresses the history log write.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	opts := searchsvc.Options{
		SkipHistoryLog: r.URL.Query().Get("skip_history") == "1",
	}

	result, err := h.Service.Search(r.Context(), query, opts)
	if err != nil {
		switch {
		case errors.Is(err, searchsvc.ErrNoResults):
			http.Error(w, "no results available online or in cache", http.StatusNotFound)
		case errors.Is(err, searchsvc.ErrSuperseded):
			http.Error(w, "superseded by a newer search", http.StatusConflict)
		default:
			log.Printf("[search-handler] search failed: %v", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// History returns the logged search terms, most recently used first.
func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	terms, err := h.Service.History()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if terms == nil {
		terms = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(terms)
}

// ClearHistory removes every logged search term.
func (h *SearchHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearHistory(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
