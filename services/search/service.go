// Package search orchestrates catalog searches with an offline fallback
// cache and a capped search-term history.
package search

import (
	"context"
	"errors"
	"log"
	"strings"

	"cinelog/internal/database"
	"cinelog/models"
	"cinelog/services/catalog"
)

var (
	// ErrNoResults means the remote search failed and no cache snapshot
	// exists for the query.
	ErrNoResults = errors.New("no results available online or in cache")
	// ErrSuperseded means a newer search was issued while this one was in
	// flight; the caller should discard the response.
	ErrSuperseded = errors.New("search superseded by a newer request")
)

// Gateway is the slice of the catalog client the resolver needs.
type Gateway interface {
	SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error)
}

var _ Gateway = (*catalog.Client)(nil)

// Options tunes a single search call.
type Options struct {
	// SkipHistoryLog suppresses recording the query into the search-term
	// history.
	SkipHistoryLog bool
}

// Service resolves searches against the remote catalog, persisting cache
// snapshots on success and falling back to the newest snapshot on failure.
type Service struct {
	repo    *database.Repository
	gateway Gateway
	tracker *Tracker
}

// NewService creates a search service over the supplied store and gateway.
func NewService(repo *database.Repository, gateway Gateway) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		tracker: NewTracker(),
	}
}

// Search resolves the query. An empty (post-trim) query returns an empty
// remote-sourced result with no side effects. The history write is
// best-effort and never fails the search; so is persisting the snapshot.
// When a newer Search is issued while this one is in flight the stale result
// is discarded and ErrSuperseded returned.
func (s *Service) Search(ctx context.Context, query string, opts Options) (models.SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return models.SearchResult{Source: models.SearchSourceRemote, Results: []models.MovieSummary{}}, nil
	}

	if !opts.SkipHistoryLog {
		if err := s.repo.RecordSearchTerm(trimmed); err != nil {
			log.Printf("[search] failed to record history term %q: %v", trimmed, err)
		}
	}

	token := s.tracker.Begin()

	results, err := s.gateway.SearchByTitle(ctx, trimmed)
	if err == nil {
		if saveErr := s.repo.SaveSearchSnapshot(trimmed, results); saveErr != nil {
			log.Printf("[search] failed to persist cache snapshot for %q: %v", trimmed, saveErr)
		}
		if !s.tracker.IsCurrent(token) {
			return models.SearchResult{}, ErrSuperseded
		}
		return models.SearchResult{Source: models.SearchSourceRemote, Results: results}, nil
	}

	log.Printf("[search] remote search failed for %q, falling back to cache: %v", trimmed, err)

	cached, found, cacheErr := s.repo.LatestSearchSnapshot(trimmed)
	if cacheErr != nil {
		log.Printf("[search] cache lookup failed for %q: %v", trimmed, cacheErr)
	}
	if !s.tracker.IsCurrent(token) {
		return models.SearchResult{}, ErrSuperseded
	}
	if found {
		return models.SearchResult{Source: models.SearchSourceCache, Results: cached}, nil
	}

	return models.SearchResult{}, ErrNoResults
}

// History returns the logged search terms, most recently used first.
func (s *Service) History() ([]string, error) {
	return s.repo.SearchHistory()
}

// ClearHistory removes every logged search term.
func (s *Service) ClearHistory() error {
	return s.repo.ClearSearchHistory()
}
