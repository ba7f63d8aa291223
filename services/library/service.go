// Package library manages the user's saved movies: favorites, watchlist,
// watched journal, and the recently-viewed log.
package library

import (
	"errors"
	"strings"
	"time"

	"cinelog/internal/database"
	"cinelog/models"
)

// ErrInvalidMovie means a write was attempted for a movie lacking a catalog
// id. Surfaced synchronously; the store is never touched.
var ErrInvalidMovie = errors.New("movie is missing a catalog id")

const (
	minRating = 0
	maxRating = 5
)

// Service exposes the saved-movie operations over the local store.
type Service struct {
	repo *database.Repository
}

// NewService creates a library service over the supplied repository.
func NewService(repo *database.Repository) *Service {
	return &Service{repo: repo}
}

func clampRating(rating int) int {
	if rating < minRating {
		return minRating
	}
	if rating > maxRating {
		return maxRating
	}
	return rating
}

// AddFavorite upserts the movie as a favorite with the supplied rating and
// comment. Favoriting the same movie again overwrites rating and comment.
func (s *Service) AddFavorite(movie models.MovieSummary, rating int, comment string) error {
	if movie.TMDBID == 0 {
		return ErrInvalidMovie
	}
	return s.repo.UpsertFavorite(models.Favorite{
		TMDBID:      movie.TMDBID,
		Title:       movie.Title,
		PosterURL:   movie.PosterURL,
		Overview:    movie.Overview,
		ReleaseDate: movie.ReleaseDate,
		Rating:      clampRating(rating),
		Comment:     comment,
	})
}

// Favorites returns all favorites, most recently added first.
func (s *Service) Favorites() ([]models.Favorite, error) {
	return s.repo.Favorites()
}

// FavoriteByID returns the favorite with the given catalog id, or nil.
func (s *Service) FavoriteByID(tmdbID int) (*models.Favorite, error) {
	if tmdbID == 0 {
		return nil, nil
	}
	return s.repo.FavoriteByID(tmdbID)
}

// RemoveFavorite deletes the favorite.
func (s *Service) RemoveFavorite(tmdbID int) error {
	return s.repo.RemoveFavorite(tmdbID)
}

// AddToWatchlist upserts the movie into the watchlist.
func (s *Service) AddToWatchlist(movie models.MovieSummary) error {
	if movie.TMDBID == 0 {
		return ErrInvalidMovie
	}
	return s.repo.UpsertWatchlistItem(models.WatchlistItem{
		TMDBID:      movie.TMDBID,
		Title:       movie.Title,
		PosterURL:   movie.PosterURL,
		Overview:    movie.Overview,
		ReleaseDate: movie.ReleaseDate,
	})
}

// Watchlist returns all watchlist entries, most recently added first.
func (s *Service) Watchlist() ([]models.WatchlistItem, error) {
	return s.repo.Watchlist()
}

// RemoveFromWatchlist deletes the watchlist entry.
func (s *Service) RemoveFromWatchlist(tmdbID int) error {
	return s.repo.RemoveFromWatchlist(tmdbID)
}

// MarkWatched upserts the movie into the watched journal. Genres are stored
// as comma-joined text; a zero watchedAt means now.
func (s *Service) MarkWatched(movie models.MovieSummary, genres []string, mood, journalComment string, watchedAt time.Time) error {
	if movie.TMDBID == 0 {
		return ErrInvalidMovie
	}
	return s.repo.UpsertWatched(models.WatchedEntry{
		TMDBID:         movie.TMDBID,
		Title:          movie.Title,
		PosterURL:      movie.PosterURL,
		Overview:       movie.Overview,
		ReleaseDate:    movie.ReleaseDate,
		Genres:         strings.Join(genres, ","),
		Mood:           mood,
		JournalComment: journalComment,
		WatchedAt:      watchedAt,
	})
}

// Watched returns all watched entries, most recently watched first.
func (s *Service) Watched() ([]models.WatchedEntry, error) {
	return s.repo.WatchedEntries()
}

// WatchedByID returns the watched entry with the given catalog id, or nil.
func (s *Service) WatchedByID(tmdbID int) (*models.WatchedEntry, error) {
	if tmdbID == 0 {
		return nil, nil
	}
	return s.repo.WatchedByID(tmdbID)
}

// RecordViewed logs the movie into the recently-viewed list, refreshing its
// display fields and recency. A movie without a catalog id is ignored.
func (s *Service) RecordViewed(movie models.MovieSummary) error {
	if movie.TMDBID == 0 {
		return nil
	}
	return s.repo.RecordRecentlyViewed(models.RecentlyViewedMovie{
		TMDBID:      movie.TMDBID,
		Title:       movie.Title,
		PosterURL:   movie.PosterURL,
		Overview:    movie.Overview,
		ReleaseDate: movie.ReleaseDate,
	})
}

// RecentlyViewed returns the viewed log, most recent first.
func (s *Service) RecentlyViewed() ([]models.RecentlyViewedMovie, error) {
	return s.repo.RecentlyViewed()
}

// ClearRecentlyViewed empties the viewed log.
func (s *Service) ClearRecentlyViewed() error {
	return s.repo.ClearRecentlyViewed()
}
