package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"cinelog/models"
	librarysvc "cinelog/services/library"
)

// LibraryHandler serves the user's saved movies: favorites, watchlist,
// watched journal, and the recently-viewed log.
type LibraryHandler struct {
	Service *librarysvc.Service
}

func NewLibraryHandler(s *librarysvc.Service) *LibraryHandler {
	return &LibraryHandler{Service: s}
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeLibraryError(w http.ResponseWriter, err error) {
	if errors.Is(err, librarysvc.ErrInvalidMovie) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// AddFavorite upserts a favorite with rating and comment.
func (h *LibraryHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Movie   models.MovieSummary `json:"movie"`
		Rating  int                 `json:"rating"`
		Comment string              `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.AddFavorite(request.Movie, request.Rating, request.Comment); err != nil {
		writeLibraryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Favorites lists all favorites, most recently added first.
func (h *LibraryHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.Service.Favorites()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(favorites)
}

// FavoriteByID returns one favorite, or null when absent.
func (h *LibraryHandler) FavoriteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	favorite, err := h.Service.FavoriteByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(favorite)
}

// RemoveFavorite deletes one favorite.
func (h *LibraryHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	if err := h.Service.RemoveFavorite(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddToWatchlist upserts a watchlist entry.
func (h *LibraryHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var movie models.MovieSummary
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.AddToWatchlist(movie); err != nil {
		writeLibraryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Watchlist lists the watchlist, most recently added first.
func (h *LibraryHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Watchlist()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// RemoveFromWatchlist deletes one watchlist entry.
func (h *LibraryHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	if err := h.Service.RemoveFromWatchlist(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkWatched upserts a watched journal entry.
func (h *LibraryHandler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Movie          models.MovieSummary `json:"movie"`
		Genres         []string            `json:"genres"`
		Mood           string              `json:"mood"`
		JournalComment string              `json:"journalComment"`
		WatchedAt      time.Time           `json:"watchedAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.MarkWatched(request.Movie, request.Genres, request.Mood,
		request.JournalComment, request.WatchedAt); err != nil {
		writeLibraryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Watched lists the watched journal, most recently watched first.
func (h *LibraryHandler) Watched(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.Watched()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.WatchedEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// WatchedByID returns one watched entry, or null when absent.
func (h *LibraryHandler) WatchedByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.WatchedByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// RecordViewed logs a movie into the recently-viewed list.
func (h *LibraryHandler) RecordViewed(w http.ResponseWriter, r *http.Request) {
	var movie models.MovieSummary
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.RecordViewed(movie); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecentlyViewed lists the viewed log, most recent first.
func (h *LibraryHandler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	movies, err := h.Service.RecentlyViewed()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if movies == nil {
		movies = []models.RecentlyViewedMovie{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movies)
}

// ClearRecentlyViewed empties the viewed log.
func (h *LibraryHandler) ClearRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearRecentlyViewed(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
