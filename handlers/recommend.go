package handlers

import (
	"encoding/json"
	"net/http"

	librarysvc "cinelog/services/library"
	recommendsvc "cinelog/services/recommend"
)

// RecommendHandler serves aggregated recommendations and the surprise pick.
type RecommendHandler struct {
	Recommend *recommendsvc.Service
	Library   *librarysvc.Service
}

func NewRecommendHandler(recommend *recommendsvc.Service, library *librarysvc.Service) *RecommendHandler {
	return &RecommendHandler{Recommend: recommend, Library: library}
}

// FromFavorites aggregates recommendations seeded by the most recently
// added favorites.
func (h *RecommendHandler) FromFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.Library.Favorites()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	movies, err := h.Recommend.FromFavorites(r.Context(), favorites)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeMovieList(w, movies)
}

// ForMovie returns recommendations for one movie; failures yield an empty
// list.
func (h *RecommendHandler) ForMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}
	writeMovieList(w, h.Recommend.ForMovie(r.Context(), id))
}

// Surprise picks one well-rated movie weighted by watch history; responds
// with null when no tier produced a candidate.
func (h *RecommendHandler) Surprise(w http.ResponseWriter, r *http.Request) {
	movie, err := h.Recommend.Surprise(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movie)
}
