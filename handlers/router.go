package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// CORS middleware to allow cross-origin requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter wires every handler into the API router.
func NewRouter(search *SearchHandler, library *LibraryHandler, catalog *CatalogHandler, recommend *RecommendHandler, stats *StatsHandler) *mux.Router {
	r := mux.NewRouter()

	// Add CORS middleware
	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/search", search.Search).Methods(http.MethodGet)
	api.HandleFunc("/search/history", search.History).Methods(http.MethodGet)
	api.HandleFunc("/search/history", search.ClearHistory).Methods(http.MethodDelete)

	api.HandleFunc("/favorites", library.Favorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites", library.AddFavorite).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{id:[0-9]+}", library.FavoriteByID).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{id:[0-9]+}", library.RemoveFavorite).Methods(http.MethodDelete)

	api.HandleFunc("/watchlist", library.Watchlist).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", library.AddToWatchlist).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/{id:[0-9]+}", library.RemoveFromWatchlist).Methods(http.MethodDelete)

	api.HandleFunc("/watched", library.Watched).Methods(http.MethodGet)
	api.HandleFunc("/watched", library.MarkWatched).Methods(http.MethodPost)
	api.HandleFunc("/watched/{id:[0-9]+}", library.WatchedByID).Methods(http.MethodGet)

	api.HandleFunc("/recent", library.RecentlyViewed).Methods(http.MethodGet)
	api.HandleFunc("/recent", library.RecordViewed).Methods(http.MethodPost)
	api.HandleFunc("/recent", library.ClearRecentlyViewed).Methods(http.MethodDelete)

	api.HandleFunc("/recommendations", recommend.FromFavorites).Methods(http.MethodGet)
	api.HandleFunc("/surprise", recommend.Surprise).Methods(http.MethodGet)
	api.HandleFunc("/stats", stats.Get).Methods(http.MethodGet)

	api.HandleFunc("/movies/{id:[0-9]+}", catalog.Details).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id:[0-9]+}/recommendations", recommend.ForMovie).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id:[0-9]+}/providers", catalog.Providers).Methods(http.MethodGet)
	api.HandleFunc("/categories/{name}", catalog.Category).Methods(http.MethodGet)
	api.HandleFunc("/trending", catalog.Trending).Methods(http.MethodGet)
	api.HandleFunc("/popular", catalog.Popular).Methods(http.MethodGet)
	api.HandleFunc("/collections", catalog.PopularCollections).Methods(http.MethodGet)
	api.HandleFunc("/collections/{id:[0-9]+}", catalog.Collection).Methods(http.MethodGet)

	return r
}
