package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"cinelog/models"
	"cinelog/services/catalog"
	librarysvc "cinelog/services/library"
)

// Curated franchise collections surfaced on the browse screen; fetched
// best-effort so one missing collection never empties the shelf.
var popularCollectionIDs = []int{
	86311,  // Avengers
	263,    // Batman
	1241,   // Harry Potter
	9485,   // Fast & Furious
	10,     // Star Wars
	556,    // Spider-Man
	119,    // The Lord of the Rings
	84,     // Indiana Jones
	2344,   // The Matrix
	404609, // John Wick
	8091,   // Alien
	645,    // James Bond
	328,    // Jurassic Park
	295,    // Pirates of the Caribbean
}

// CatalogHandler serves catalog browse endpoints: details, categories,
// trending, popular, providers, and collections.
type CatalogHandler struct {
	Client  *catalog.Client
	Library *librarysvc.Service
}

func NewCatalogHandler(client *catalog.Client, library *librarysvc.Service) *CatalogHandler {
	return &CatalogHandler{Client: client, Library: library}
}

func writeMovieList(w http.ResponseWriter, movies []models.MovieSummary) {
	if movies == nil {
		movies = []models.MovieSummary{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movies)
}

// Details returns the full movie detail view and logs the movie into the
// recently-viewed list as a side effect. The log write is best-effort.
func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	details, err := h.Client.Details(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if h.Library != nil {
		viewed := models.MovieSummary{
			TMDBID:      details.TMDBID,
			Title:       details.Title,
			Overview:    details.Overview,
			PosterURL:   details.PosterURL,
			ReleaseDate: details.ReleaseDate,
			VoteAverage: details.VoteAverage,
		}
		if err := h.Library.RecordViewed(viewed); err != nil {
			log.Printf("[catalog-handler] failed to record viewed movie %d: %v", details.TMDBID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}

// Category returns one of the fixed catalog lists; failures and unknown
// categories yield an empty list.
func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	movies, err := h.Client.Category(r.Context(), name)
	if err != nil {
		log.Printf("[catalog-handler] category %q failed: %v", name, err)
		movies = nil
	}
	writeMovieList(w, movies)
}

// Trending returns the weekly trending list; failures yield an empty list.
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	movies, err := h.Client.TrendingWeek(r.Context())
	if err != nil {
		log.Printf("[catalog-handler] trending failed: %v", err)
		movies = nil
	}
	writeMovieList(w, movies)
}

// Popular returns the region-popular list; failures yield an empty list.
func (h *CatalogHandler) Popular(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	movies, err := h.Client.PopularByRegion(r.Context(), region)
	if err != nil {
		log.Printf("[catalog-handler] popular failed: %v", err)
		movies = nil
	}
	writeMovieList(w, movies)
}

// Providers returns the watch providers for a movie in the configured
// region. Lookups are best-effort: failures respond with null.
func (h *CatalogHandler) Providers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	providers, err := h.Client.WatchProviders(r.Context(), id)
	if err != nil {
		log.Printf("[catalog-handler] providers for %d failed: %v", id, err)
		providers = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(providers)
}

// Collection returns one collection by id.
func (h *CatalogHandler) Collection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid collection id", http.StatusBadRequest)
		return
	}

	collection, err := h.Client.Collection(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collection)
}

// PopularCollections returns the curated franchise collections, skipping any
// that fail to load.
func (h *CatalogHandler) PopularCollections(w http.ResponseWriter, r *http.Request) {
	collections := make([]*models.Collection, 0, len(popularCollectionIDs))
	for _, id := range popularCollectionIDs {
		collection, err := h.Client.Collection(r.Context(), id)
		if err != nil {
			log.Printf("[catalog-handler] collection %d failed: %v", id, err)
			continue
		}
		if collection != nil {
			collections = append(collections, collection)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collections)
}
