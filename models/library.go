package models

import "time"

// Favorite is a movie the user saved with a personal rating and comment.
// At most one row exists per TMDB id; adding again overwrites.
type Favorite struct {
	TMDBID      int       `json:"tmdbId"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"posterUrl,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	Rating      int       `json:"rating"` // 0..5 stars
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WatchlistItem is a movie saved to watch later.
type WatchlistItem struct {
	TMDBID      int       `json:"tmdbId"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"posterUrl,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WatchedEntry is a movie the user marked as watched, with journal fields.
// Genres is denormalized comma-joined text; parsed back into tokens wherever
// genre statistics are computed.
type WatchedEntry struct {
	TMDBID         int       `json:"tmdbId"`
	Title          string    `json:"title"`
	PosterURL      string    `json:"posterUrl,omitempty"`
	Overview       string    `json:"overview,omitempty"`
	ReleaseDate    string    `json:"releaseDate,omitempty"`
	Genres         string    `json:"genres,omitempty"`
	Mood           string    `json:"mood,omitempty"`
	JournalComment string    `json:"journalComment,omitempty"`
	WatchedAt      time.Time `json:"watchedAt"`
}

// RecentlyViewedMovie is one entry of the capped recently-viewed log.
type RecentlyViewedMovie struct {
	TMDBID      int       `json:"tmdbId"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"posterUrl,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	ViewedAt    time.Time `json:"viewedAt"`
}

// CountedKey is a (key, count) pair produced by the stats rollups.
type CountedKey struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Stats is the read-only rollup over favorites and watched entries.
type Stats struct {
	FavoritesTotal   int         `json:"favoritesTotal"`
	AvgRating        float64     `json:"avgRating"`
	WatchedTotal     int         `json:"watchedTotal"`
	TopRated         *Favorite   `json:"topRated,omitempty"`
	MostWatchedGenre *CountedKey `json:"mostWatchedGenre,omitempty"`
	MostWatchedYear  *CountedKey `json:"mostWatchedYear,omitempty"`
}

// SearchSource tells where a search result set came from.
type SearchSource string

const (
	SearchSourceRemote SearchSource = "remote"
	SearchSourceCache  SearchSource = "cache"
)

// SearchResult is the outcome of a cache-resolved search.
type SearchResult struct {
	Source  SearchSource   `json:"source"`
	Results []MovieSummary `json:"results"`
}
