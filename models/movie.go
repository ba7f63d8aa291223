package models

// MovieSummary is the normalized shape every catalog listing endpoint returns.
// Produced by the catalog gateway; immutable once returned.
type MovieSummary struct {
	TMDBID      int     `json:"tmdbId"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"` // ISO date or empty
	VoteAverage float64 `json:"voteAverage"`
	Language    string  `json:"language,omitempty"`
}

// Video is an auxiliary YouTube video attached to a movie's details.
type Video struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// CollectionRef identifies the collection a movie belongs to.
type CollectionRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full detail view with appended videos and credits.
type MovieDetails struct {
	TMDBID      int            `json:"tmdbId"`
	Title       string         `json:"title"`
	Overview    string         `json:"overview"`
	PosterURL   string         `json:"posterUrl,omitempty"`
	ReleaseDate string         `json:"releaseDate,omitempty"`
	VoteAverage float64        `json:"voteAverage"`
	Runtime     int            `json:"runtime,omitempty"`
	Genres      []string       `json:"genres,omitempty"`
	TrailerURL  string         `json:"trailerUrl,omitempty"`
	ExtraVideos []Video        `json:"extraVideos,omitempty"`
	Cast        []string       `json:"cast,omitempty"`
	Collection  *CollectionRef `json:"collection,omitempty"`
}

// CollectionPart is a single movie inside a collection, ordered by release.
type CollectionPart struct {
	TMDBID      int     `json:"tmdbId"`
	Title       string  `json:"title"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	VoteAverage float64 `json:"voteAverage"`
}

// Collection groups related movies (e.g. a film franchise).
type Collection struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Overview    string           `json:"overview,omitempty"`
	PosterURL   string           `json:"posterUrl,omitempty"`
	BackdropURL string           `json:"backdropUrl,omitempty"`
	Parts       []CollectionPart `json:"parts,omitempty"`
}

// Provider is a single streaming/rental provider entry.
type Provider struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// ProviderSet holds the watch providers available in one region.
type ProviderSet struct {
	Link     string     `json:"link,omitempty"`
	Flatrate []Provider `json:"flatrate,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}
