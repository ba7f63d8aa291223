// Package catalog is the gateway to the remote movie catalog API. It
// normalizes raw payloads into the internal model shapes and raises a typed
// transport failure on network or HTTP errors.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"

	"cinelog/config"
	"cinelog/models"
)

// TransportError reports a failed remote call. Status is zero when the
// request never produced an HTTP response.
type TransportError struct {
	Status int
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog request %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("catalog request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// retryable reports whether a failed attempt is worth repeating: network
// errors and server-side statuses only. Client errors are final.
func retryable(err error) bool {
	var terr *TransportError
	if !errors.As(err, &terr) {
		return false
	}
	return terr.Status == 0 || terr.Status >= http.StatusInternalServerError
}

// Client talks to the remote catalog API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	region       string
}

// NewClient creates a catalog client from the supplied settings.
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		region:       cfg.Region,
	}
}

// Region returns the configured provider/popularity region.
func (c *Client) Region() string {
	return c.region
}

// imageURL joins the configured image base with a path fragment. An empty
// fragment yields an empty URL, never a malformed concatenation.
func (c *Client) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

// get performs one API request with the api-key and language parameters
// attached, retrying transient failures, and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)
	requestURL := c.baseURL + path + "?" + query.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return &TransportError{URL: path, Err: err}
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return &TransportError{Status: resp.StatusCode, URL: path}
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return &TransportError{URL: path, Err: fmt.Errorf("decode response: %w", err)}
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
}

// movieListing is the raw list-item payload shared by every listing endpoint.
type movieListing struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	OriginalLanguage string  `json:"original_language"`
}

type listResponse struct {
	Results []movieListing `json:"results"`
}

func (c *Client) mapSummary(m movieListing) models.MovieSummary {
	title := m.Title
	if title == "" {
		title = m.OriginalTitle
	}
	return models.MovieSummary{
		TMDBID:      m.ID,
		Title:       title,
		Overview:    m.Overview,
		PosterURL:   c.imageURL(m.PosterPath),
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
		Language:    m.OriginalLanguage,
	}
}

func (c *Client) fetchList(ctx context.Context, path string, query url.Values) ([]models.MovieSummary, error) {
	var payload listResponse
	if err := c.get(ctx, path, query, &payload); err != nil {
		return nil, err
	}

	summaries := make([]models.MovieSummary, 0, len(payload.Results))
	for _, m := range payload.Results {
		summaries = append(summaries, c.mapSummary(m))
	}
	return summaries, nil
}

// SearchByTitle searches the catalog for movies matching the query.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("query", trimmed)
	return c.fetchList(ctx, "/search/movie", params)
}

// Recommendations returns the catalog's recommendations for a movie.
func (c *Client) Recommendations(ctx context.Context, tmdbID int) ([]models.MovieSummary, error) {
	if tmdbID == 0 {
		return nil, nil
	}
	return c.fetchList(ctx, fmt.Sprintf("/movie/%d/recommendations", tmdbID), nil)
}

var categoryPaths = map[string]string{
	"top_rated":   "/movie/top_rated",
	"popular":     "/movie/popular",
	"now_playing": "/movie/now_playing",
	"upcoming":    "/movie/upcoming",
}

// Category returns one of the fixed catalog lists. Unknown category names
// yield an empty list without a remote call.
func (c *Client) Category(ctx context.Context, name string) ([]models.MovieSummary, error) {
	path, ok := categoryPaths[name]
	if !ok {
		return nil, nil
	}
	return c.fetchList(ctx, path, nil)
}

// TrendingWeek returns the weekly trending list.
func (c *Client) TrendingWeek(ctx context.Context) ([]models.MovieSummary, error) {
	return c.fetchList(ctx, "/trending/movie/week", nil)
}

// PopularByRegion returns the popular list scoped to a region, defaulting to
// the configured one.
func (c *Client) PopularByRegion(ctx context.Context, region string) ([]models.MovieSummary, error) {
	if region == "" {
		region = c.region
	}
	params := url.Values{}
	params.Set("region", region)
	return c.fetchList(ctx, "/movie/popular", params)
}

// DiscoverByGenres returns one discovery page sorted by popularity, filtered
// to the supplied genre ids when any are given.
func (c *Client) DiscoverByGenres(ctx context.Context, genreIDs []int, page int) ([]models.MovieSummary, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))
	if len(genreIDs) > 0 {
		ids := make([]string, 0, len(genreIDs))
		for _, id := range genreIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	return c.fetchList(ctx, "/discover/movie", params)
}

type providerEntry struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type providerRegion struct {
	Link     string          `json:"link"`
	Flatrate []providerEntry `json:"flatrate"`
	Rent     []providerEntry `json:"rent"`
	Buy      []providerEntry `json:"buy"`
}

type providersResponse struct {
	Results map[string]providerRegion `json:"results"`
}

func (c *Client) mapProviders(entries []providerEntry) []models.Provider {
	if len(entries) == 0 {
		return nil
	}
	providers := make([]models.Provider, 0, len(entries))
	for _, e := range entries {
		providers = append(providers, models.Provider{
			Name:    e.ProviderName,
			LogoURL: c.imageURL(e.LogoPath),
		})
	}
	return providers
}

// WatchProviders returns the provider set for the configured region, falling
// back to US, or nil when neither region has data.
func (c *Client) WatchProviders(ctx context.Context, tmdbID int) (*models.ProviderSet, error) {
	if tmdbID == 0 {
		return nil, nil
	}

	var payload providersResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", tmdbID), nil, &payload); err != nil {
		return nil, err
	}

	region, ok := payload.Results[c.region]
	if !ok {
		region, ok = payload.Results["US"]
	}
	if !ok {
		return nil, nil
	}

	return &models.ProviderSet{
		Link:     region.Link,
		Flatrate: c.mapProviders(region.Flatrate),
		Rent:     c.mapProviders(region.Rent),
		Buy:      c.mapProviders(region.Buy),
	}, nil
}

type collectionResponse struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Overview     string         `json:"overview"`
	PosterPath   string         `json:"poster_path"`
	BackdropPath string         `json:"backdrop_path"`
	Parts        []movieListing `json:"parts"`
}

// Collection fetches a movie collection, with parts ordered by release date.
func (c *Client) Collection(ctx context.Context, collectionID int) (*models.Collection, error) {
	if collectionID == 0 {
		return nil, nil
	}

	var payload collectionResponse
	if err := c.get(ctx, fmt.Sprintf("/collection/%d", collectionID), nil, &payload); err != nil {
		return nil, err
	}

	parts := make([]models.CollectionPart, 0, len(payload.Parts))
	for _, p := range payload.Parts {
		parts = append(parts, models.CollectionPart{
			TMDBID:      p.ID,
			Title:       p.Title,
			PosterURL:   c.imageURL(p.PosterPath),
			ReleaseDate: p.ReleaseDate,
			VoteAverage: p.VoteAverage,
		})
	}
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].ReleaseDate < parts[j].ReleaseDate
	})

	return &models.Collection{
		ID:          payload.ID,
		Name:        payload.Name,
		Overview:    payload.Overview,
		PosterURL:   c.imageURL(payload.PosterPath),
		BackdropURL: c.imageURL(payload.BackdropPath),
		Parts:       parts,
	}, nil
}

type detailsResponse struct {
	movieListing
	Runtime int `json:"runtime"`
	Genres  []struct {
		Name string `json:"name"`
	} `json:"genres"`
	BelongsToCollection *struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"belongs_to_collection"`
	Videos struct {
		Results []struct {
			ID   string `json:"id"`
			Key  string `json:"key"`
			Name string `json:"name"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
	} `json:"credits"`
}

var extraVideoTypes = map[string]bool{
	"Teaser":            true,
	"Behind the Scenes": true,
	"Interview":         true,
	"Featurette":        true,
	"Clip":              true,
	"Bloopers":          true,
}

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// Details fetches the full movie detail view with appended videos and
// credits.
func (c *Client) Details(ctx context.Context, tmdbID int) (*models.MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos,credits")

	var payload detailsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), params, &payload); err != nil {
		return nil, err
	}

	details := &models.MovieDetails{
		TMDBID:      payload.ID,
		Title:       payload.Title,
		Overview:    payload.Overview,
		PosterURL:   c.imageURL(payload.PosterPath),
		ReleaseDate: payload.ReleaseDate,
		VoteAverage: payload.VoteAverage,
		Runtime:     payload.Runtime,
	}
	if details.Title == "" {
		details.Title = payload.OriginalTitle
	}

	for _, g := range payload.Genres {
		details.Genres = append(details.Genres, g.Name)
	}

	for _, v := range payload.Videos.Results {
		if v.Site != "YouTube" {
			continue
		}
		if v.Type == "Trailer" && details.TrailerURL == "" {
			details.TrailerURL = youtubeWatchURL + v.Key
			continue
		}
		if extraVideoTypes[v.Type] {
			details.ExtraVideos = append(details.ExtraVideos, models.Video{
				ID:   v.ID,
				Name: v.Name,
				Type: v.Type,
				URL:  youtubeWatchURL + v.Key,
			})
		}
	}

	for i, member := range payload.Credits.Cast {
		if i == 5 {
			break
		}
		details.Cast = append(details.Cast, member.Name)
	}

	if payload.BelongsToCollection != nil {
		details.Collection = &models.CollectionRef{
			ID:   payload.BelongsToCollection.ID,
			Name: payload.BelongsToCollection.Name,
		}
	}

	return details, nil
}
