package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"cinelog/config"
	"cinelog/services/catalog"
)

func newClient(serverURL string) *catalog.Client {
	return catalog.NewClient(config.CatalogConfig{
		BaseURL:      serverURL,
		ImageBaseURL: "https://img.example/w500",
		APIKey:       "test-key",
		Language:     "pt-BR",
		Region:       "BR",
	})
}

func TestSearchByTitleMapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/movie", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		require.Equal(t, "pt-BR", r.URL.Query().Get("language"))
		require.Equal(t, "alien", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":348,"title":"Alien","overview":"In space...","poster_path":"/alien.jpg","release_date":"1979-05-25","vote_average":8.1,"original_language":"en"},
			{"id":349,"title":"","original_title":"Alien 2","poster_path":"","vote_average":5.5}
		]}`))
	}))
	defer server.Close()

	results, err := newClient(server.URL).SearchByTitle(context.Background(), "  alien  ")
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, 348, results[0].TMDBID)
	require.Equal(t, "Alien", results[0].Title)
	require.Equal(t, "https://img.example/w500/alien.jpg", results[0].PosterURL)
	require.Equal(t, "1979-05-25", results[0].ReleaseDate)
	require.InDelta(t, 8.1, results[0].VoteAverage, 0.0001)
	require.Equal(t, "en", results[0].Language)

	// missing poster path yields an empty URL, title falls back to original
	require.Equal(t, "Alien 2", results[1].Title)
	require.Empty(t, results[1].PosterURL)
}

func TestSearchByTitleEmptyQueryNoCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	results, err := newClient(server.URL).SearchByTitle(context.Background(), "   ")
	require.NoError(t, err)
	require.Empty(t, results)
	require.Zero(t, calls.Load())
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Recommendations(context.Background(), 42)
	require.Error(t, err)

	var terr *catalog.TransportError
	require.True(t, errors.As(err, &terr))
	require.Equal(t, http.StatusNotFound, terr.Status)
	require.Equal(t, int32(1), calls.Load())
}

func TestServerErrorRetriedThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"results":[{"id":1,"title":"Heat","vote_average":8.3}]}`))
	}))
	defer server.Close()

	results, err := newClient(server.URL).TrendingWeek(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int32(3), calls.Load())
}

func TestCategoryUnknownNameNoCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	results, err := newClient(server.URL).Category(context.Background(), "bogus")
	require.NoError(t, err)
	require.Empty(t, results)
	require.Zero(t, calls.Load())
}

func TestDiscoverByGenresQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/discover/movie", r.URL.Path)
		require.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		require.Equal(t, "3", r.URL.Query().Get("page"))
		require.Equal(t, "28,18", r.URL.Query().Get("with_genres"))
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).DiscoverByGenres(context.Background(), []int{28, 18}, 3)
	require.NoError(t, err)
}

func TestWatchProvidersRegionFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"US":{"link":"https://tmdb/providers","flatrate":[{"provider_name":"Netflix","logo_path":"/n.png"}]}}}`))
	}))
	defer server.Close()

	providers, err := newClient(server.URL).WatchProviders(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, providers)
	require.Len(t, providers.Flatrate, 1)
	require.Equal(t, "Netflix", providers.Flatrate[0].Name)
	require.Equal(t, "https://img.example/w500/n.png", providers.Flatrate[0].LogoURL)
}

func TestWatchProvidersNoRegionData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{}}`))
	}))
	defer server.Close()

	providers, err := newClient(server.URL).WatchProviders(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, providers)
}

func TestCollectionSortsPartsByRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collection/10", r.URL.Path)
		w.Write([]byte(`{"id":10,"name":"Star Wars","parts":[
			{"id":2,"title":"Episode V","release_date":"1980-05-21"},
			{"id":1,"title":"Episode IV","release_date":"1977-05-25"}
		]}`))
	}))
	defer server.Close()

	collection, err := newClient(server.URL).Collection(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, collection)
	require.Equal(t, "Episode IV", collection.Parts[0].Title)
	require.Equal(t, "Episode V", collection.Parts[1].Title)
}

func TestDetailsVideosAndCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/603", r.URL.Path)
		require.Equal(t, "videos,credits", r.URL.Query().Get("append_to_response"))
		w.Write([]byte(`{
			"id":603,"title":"The Matrix","overview":"...","poster_path":"/m.jpg",
			"release_date":"1999-03-30","vote_average":8.2,"runtime":136,
			"genres":[{"name":"Action"},{"name":"Science Fiction"}],
			"belongs_to_collection":{"id":2344,"name":"The Matrix Collection"},
			"videos":{"results":[
				{"id":"v1","key":"k1","name":"Official Trailer","site":"YouTube","type":"Trailer"},
				{"id":"v2","key":"k2","name":"Making Of","site":"YouTube","type":"Behind the Scenes"},
				{"id":"v3","key":"k3","name":"Vimeo clip","site":"Vimeo","type":"Clip"}
			]},
			"credits":{"cast":[
				{"name":"Keanu Reeves"},{"name":"Laurence Fishburne"},{"name":"Carrie-Anne Moss"},
				{"name":"Hugo Weaving"},{"name":"Gloria Foster"},{"name":"Joe Pantoliano"}
			]}
		}`))
	}))
	defer server.Close()

	details, err := newClient(server.URL).Details(context.Background(), 603)
	require.NoError(t, err)

	require.Equal(t, "https://www.youtube.com/watch?v=k1", details.TrailerURL)
	require.Len(t, details.ExtraVideos, 1)
	require.Equal(t, "Behind the Scenes", details.ExtraVideos[0].Type)
	require.Len(t, details.Cast, 5)
	require.Equal(t, []string{"Action", "Science Fiction"}, details.Genres)
	require.NotNil(t, details.Collection)
	require.Equal(t, 2344, details.Collection.ID)
	require.Equal(t, 136, details.Runtime)
}
