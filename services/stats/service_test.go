package stats_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cinelog/internal/database"
	"cinelog/models"
	"cinelog/services/stats"
)

func newTestRepo(t *testing.T) *database.Repository {
	t.Helper()

	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db.Repository
}

func TestStatsEmptyLibrary(t *testing.T) {
	svc := stats.NewService(newTestRepo(t))

	got, err := svc.Get()
	require.NoError(t, err)
	require.Zero(t, got.FavoritesTotal)
	require.Zero(t, got.AvgRating)
	require.Zero(t, got.WatchedTotal)
	require.Nil(t, got.TopRated)
	require.Nil(t, got.MostWatchedGenre)
	require.Nil(t, got.MostWatchedYear)
}

func TestStatsRollup(t *testing.T) {
	repo := newTestRepo(t)
	svc := stats.NewService(repo)

	require.NoError(t, repo.UpsertFavorite(models.Favorite{TMDBID: 1, Title: "Heat", Rating: 5}))
	require.NoError(t, repo.UpsertFavorite(models.Favorite{TMDBID: 2, Title: "Alien", Rating: 3}))

	require.NoError(t, repo.UpsertWatched(models.WatchedEntry{
		TMDBID: 1, Title: "Heat", Genres: "Drama", ReleaseDate: "2020-01-01",
	}))
	require.NoError(t, repo.UpsertWatched(models.WatchedEntry{
		TMDBID: 2, Title: "Alien", Genres: "Drama", ReleaseDate: "2021-01-01",
	}))

	got, err := svc.Get()
	require.NoError(t, err)

	require.Equal(t, 2, got.FavoritesTotal)
	require.InDelta(t, 4.0, got.AvgRating, 0.0001)
	require.Equal(t, 2, got.WatchedTotal)

	require.NotNil(t, got.TopRated)
	require.Equal(t, "Heat", got.TopRated.Title)
	require.Equal(t, 5, got.TopRated.Rating)

	require.NotNil(t, got.MostWatchedGenre)
	require.Equal(t, models.CountedKey{Key: "Drama", Count: 2}, *got.MostWatchedGenre)

	// 2020 and 2021 are tied at one watch each; the rollup must pick one
	// deterministically (smaller key wins)
	require.NotNil(t, got.MostWatchedYear)
	require.Equal(t, models.CountedKey{Key: "2020", Count: 1}, *got.MostWatchedYear)
}

func TestStatsGenreTokenizing(t *testing.T) {
	repo := newTestRepo(t)
	svc := stats.NewService(repo)

	require.NoError(t, repo.UpsertWatched(models.WatchedEntry{
		TMDBID: 1, Title: "Heat", Genres: "Action, Drama ,", ReleaseDate: "1995-12-15",
	}))
	require.NoError(t, repo.UpsertWatched(models.WatchedEntry{
		TMDBID: 2, Title: "Ronin", Genres: "Action", ReleaseDate: "1998-09-25",
	}))

	got, err := svc.Get()
	require.NoError(t, err)

	require.NotNil(t, got.MostWatchedGenre)
	require.Equal(t, models.CountedKey{Key: "Action", Count: 2}, *got.MostWatchedGenre)
}
