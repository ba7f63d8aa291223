package search_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cinelog/internal/database"
	"cinelog/models"
	"cinelog/services/search"
)

type gatewayFunc func(ctx context.Context, query string) ([]models.MovieSummary, error)

func (f gatewayFunc) SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error) {
	return f(ctx, query)
}

func newTestRepo(t *testing.T) *database.Repository {
	t.Helper()

	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db.Repository
}

func TestSearchRemoteSuccess(t *testing.T) {
	repo := newTestRepo(t)
	remote := []models.MovieSummary{{TMDBID: 1, Title: "Alien"}}
	svc := search.NewService(repo, gatewayFunc(func(ctx context.Context, query string) ([]models.MovieSummary, error) {
		require.Equal(t, "alien", query)
		return remote, nil
	}))

	result, err := svc.Search(context.Background(), "  alien  ", search.Options{})
	require.NoError(t, err)
	require.Equal(t, models.SearchSourceRemote, result.Source)
	require.Equal(t, remote, result.Results)

	terms, err := svc.History()
	require.NoError(t, err)
	require.Equal(t, []string{"alien"}, terms)
}

func TestSearchFallsBackToCache(t *testing.T) {
	repo := newTestRepo(t)
	remote := []models.MovieSummary{{TMDBID: 1, Title: "Alien"}, {TMDBID: 2, Title: "Aliens"}}

	calls := 0
	svc := search.NewService(repo, gatewayFunc(func(ctx context.Context, query string) ([]models.MovieSummary, error) {
		calls++
		if calls == 1 {
			return remote, nil
		}
		return nil, errors.New("network unreachable")
	}))

	first, err := svc.Search(context.Background(), "alien", search.Options{})
	require.NoError(t, err)
	require.Equal(t, models.SearchSourceRemote, first.Source)

	second, err := svc.Search(context.Background(), "alien", search.Options{})
	require.NoError(t, err)
	require.Equal(t, models.SearchSourceCache, second.Source)
	require.Equal(t, first.Results, second.Results)
}

func TestSearchNoCacheFails(t *testing.T) {
	repo := newTestRepo(t)
	svc := search.NewService(repo, gatewayFunc(func(ctx context.Context, query string) ([]models.MovieSummary, error) {
		return nil, errors.New("network unreachable")
	}))

	_, err := svc.Search(context.Background(), "alien", search.Options{})
	require.ErrorIs(t, err, search.ErrNoResults)
}

func TestSearchEmptyQueryNoSideEffects(t *testing.T) {
	repo := newTestRepo(t)
	svc := search.NewService(repo, gatewayFunc(func(ctx context.Context, query string) ([]models.MovieSummary, error) {
		t.Fatal("gateway must not be called for an empty query")
		return nil, nil
	}))

	result, err := svc.Search(context.Background(), "   ", search.Options{})
	require.NoError(t, err)
	require.Equal(t, models.SearchSourceRemote, result.Source)
	require.Empty(t, result.Results)

	terms, err := svc.History()
	require.NoError(t, err)
	require.Empty(t, terms)
}

func TestSearchSkipHistoryLog(t *testing.T) {
	repo := newTestRepo(t)
	svc := search.NewService(repo, gatewayFunc(func(ctx context.Context, query string) ([]models.MovieSummary, error) {
		return nil, nil
	}))

	_, err := svc.Search(context.Background(), "alien", search.Options{SkipHistoryLog: true})
	require.NoError(t, err)

	terms, err := svc.History()
	require.NoError(t, err)
	require.Empty(t, terms)
}

func TestSearchSupersededByNewerRequest(t *testing.T) {
	repo := newTestRepo(t)

	started := make(chan struct{})
	release := make(chan struct{})
	svc := search.NewService(repo, gatewayFunc(func(ctx context.Context, query string) ([]models.MovieSummary, error) {
		if query == "slow" {
			close(started)
			<-release
		}
		return []models.MovieSummary{{TMDBID: 1, Title: query}}, nil
	}))

	type outcome struct {
		result models.SearchResult
		err    error
	}
	slowDone := make(chan outcome, 1)
	go func() {
		result, err := svc.Search(context.Background(), "slow", search.Options{})
		slowDone <- outcome{result, err}
	}()

	<-started

	fast, err := svc.Search(context.Background(), "fast", search.Options{})
	require.NoError(t, err)
	require.Equal(t, models.SearchSourceRemote, fast.Source)

	close(release)
	slow := <-slowDone
	require.ErrorIs(t, slow.err, search.ErrSuperseded)
}

func TestClearHistory(t *testing.T) {
	repo := newTestRepo(t)
	svc := search.NewService(repo, gatewayFunc(func(ctx context.Context, query string) ([]models.MovieSummary, error) {
		return nil, nil
	}))

	_, err := svc.Search(context.Background(), "alien", search.Options{})
	require.NoError(t, err)
	require.NoError(t, svc.ClearHistory())

	terms, err := svc.History()
	require.NoError(t, err)
	require.Empty(t, terms)
}
