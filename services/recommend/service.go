// Package recommend aggregates catalog recommendations across favorite
// seeds and picks genre-weighted surprise movies from watch history.
package recommend

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"cinelog/internal/database"
	"cinelog/models"
	"cinelog/services/catalog"
	"cinelog/utils/genres"
)

const (
	// maxSeeds caps how many favorites seed the aggregation.
	maxSeeds = 3
	// topGenreCount caps how many preferred genres weight discovery.
	topGenreCount = 3
	// minSurpriseVote is the vote floor for surprise candidates.
	minSurpriseVote = 7.0
	// discoverPageSpan is the number of discovery pages random paging draws from.
	discoverPageSpan = 5
)

// Gateway is the slice of the catalog client the aggregator needs.
type Gateway interface {
	Recommendations(ctx context.Context, tmdbID int) ([]models.MovieSummary, error)
	DiscoverByGenres(ctx context.Context, genreIDs []int, page int) ([]models.MovieSummary, error)
	TrendingWeek(ctx context.Context) ([]models.MovieSummary, error)
}

var _ Gateway = (*catalog.Client)(nil)

// Service aggregates recommendations from the catalog and watch history.
type Service struct {
	repo    *database.Repository
	gateway Gateway

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewService creates a recommendation service over the supplied store and
// gateway.
func NewService(repo *database.Repository, gateway Gateway) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the random source, used by tests for determinism.
func (s *Service) SetRand(r *rand.Rand) {
	s.randMu.Lock()
	s.rand = r
	s.randMu.Unlock()
}

func (s *Service) randIntn(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.Intn(n)
}

// FromFavorites fetches recommendations for at most the first three supplied
// favorites. Seed fetches run concurrently but merge in seed order; a failed
// seed contributes nothing and never aborts the aggregation. Duplicates are
// removed keeping the first occurrence.
func (s *Service) FromFavorites(ctx context.Context, favorites []models.Favorite) ([]models.MovieSummary, error) {
	seeds := favorites
	if len(seeds) > maxSeeds {
		seeds = seeds[:maxSeeds]
	}

	perSeed := make([][]models.MovieSummary, len(seeds))
	var wg conc.WaitGroup
	for i, seed := range seeds {
		i, seed := i, seed
		wg.Go(func() {
			recs, err := s.gateway.Recommendations(ctx, seed.TMDBID)
			if err != nil {
				log.Printf("[recommend] recommendations for seed %d failed: %v", seed.TMDBID, err)
				return
			}
			perSeed[i] = recs
		})
	}
	wg.Wait()

	seen := make(map[int]struct{})
	var unique []models.MovieSummary
	for _, recs := range perSeed {
		for _, movie := range recs {
			if _, ok := seen[movie.TMDBID]; ok {
				continue
			}
			seen[movie.TMDBID] = struct{}{}
			unique = append(unique, movie)
		}
	}
	return unique, nil
}

// ForMovie fetches recommendations for a single movie, best-effort: a failed
// or invalid lookup yields an empty list.
func (s *Service) ForMovie(ctx context.Context, tmdbID int) []models.MovieSummary {
	if tmdbID == 0 {
		return nil
	}
	recs, err := s.gateway.Recommendations(ctx, tmdbID)
	if err != nil {
		log.Printf("[recommend] recommendations for movie %d failed: %v", tmdbID, err)
		return nil
	}
	return recs
}

func filterHighRated(movies []models.MovieSummary) []models.MovieSummary {
	var kept []models.MovieSummary
	for _, m := range movies {
		if m.VoteAverage >= minSurpriseVote {
			kept = append(kept, m)
		}
	}
	return kept
}

// discover fetches one random discovery page, best-effort.
func (s *Service) discover(ctx context.Context, genreIDs []int) []models.MovieSummary {
	page := s.randIntn(discoverPageSpan) + 1
	movies, err := s.gateway.DiscoverByGenres(ctx, genreIDs, page)
	if err != nil {
		log.Printf("[recommend] discovery failed (genres=%v page=%d): %v", genreIDs, page, err)
		return nil
	}
	return movies
}

// Surprise picks one movie the user is likely to enjoy: discovery weighted
// by the top watched genres, then unweighted discovery, then the weekly
// trending list, each filtered to well-rated candidates. Returns nil when
// every tier produced zero qualifying candidates; that is not an error.
func (s *Service) Surprise(ctx context.Context) (*models.MovieSummary, error) {
	var genreIDs []int
	texts, err := s.repo.WatchedGenreTexts()
	if err != nil {
		log.Printf("[recommend] loading watched genres failed: %v", err)
	} else {
		genreIDs = genres.TopIDs(texts, topGenreCount)
	}

	candidates := filterHighRated(s.discover(ctx, genreIDs))

	if len(candidates) == 0 && len(genreIDs) > 0 {
		candidates = filterHighRated(s.discover(ctx, nil))
	}

	if len(candidates) == 0 {
		trending, err := s.gateway.TrendingWeek(ctx)
		if err != nil {
			log.Printf("[recommend] trending fallback failed: %v", err)
		} else {
			candidates = filterHighRated(trending)
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	chosen := candidates[s.randIntn(len(candidates))]
	return &chosen, nil
}
