// Package stats computes read-only rollups over favorites and watched
// entries.
package stats

import (
	"sort"
	"strings"

	"cinelog/internal/database"
	"cinelog/models"
)

// Service derives aggregate statistics from the local store.
type Service struct {
	repo *database.Repository
}

// NewService creates a stats service over the supplied repository.
func NewService(repo *database.Repository) *Service {
	return &Service{repo: repo}
}

// topCounted returns the most frequent key, breaking count ties toward the
// lexicographically smaller key so the result is deterministic.
func topCounted(counts map[string]int) *models.CountedKey {
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return &models.CountedKey{Key: keys[0], Count: counts[keys[0]]}
}

// Get computes the full stats rollup.
func (s *Service) Get() (models.Stats, error) {
	favoritesTotal, avgRating, err := s.repo.FavoriteAggregates()
	if err != nil {
		return models.Stats{}, err
	}

	watchedTotal, err := s.repo.WatchedCount()
	if err != nil {
		return models.Stats{}, err
	}

	topRated, err := s.repo.TopRatedFavorite()
	if err != nil {
		return models.Stats{}, err
	}

	watched, err := s.repo.WatchedEntries()
	if err != nil {
		return models.Stats{}, err
	}

	genreCounts := make(map[string]int)
	yearCounts := make(map[string]int)
	for _, entry := range watched {
		for _, genre := range strings.Split(entry.Genres, ",") {
			if key := strings.TrimSpace(genre); key != "" {
				genreCounts[key]++
			}
		}
		if len(entry.ReleaseDate) >= 4 {
			yearCounts[entry.ReleaseDate[:4]]++
		}
	}

	return models.Stats{
		FavoritesTotal:   favoritesTotal,
		AvgRating:        avgRating,
		WatchedTotal:     watchedTotal,
		TopRated:         topRated,
		MostWatchedGenre: topCounted(genreCounts),
		MostWatchedYear:  topCounted(yearCounts),
	}, nil
}
