package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cinelog/models"
)

const (
	// SearchHistoryLimit caps the search-term log.
	SearchHistoryLimit = 10
	// RecentlyViewedLimit caps the recently-viewed log.
	RecentlyViewedLimit = 15

	maxCommentLength = 140
)

// CachePolicy controls eviction of persisted search snapshots.
// Zero values disable the corresponding cap.
type CachePolicy struct {
	MaxSnapshotsPerQuery int
	MaxRows              int
}

// Repository provides all persistence operations over the local store.
type Repository struct {
	conn  *sql.DB
	cache CachePolicy
}

// NewRepository creates a repository backed by the supplied connection.
func NewRepository(conn *sql.DB, cache CachePolicy) *Repository {
	return &Repository{conn: conn, cache: cache}
}

// clampComment enforces the journal/comment length limit at the storage edge.
func clampComment(comment string) string {
	runes := []rune(comment)
	if len(runes) > maxCommentLength {
		return string(runes[:maxCommentLength])
	}
	return comment
}

// --- search cache ---

// SaveSearchSnapshot persists a new cache snapshot for the query and applies
// the configured eviction policy in the same transaction. Existing snapshots
// are never updated; lookups pick the newest one.
func (r *Repository) SaveSearchSnapshot(query string, results []models.MovieSummary) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tx, err := r.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO search_cache (query, results_json, created_at) VALUES (?, ?, ?)`,
		query, string(payload), time.Now(),
	); err != nil {
		return fmt.Errorf("insert search snapshot: %w", err)
	}

	if r.cache.MaxSnapshotsPerQuery > 0 {
		if _, err := tx.Exec(
			`DELETE FROM search_cache
			 WHERE query = ? AND id NOT IN (
			   SELECT id FROM search_cache
			   WHERE query = ?
			   ORDER BY created_at DESC, id DESC
			   LIMIT ?
			 )`,
			query, query, r.cache.MaxSnapshotsPerQuery,
		); err != nil {
			return fmt.Errorf("prune per-query snapshots: %w", err)
		}
	}

	if r.cache.MaxRows > 0 {
		if _, err := tx.Exec(
			`DELETE FROM search_cache
			 WHERE id NOT IN (
			   SELECT id FROM search_cache
			   ORDER BY created_at DESC, id DESC
			   LIMIT ?
			 )`,
			r.cache.MaxRows,
		); err != nil {
			return fmt.Errorf("prune global snapshots: %w", err)
		}
	}

	return tx.Commit()
}

// LatestSearchSnapshot returns the most recent cached result set for exactly
// this query string. The second return value reports whether one was found;
// a snapshot whose payload no longer parses counts as not found.
func (r *Repository) LatestSearchSnapshot(query string) ([]models.MovieSummary, bool, error) {
	var payload string
	err := r.conn.QueryRow(
		`SELECT results_json FROM search_cache
		 WHERE query = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		query,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load search snapshot: %w", err)
	}

	var results []models.MovieSummary
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, false, nil
	}
	return results, true, nil
}

// SearchCacheSize returns the current number of snapshot rows.
func (r *Repository) SearchCacheSize() (int, error) {
	var count int
	if err := r.conn.QueryRow(`SELECT COUNT(*) FROM search_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count search cache: %w", err)
	}
	return count, nil
}

// --- search history ---

// RecordSearchTerm upserts the term's recency and trims the log to its cap.
// Upsert and trim run in one transaction so concurrent writes cannot leave
// the log over its cap.
func (r *Repository) RecordSearchTerm(term string) error {
	tx, err := r.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO search_history (term, last_used_at) VALUES (?, ?)
		 ON CONFLICT(term) DO UPDATE SET last_used_at=excluded.last_used_at`,
		term, time.Now(),
	); err != nil {
		return fmt.Errorf("upsert search term: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM search_history
		 WHERE term NOT IN (
		   SELECT term FROM search_history
		   ORDER BY last_used_at DESC, id DESC
		   LIMIT ?
		 )`,
		SearchHistoryLimit,
	); err != nil {
		return fmt.Errorf("trim search history: %w", err)
	}

	return tx.Commit()
}

// SearchHistory returns the logged terms, most recently used first.
func (r *Repository) SearchHistory() ([]string, error) {
	rows, err := r.conn.Query(
		`SELECT term FROM search_history
		 ORDER BY last_used_at DESC, id DESC
		 LIMIT ?`,
		SearchHistoryLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("load search history: %w", err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan search term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// ClearSearchHistory removes every logged term.
func (r *Repository) ClearSearchHistory() error {
	if _, err := r.conn.Exec(`DELETE FROM search_history`); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	return nil
}

// --- favorites ---

// UpsertFavorite inserts or replaces the favorite keyed by TMDB id.
func (r *Repository) UpsertFavorite(fav models.Favorite) error {
	createdAt := fav.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.conn.Exec(
		`INSERT INTO favorites (tmdb_id, title, poster_url, overview, release_date, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tmdb_id) DO UPDATE SET
		   title=excluded.title,
		   poster_url=excluded.poster_url,
		   overview=excluded.overview,
		   release_date=excluded.release_date,
		   rating=excluded.rating,
		   comment=excluded.comment`,
		fav.TMDBID, fav.Title, fav.PosterURL, fav.Overview, fav.ReleaseDate,
		fav.Rating, clampComment(fav.Comment), createdAt,
	)
	if err != nil {
		return fmt.Errorf("upsert favorite: %w", err)
	}
	return nil
}

// Favorites returns all favorites, most recently added first.
func (r *Repository) Favorites() ([]models.Favorite, error) {
	rows, err := r.conn.Query(
		`SELECT tmdb_id, title, poster_url, overview, release_date, rating, comment, created_at
		 FROM favorites
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		if err := rows.Scan(&fav.TMDBID, &fav.Title, &fav.PosterURL, &fav.Overview,
			&fav.ReleaseDate, &fav.Rating, &fav.Comment, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// FavoriteByID returns the favorite with the given TMDB id, or nil.
func (r *Repository) FavoriteByID(tmdbID int) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.conn.QueryRow(
		`SELECT tmdb_id, title, poster_url, overview, release_date, rating, comment, created_at
		 FROM favorites
		 WHERE tmdb_id = ?`,
		tmdbID,
	).Scan(&fav.TMDBID, &fav.Title, &fav.PosterURL, &fav.Overview,
		&fav.ReleaseDate, &fav.Rating, &fav.Comment, &fav.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load favorite: %w", err)
	}
	return &fav, nil
}

// RemoveFavorite hard-deletes the favorite; removing an absent id is a no-op.
func (r *Repository) RemoveFavorite(tmdbID int) error {
	if _, err := r.conn.Exec(`DELETE FROM favorites WHERE tmdb_id = ?`, tmdbID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// FavoriteAggregates returns the favorite count and the mean rating (0 when empty).
func (r *Repository) FavoriteAggregates() (int, float64, error) {
	var total int
	var avg sql.NullFloat64
	err := r.conn.QueryRow(`SELECT COUNT(*), AVG(rating) FROM favorites`).Scan(&total, &avg)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate favorites: %w", err)
	}
	return total, avg.Float64, nil
}

// TopRatedFavorite returns the highest-rated favorite, or nil when there are
// none. Ties break toward the earliest stored row so the result is stable.
func (r *Repository) TopRatedFavorite() (*models.Favorite, error) {
	var fav models.Favorite
	err := r.conn.QueryRow(
		`SELECT tmdb_id, title, poster_url, overview, release_date, rating, comment, created_at
		 FROM favorites
		 ORDER BY rating DESC, id ASC
		 LIMIT 1`,
	).Scan(&fav.TMDBID, &fav.Title, &fav.PosterURL, &fav.Overview,
		&fav.ReleaseDate, &fav.Rating, &fav.Comment, &fav.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load top rated favorite: %w", err)
	}
	return &fav, nil
}

// --- watchlist ---

// UpsertWatchlistItem inserts or refreshes the watchlist entry keyed by TMDB id.
func (r *Repository) UpsertWatchlistItem(item models.WatchlistItem) error {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.conn.Exec(
		`INSERT INTO watchlist (tmdb_id, title, poster_url, overview, release_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tmdb_id) DO UPDATE SET
		   title=excluded.title,
		   poster_url=excluded.poster_url,
		   overview=excluded.overview,
		   release_date=excluded.release_date`,
		item.TMDBID, item.Title, item.PosterURL, item.Overview, item.ReleaseDate, createdAt,
	)
	if err != nil {
		return fmt.Errorf("upsert watchlist item: %w", err)
	}
	return nil
}

// Watchlist returns all watchlist entries, most recently added first.
func (r *Repository) Watchlist() ([]models.WatchlistItem, error) {
	rows, err := r.conn.Query(
		`SELECT tmdb_id, title, poster_url, overview, release_date, created_at
		 FROM watchlist
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	defer rows.Close()

	var items []models.WatchlistItem
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(&item.TMDBID, &item.Title, &item.PosterURL, &item.Overview,
			&item.ReleaseDate, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RemoveFromWatchlist hard-deletes the entry; absent ids are a no-op.
func (r *Repository) RemoveFromWatchlist(tmdbID int) error {
	if _, err := r.conn.Exec(`DELETE FROM watchlist WHERE tmdb_id = ?`, tmdbID); err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}
	return nil
}

// --- watched ---

// UpsertWatched inserts or replaces the watched entry keyed by TMDB id.
func (r *Repository) UpsertWatched(entry models.WatchedEntry) error {
	watchedAt := entry.WatchedAt
	if watchedAt.IsZero() {
		watchedAt = time.Now()
	}

	_, err := r.conn.Exec(
		`INSERT INTO watched (tmdb_id, title, poster_url, overview, release_date, genres, mood, journal_comment, watched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tmdb_id) DO UPDATE SET
		   title=excluded.title,
		   poster_url=excluded.poster_url,
		   overview=excluded.overview,
		   release_date=excluded.release_date,
		   genres=excluded.genres,
		   mood=excluded.mood,
		   journal_comment=excluded.journal_comment,
		   watched_at=excluded.watched_at`,
		entry.TMDBID, entry.Title, entry.PosterURL, entry.Overview, entry.ReleaseDate,
		entry.Genres, entry.Mood, clampComment(entry.JournalComment), watchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert watched entry: %w", err)
	}
	return nil
}

// WatchedEntries returns all watched entries, most recently watched first.
func (r *Repository) WatchedEntries() ([]models.WatchedEntry, error) {
	rows, err := r.conn.Query(
		`SELECT tmdb_id, title, poster_url, overview, release_date, genres, mood, journal_comment, watched_at
		 FROM watched
		 ORDER BY watched_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("load watched entries: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchedEntry
	for rows.Next() {
		var entry models.WatchedEntry
		if err := rows.Scan(&entry.TMDBID, &entry.Title, &entry.PosterURL, &entry.Overview,
			&entry.ReleaseDate, &entry.Genres, &entry.Mood, &entry.JournalComment,
			&entry.WatchedAt); err != nil {
			return nil, fmt.Errorf("scan watched entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// WatchedByID returns the watched entry with the given TMDB id, or nil.
func (r *Repository) WatchedByID(tmdbID int) (*models.WatchedEntry, error) {
	var entry models.WatchedEntry
	err := r.conn.QueryRow(
		`SELECT tmdb_id, title, poster_url, overview, release_date, genres, mood, journal_comment, watched_at
		 FROM watched
		 WHERE tmdb_id = ?`,
		tmdbID,
	).Scan(&entry.TMDBID, &entry.Title, &entry.PosterURL, &entry.Overview,
		&entry.ReleaseDate, &entry.Genres, &entry.Mood, &entry.JournalComment,
		&entry.WatchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load watched entry: %w", err)
	}
	return &entry, nil
}

// WatchedGenreTexts returns the non-empty denormalized genre strings of all
// watched entries, ready for tokenizing.
func (r *Repository) WatchedGenreTexts() ([]string, error) {
	rows, err := r.conn.Query(
		`SELECT genres FROM watched WHERE genres IS NOT NULL AND genres != ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("load watched genres: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var genres string
		if err := rows.Scan(&genres); err != nil {
			return nil, fmt.Errorf("scan watched genres: %w", err)
		}
		if strings.TrimSpace(genres) != "" {
			texts = append(texts, genres)
		}
	}
	return texts, rows.Err()
}

// WatchedCount returns the number of watched entries.
func (r *Repository) WatchedCount() (int, error) {
	var count int
	if err := r.conn.QueryRow(`SELECT COUNT(*) FROM watched`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count watched entries: %w", err)
	}
	return count, nil
}

// --- recently viewed ---

// RecordRecentlyViewed upserts the viewed movie, refreshing its display
// fields and recency, then trims the log to its cap in the same transaction.
func (r *Repository) RecordRecentlyViewed(movie models.RecentlyViewedMovie) error {
	viewedAt := movie.ViewedAt
	if viewedAt.IsZero() {
		viewedAt = time.Now()
	}

	tx, err := r.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO recently_viewed (tmdb_id, title, poster_url, overview, release_date, viewed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tmdb_id) DO UPDATE SET
		   title=excluded.title,
		   poster_url=excluded.poster_url,
		   overview=excluded.overview,
		   release_date=excluded.release_date,
		   viewed_at=excluded.viewed_at`,
		movie.TMDBID, movie.Title, movie.PosterURL, movie.Overview, movie.ReleaseDate, viewedAt,
	); err != nil {
		return fmt.Errorf("upsert recently viewed: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM recently_viewed
		 WHERE tmdb_id NOT IN (
		   SELECT tmdb_id FROM recently_viewed
		   ORDER BY viewed_at DESC, id DESC
		   LIMIT ?
		 )`,
		RecentlyViewedLimit,
	); err != nil {
		return fmt.Errorf("trim recently viewed: %w", err)
	}

	return tx.Commit()
}

// RecentlyViewed returns the viewed log, most recent first.
func (r *Repository) RecentlyViewed() ([]models.RecentlyViewedMovie, error) {
	rows, err := r.conn.Query(
		`SELECT tmdb_id, title, poster_url, overview, release_date, viewed_at
		 FROM recently_viewed
		 ORDER BY viewed_at DESC, id DESC
		 LIMIT ?`,
		RecentlyViewedLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("load recently viewed: %w", err)
	}
	defer rows.Close()

	var movies []models.RecentlyViewedMovie
	for rows.Next() {
		var movie models.RecentlyViewedMovie
		if err := rows.Scan(&movie.TMDBID, &movie.Title, &movie.PosterURL, &movie.Overview,
			&movie.ReleaseDate, &movie.ViewedAt); err != nil {
			return nil, fmt.Errorf("scan recently viewed: %w", err)
		}
		movies = append(movies, movie)
	}
	return movies, rows.Err()
}

// ClearRecentlyViewed removes every viewed log entry.
func (r *Repository) ClearRecentlyViewed() error {
	if _, err := r.conn.Exec(`DELETE FROM recently_viewed`); err != nil {
		return fmt.Errorf("clear recently viewed: %w", err)
	}
	return nil
}
