package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// CatalogConfig holds remote catalog API settings.
type CatalogConfig struct {
	BaseURL      string `json:"baseUrl"`
	ImageBaseURL string `json:"imageBaseUrl"`
	APIKey       string `json:"apiKey"`
	Language     string `json:"language"`
	Region       string `json:"region"`
}

// DatabaseConfig holds local store settings.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// SearchCacheConfig controls eviction of persisted search snapshots.
// Zero values disable the corresponding cap.
type SearchCacheConfig struct {
	MaxSnapshotsPerQuery int `json:"maxSnapshotsPerQuery"`
	MaxRows              int `json:"maxRows"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr string `json:"listenAddr"`
}

// LoggingConfig holds rotating log file settings.
type LoggingConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

// Settings is the full application configuration.
type Settings struct {
	Catalog     CatalogConfig     `json:"catalog"`
	Database    DatabaseConfig    `json:"database"`
	SearchCache SearchCacheConfig `json:"searchCache"`
	Server      ServerConfig      `json:"server"`
	Logging     LoggingConfig     `json:"logging"`
}

// DefaultSettings returns the configuration used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		Catalog: CatalogConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Language:     "pt-BR",
			Region:       "BR",
		},
		Database: DatabaseConfig{
			Path: "data/cinelog.db",
		},
		SearchCache: SearchCacheConfig{
			MaxSnapshotsPerQuery: 5,
			MaxRows:              1000,
		},
		Server: ServerConfig{
			ListenAddr: ":8480",
		},
		Logging: LoggingConfig{
			Path:       "data/cinelog.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Manager loads and caches application settings from a JSON file.
type Manager struct {
	fs   afero.Fs
	path string

	mu     sync.RWMutex
	loaded *Settings
}

// NewManager creates a manager reading from the OS filesystem.
func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path)
}

// NewManagerWithFs creates a manager with an explicit filesystem, used by tests.
func NewManagerWithFs(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path}
}

// Load returns the current settings, reading the config file on first use.
// A missing file yields defaults; the API key can always be supplied via the
// CINELOG_API_KEY or TMDB_API_KEY environment variables.
func (m *Manager) Load() (Settings, error) {
	m.mu.RLock()
	if m.loaded != nil {
		s := *m.loaded
		m.mu.RUnlock()
		return s, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded != nil {
		return *m.loaded, nil
	}

	settings := DefaultSettings()

	exists, err := afero.Exists(m.fs, m.path)
	if err != nil {
		return Settings{}, fmt.Errorf("stat config file: %w", err)
	}
	if exists {
		data, err := afero.ReadFile(m.fs, m.path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("parse config file %s: %w", m.path, err)
		}
	}

	applyEnvOverrides(&settings)

	m.loaded = &settings
	return settings, nil
}

// Reload drops the cached settings so the next Load rereads the file.
func (m *Manager) Reload() {
	m.mu.Lock()
	m.loaded = nil
	m.mu.Unlock()
}

// Save writes the supplied settings back to the config file and caches them.
func (m *Manager) Save(settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := afero.WriteFile(m.fs, m.path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	m.loaded = &settings
	return nil
}

func applyEnvOverrides(settings *Settings) {
	if key := os.Getenv("CINELOG_API_KEY"); key != "" {
		settings.Catalog.APIKey = key
	} else if key := os.Getenv("TMDB_API_KEY"); key != "" {
		settings.Catalog.APIKey = key
	}
	if addr := os.Getenv("CINELOG_LISTEN_ADDR"); addr != "" {
		settings.Server.ListenAddr = addr
	}
	if path := os.Getenv("CINELOG_DB_PATH"); path != "" {
		settings.Database.Path = path
	}
}
