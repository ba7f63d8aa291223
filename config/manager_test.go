package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"cinelog/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	manager := config.NewManagerWithFs(afero.NewMemMapFs(), "config.json")

	settings, err := manager.Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.themoviedb.org/3", settings.Catalog.BaseURL)
	require.Equal(t, "pt-BR", settings.Catalog.Language)
	require.Equal(t, 5, settings.SearchCache.MaxSnapshotsPerQuery)
	require.Equal(t, 1000, settings.SearchCache.MaxRows)
}

func TestLoadReadsFileValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{
		"catalog": {"baseUrl": "https://proxy.local/tmdb", "apiKey": "abc", "language": "en-US", "region": "US"},
		"searchCache": {"maxSnapshotsPerQuery": 2, "maxRows": 50}
	}`), 0o644))

	manager := config.NewManagerWithFs(fs, "config.json")
	settings, err := manager.Load()
	require.NoError(t, err)

	require.Equal(t, "https://proxy.local/tmdb", settings.Catalog.BaseURL)
	require.Equal(t, "abc", settings.Catalog.APIKey)
	require.Equal(t, "en-US", settings.Catalog.Language)
	require.Equal(t, 2, settings.SearchCache.MaxSnapshotsPerQuery)
	require.Equal(t, 50, settings.SearchCache.MaxRows)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{not json`), 0o644))

	_, err := config.NewManagerWithFs(fs, "config.json").Load()
	require.Error(t, err)
}

func TestEnvAPIKeyOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{"catalog": {"apiKey": "from-file"}}`), 0o644))
	t.Setenv("CINELOG_API_KEY", "from-env")

	settings, err := config.NewManagerWithFs(fs, "config.json").Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", settings.Catalog.APIKey)
}

func TestSaveRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	manager := config.NewManagerWithFs(fs, "config.json")

	settings := config.DefaultSettings()
	settings.Catalog.Region = "PT"
	require.NoError(t, manager.Save(settings))

	manager.Reload()
	reloaded, err := manager.Load()
	require.NoError(t, err)
	require.Equal(t, "PT", reloaded.Catalog.Region)
}
