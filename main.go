package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinelog/config"
	"cinelog/handlers"
	"cinelog/internal/database"
	"cinelog/services/catalog"
	"cinelog/services/library"
	"cinelog/services/recommend"
	"cinelog/services/search"
	"cinelog/services/stats"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err == nil {
		log.Printf("[main] loaded .env")
	}

	configPath := os.Getenv("CINELOG_CONFIG")
	if configPath == "" {
		configPath = "config.json"
	}

	manager := config.NewManager(configPath)
	settings, err := manager.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}

	if settings.Logging.Path != "" {
		rotator := &lumberjack.Logger{
			Filename:   settings.Logging.Path,
			MaxSize:    settings.Logging.MaxSizeMB,
			MaxBackups: settings.Logging.MaxBackups,
			MaxAge:     settings.Logging.MaxAgeDays,
		}
		log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}

	if settings.Catalog.APIKey == "" {
		log.Printf("[main] warning: no catalog API key configured; remote calls will fail and searches fall back to cache")
	}

	db, err := database.NewDB(database.Config{
		DatabasePath: settings.Database.Path,
		Cache: database.CachePolicy{
			MaxSnapshotsPerQuery: settings.SearchCache.MaxSnapshotsPerQuery,
			MaxRows:              settings.SearchCache.MaxRows,
		},
	})
	if err != nil {
		log.Fatalf("[main] failed to open database: %v", err)
	}
	defer db.Close()

	client := catalog.NewClient(settings.Catalog)

	searchSvc := search.NewService(db.Repository, client)
	librarySvc := library.NewService(db.Repository)
	recommendSvc := recommend.NewService(db.Repository, client)
	statsSvc := stats.NewService(db.Repository)

	router := handlers.NewRouter(
		handlers.NewSearchHandler(searchSvc),
		handlers.NewLibraryHandler(librarySvc),
		handlers.NewCatalogHandler(client, librarySvc),
		handlers.NewRecommendHandler(recommendSvc, librarySvc),
		handlers.NewStatsHandler(statsSvc),
	)

	log.Printf("[main] listening on %s", settings.Server.ListenAddr)
	if err := http.ListenAndServe(settings.Server.ListenAddr, router); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
