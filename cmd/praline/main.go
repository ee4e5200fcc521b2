package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/arawak/praline/internal/config"
	"github.com/arawak/praline/internal/httpapi"
	"github.com/arawak/praline/internal/ml"
	"github.com/arawak/praline/internal/search"
	"github.com/arawak/praline/internal/store"
	"github.com/arawak/praline/internal/vectorindex"
	"github.com/arawak/praline/migrations"
)

var version = "dev"

// settings adapts the static env configuration to the toggles the search
// core consults per request.
type settings struct {
	cfg *config.Config
}

func (s settings) FeatureEnabled(feature search.Feature) bool {
	switch feature {
	case search.FeatureSearch:
		return s.cfg.SearchEnabled
	case search.FeatureSmartSearch:
		return s.cfg.SearchEnabled && s.cfg.ML.CLIPEnabled
	default:
		return false
	}
}

func (s settings) MachineLearning() search.MachineLearningConfig {
	return search.MachineLearningConfig{URL: s.cfg.ML.URL, Model: s.cfg.ML.CLIPModel}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With("version", version)

	var apiKeys *httpapi.APIKeyStore
	if cfg.AuthMode == config.AuthAPIKey {
		apiKeys, err = httpapi.LoadAPIKeys(cfg.APIKeysFile)
		if err != nil {
			logger.Error("failed to load api keys", "error", err)
			os.Exit(1)
		}
	}

	db, err := sqlx.Open("mysql", cfg.DBDSN)
	if err != nil {
		logger.Error("failed to open db", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := migrations.Up(cfg.DBDSN); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	vectors, err := vectorindex.Open(cfg.VectorDBPath, cfg.ML.CLIPDimensions)
	if err != nil {
		logger.Error("failed to open vector index", "error", err)
		os.Exit(1)
	}

	storeSvc := store.New(db)
	embedder := ml.NewClient(logger)
	searchSvc := search.NewService(
		storeSvc, storeSvc, vectors, embedder, settings{cfg: cfg},
		store.FacetOptions{MaxFields: cfg.ExploreMaxFields, MinAssetsPerField: cfg.ExploreMinAssets},
		logger,
	)
	router := httpapi.NewRouter(cfg, storeSvc, searchSvc, apiKeys, logger)

	srv := &http.Server{Addr: cfg.Bind, Handler: router}
	go func() {
		logger.Info("server starting", "addr", cfg.Bind)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := vectors.Close(); err != nil {
		logger.Error("vector index close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
}
