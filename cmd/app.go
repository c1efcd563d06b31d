package cmd

import (
	"fmt"

	"playlist-archiver/core/config"
	"playlist-archiver/core/database"
	"playlist-archiver/core/logger"
	"playlist-archiver/core/storage"
	"playlist-archiver/core/store"
	"playlist-archiver/core/youtube"

	"go.uber.org/zap"
)

// app bundles what every command needs: configuration, logger and the record store.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  store.Store
	deps   store.Deps
}

// setup loads the configuration and opens the configured record store.
// Storage and database connections are only made for the backend that needs them.
func setup() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !cfg.Archive.IsValidBackend() {
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}

	deps := store.Deps{Bucket: cfg.Storage.Bucket}
	switch cfg.Archive.Backend {
	case store.BackendObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		deps.Client = client
	case store.BackendSQL:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.DB = db
	}

	st, err := store.New(cfg.Archive, deps)
	if err != nil {
		return nil, err
	}

	logg = logg.With(zap.String("backend", st.Backend()))
	return &app{cfg: cfg, logger: logg, store: st, deps: deps}, nil
}

// connect creates the authenticator and the per-account client connector.
func (a *app) connect() (*youtube.Authenticator, *youtube.Connector, error) {
	auth, err := youtube.NewAuthenticator(a.cfg.YouTube, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return auth, youtube.NewConnector(a.cfg.YouTube, auth, a.logger), nil
}
