package cmd

import (
	"context"
	"fmt"

	"country-cache/core/artifact"
	"country-cache/core/config"
	"country-cache/core/database"
	"country-cache/core/logger"
	"country-cache/core/storage"
	"country-cache/feature/countries/refresh"
	"country-cache/feature/countries/sources"
	"country-cache/feature/countries/store"
	"country-cache/feature/countries/summary"

	"go.uber.org/zap"
)

// service is the wired pipeline shared by every command.
type service struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *store.Store
	artifacts artifact.Store
	sync      *refresh.Synchronizer
}

// bootstrap loads configuration and wires the pipeline. Configuration faults
// are returned before any connection is attempted.
func bootstrap(ctx context.Context) (*service, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	adapter, err := sources.NewAdapter(cfg.Sources, nil, logg)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	logg.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("name", cfg.Database.Name))

	st := store.New(db, cfg.Database.BatchSize)
	if err := st.AutoMigrate(); err != nil {
		return nil, err
	}

	artifacts, err := newArtifactStore(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}

	pub := summary.NewPublisher(st, artifacts, cfg.Artifact.Key, logg,
		summary.PNGRenderer{},
		summary.XLSXRenderer{},
	)
	sync := refresh.NewSynchronizer(adapter, st, pub, logg)

	return &service{
		cfg:       cfg,
		logger:    logg,
		store:     st,
		artifacts: artifacts,
		sync:      sync,
	}, nil
}

func newArtifactStore(ctx context.Context, cfg *config.Config, logg *zap.Logger) (artifact.Store, error) {
	switch cfg.Artifact.Backend {
	case artifact.BackendS3:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		logg.Info("Artifacts stored in bucket",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("prefix", cfg.Artifact.Prefix))
		return artifact.NewObjectStore(client, cfg.Storage.Bucket, cfg.Artifact.Prefix), nil
	default:
		fs, err := artifact.NewFileStore(cfg.Artifact.Dir)
		if err != nil {
			return nil, err
		}
		logg.Info("Artifacts stored on disk", zap.String("dir", cfg.Artifact.Dir))
		return fs, nil
	}
}
