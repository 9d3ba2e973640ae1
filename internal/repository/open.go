// Package repository resolves the configured credential store.
package repository

import (
	"context"
	"fmt"

	"github.com/dtroode/credcheck/internal/config"
	"github.com/dtroode/credcheck/internal/logger"
	"github.com/dtroode/credcheck/internal/model"
	"github.com/dtroode/credcheck/internal/repository/postgres"
	"github.com/dtroode/credcheck/internal/repository/sqlite"
	"github.com/dtroode/credcheck/internal/repository/static"
	storage "github.com/dtroode/credcheck/internal/storage/minio"
)

// Store is an opened credential store together with the resources behind it.
type Store struct {
	model.CredentialStore
	Kind  string
	close func() error
}

// Close releases the connection held by the store, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open builds the credential store selected by cfg. Every failure wraps model.ErrStoreInit.
func Open(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Store, error) {
	switch cfg.Store.Kind {
	case config.StoreKindStatic:
		return openStatic(ctx, cfg, logger)
	case config.StoreKindPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreKindSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown store kind %q", model.ErrStoreInit, cfg.Store.Kind)
	}
}

func openStatic(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Store, error) {
	var (
		store *static.Store
		err   error
	)
	if cfg.Static.ObjectKey != "" {
		var client *storage.Client
		client, err = storage.Dial(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrStoreInit, err)
		}
		store, err = static.LoadObject(ctx, client, cfg.Static.ObjectKey)
	} else {
		store, err = static.LoadFile(cfg.Static.Path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Store: loaded static user records",
		"path", cfg.Static.Path,
		"object_key", cfg.Static.ObjectKey,
		"records", store.Len())

	return &Store{CredentialStore: store, Kind: config.StoreKindStatic}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Store, error) {
	conn, err := postgres.NewConnection(ctx, postgres.ConnectionParams{
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		Migrate:  cfg.Database.Migrate,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStoreInit, err)
	}

	logger.Info("Store: connected to postgres",
		"host", cfg.Database.Host,
		"database", cfg.Database.Name)

	return &Store{
		CredentialStore: postgres.NewCredentialRepository(conn, cfg.Database.LookupTimeout),
		Kind:            config.StoreKindPostgres,
		close:           conn.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Store, error) {
	conn, err := sqlite.NewConnection(ctx, cfg.SQLite.Path, cfg.Database.Migrate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStoreInit, err)
	}

	logger.Info("Store: opened sqlite database", "path", cfg.SQLite.Path)

	return &Store{
		CredentialStore: sqlite.NewCredentialRepository(conn.DB, cfg.Database.LookupTimeout),
		Kind:            config.StoreKindSQLite,
		close:           conn.Close,
	}, nil
}
