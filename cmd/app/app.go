package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/api"
	"github.com/ieee-synapse/synapse-api/internal/blob"
	"github.com/ieee-synapse/synapse-api/internal/config"
	"github.com/ieee-synapse/synapse-api/internal/db"
	"github.com/ieee-synapse/synapse-api/internal/logger"
	"github.com/ieee-synapse/synapse-api/internal/pkg/googleauth"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

const (
	ConfigPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

// Init loads the config and sets up the global logger.
func Init(path string) (*config.AppConfig, error) {
	conf, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Log.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	return conf, nil
}

// OpenStore connects Postgres and S3 and applies migrations. The caller owns
// the returned store and must Close it.
func OpenStore(ctx context.Context, conf *config.AppConfig) (repository.Store, error) {
	postgresDB, err := db.OpenPostgres(conf.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	client, err := blob.NewS3Client(ctx, conf.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store -> %w", err)
	}
	store := repository.NewPostgresStore(postgresDB, blob.NewS3Backend(client, conf.S3.Bucket))

	if err = db.RunMigrations(ctx, postgresDB); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations -> %w", err)
	}

	return store, nil
}

func Start() error {
	conf, err := Init(ConfigPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	config.Watch(func(c *config.AppConfig) {
		if err := logger.SetLevel(c.Log.Level); err != nil {
			zap.L().Warn("config reload: bad log level", zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", c.Log.Level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := OpenStore(ctx, conf)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			zap.L().Warn("failed to close store", zap.Error(err))
		}
	}()

	sessions := session.NewResolver(store)
	s := api.NewServer(conf, store, sessions, googleauth.NewVerifier(conf.Google.ClientID))

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr), zap.String("session", sessions.Current().String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}
