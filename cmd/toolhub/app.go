package main

import (
	"context"
	"fmt"
	"time"

	"github.com/HerbHall/toolhub/internal/catalog"
	"github.com/HerbHall/toolhub/internal/config"
	"github.com/HerbHall/toolhub/internal/preferences"
	"github.com/HerbHall/toolhub/internal/server"
	"github.com/HerbHall/toolhub/internal/session"
	"github.com/HerbHall/toolhub/internal/store"
	pkgcatalog "github.com/HerbHall/toolhub/pkg/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// app holds every initialized component of a running server.
type app struct {
	settings config.Settings
	logger   *zap.Logger

	watcher  *pkgcatalog.FileSource
	sessions *session.Manager
	server   *server.Server

	closers []func() error
}

// newApp wires the components described by settings.
func newApp(ctx context.Context, settings config.Settings, logger *zap.Logger) (*app, error) {
	a := &app{settings: settings, logger: logger}

	src, err := a.catalogSource()
	if err != nil {
		return nil, err
	}
	engine := catalog.NewEngine(src, settings.Catalog.PageSize, logger.Named("catalog"))

	repo, err := a.preferenceRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	prefs := preferences.NewService(repo, settings.Preferences.Namespace, logger.Named("preferences"),
		preferences.WithCacheSize(settings.Preferences.CacheSize),
		preferences.WithCacheTTL(settings.Preferences.CacheTTL),
	)

	var profiles preferences.ProfileSource
	if settings.Profile.BaseURL != "" {
		hp := preferences.NewHTTPProfileSource(settings.Profile.BaseURL, settings.Profile.Timeout)
		a.closers = append(a.closers, hp.Close)
		profiles = hp
		logger.Info("remote profile reconciliation enabled", zap.String("base_url", settings.Profile.BaseURL))
	}

	a.sessions = session.NewManager(settings.Session.TTL, logger.Named("session"))

	a.server = server.New(
		server.Options{
			Addr:      settings.Server.Addr(),
			RateLimit: settings.Server.RateLimit.RPS,
			Burst:     settings.Server.RateLimit.Burst,
		},
		logger.Named("http"),
		catalog.NewHandler(engine, logger.Named("catalog")),
		session.NewHandler(a.sessions, engine, prefs, profiles, logger.Named("session")),
		preferences.NewHandler(prefs, logger.Named("preferences")),
	)
	return a, nil
}

func (a *app) catalogSource() (pkgcatalog.Source, error) {
	path := a.settings.Catalog.Path
	if path == "" {
		a.logger.Info("using embedded catalog")
		return pkgcatalog.NewCatalog(), nil
	}
	fileSrc, err := pkgcatalog.NewFileSource(path, a.logger.Named("catalog"))
	if err != nil {
		return nil, err
	}
	if a.settings.Catalog.Watch {
		a.watcher = fileSrc
	}
	return fileSrc, nil
}

func (a *app) preferenceRepository(ctx context.Context) (preferences.Repository, error) {
	cfg := a.settings.Preferences
	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		a.logger.Info("preferences stored in redis", zap.String("addr", cfg.Redis.Addr))
		return preferences.NewRedisRepository(client), nil

	default:
		db, err := store.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		repo, err := preferences.NewSQLiteRepository(ctx, db)
		if err != nil {
			return nil, err
		}
		a.logger.Info("preferences stored in sqlite", zap.String("path", cfg.SQLitePath))
		return repo, nil
	}
}

// Run serves until ctx is cancelled or a component fails.
func (a *app) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.server.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.sessions.Run(ctx, a.settings.Session.SweepInterval)
	})

	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.Watch(ctx)
		})
	}

	return g.Wait()
}

// Close releases stores and clients in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
