// Command blpgate runs the interactive Bell-LaPadula access control system:
// it wires storage, auditing, and the domain services, then hands control to
// the console loop. Business logic lives in the internal packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"blpgate/internal/audit"
	"blpgate/internal/auth"
	"blpgate/internal/console"
	"blpgate/internal/directory"
	"blpgate/internal/mediator"
	"blpgate/internal/metrics"
	"blpgate/internal/platform/config"
	"blpgate/internal/platform/logger"
	platformredis "blpgate/internal/platform/redis"
	"blpgate/internal/storage"
	"blpgate/internal/storage/postgres"
	"blpgate/internal/storage/sqlite"
	"blpgate/internal/users"
)

func main() {
	configPath := flag.String("config", "blpgate.toml", "path to TOML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := logger.New(level)
	slog.SetDefault(log)

	if err := run(*configPath, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStores()

	m := metrics.New()
	publisher := audit.NewPublisher(stores.audit, audit.WithLogger(log))
	reports, err := audit.NewService(stores.audit)
	if err != nil {
		return err
	}

	lockouts, closeLockouts, err := openLockouts(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLockouts()

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSigningKey, "blpgate", cfg.Auth.SessionTTL.Duration)
	if err != nil {
		return err
	}
	authSvc, err := auth.New(stores.users, lockouts, tokens, publisher,
		auth.WithLogger(log),
		auth.WithMetrics(m),
		auth.WithMaxLoginAttempts(cfg.Auth.MaxLoginAttempts),
	)
	if err != nil {
		return err
	}
	mediatorSvc, err := mediator.New(stores.users, stores.objects, publisher,
		mediator.WithLogger(log),
		mediator.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	directorySvc, err := directory.New(stores.users, stores.objects)
	if err != nil {
		return err
	}
	adminSvc, err := users.New(stores.users, stores.objects, reports, publisher, users.WithLogger(log))
	if err != nil {
		return err
	}

	if err := bootstrapAdmin(ctx, cfg.Bootstrap, stores.users, authSvc, log); err != nil {
		return err
	}

	ui, err := console.New(authSvc, mediatorSvc, directorySvc, adminSvc, reports, console.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("starting blpgate", "storage_engine", cfg.Storage.Engine)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer stop()
		return ui.Run(ctx)
	})
	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

type storeSet struct {
	users   storage.UserStore
	objects storage.ObjectStore
	audit   audit.Store
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (storeSet, func(), error) {
	switch cfg.Engine {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return storeSet{}, nil, err
		}
		return storeSet{users: db.Users(), objects: db.Objects(), audit: db.Audit()},
			func() { _ = db.Close() }, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return storeSet{}, nil, err
		}
		return storeSet{users: db.Users(), objects: db.Objects(), audit: db.Audit()},
			func() { _ = db.Close() }, nil
	case "memory":
		return storeSet{
			users:   storage.NewInMemoryUserStore(),
			objects: storage.NewInMemoryObjectStore(),
			audit:   storage.NewInMemoryAuditStore(),
		}, func() {}, nil
	default:
		return storeSet{}, nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}

func openLockouts(ctx context.Context, cfg config.Config, log *slog.Logger) (auth.LockoutStore, func(), error) {
	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return auth.NewInMemoryLockoutStore(cfg.Auth.LockoutWindow.Duration), func() {}, nil
	}
	log.Info("using redis lockout store", "url", cfg.Redis.URL)
	return auth.NewRedisLockoutStore(client.Client, cfg.Auth.LockoutWindow.Duration),
		func() { _ = client.Close() }, nil
}

// bootstrapAdmin seeds the configured super admin on an empty directory so a
// fresh deployment is administrable without interactive registration.
func bootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig, userStore storage.UserStore, authSvc *auth.Service, log *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	counts, err := userStore.Counts(ctx)
	if err != nil {
		return err
	}
	if counts.Total > 0 {
		return nil
	}
	admin, err := authSvc.Register(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}
	log.Info("bootstrapped initial super admin", "username", admin.Username)
	return nil
}
