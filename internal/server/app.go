// Package server wires the accounts service together: database and
// migrations, avatar storage, the account workflow and its HTTP and gRPC
// transports. It handles signals and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accounts/internal/cryptox"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/avatars"
	"github.com/dmitrijs2005/accounts/internal/server/config"
	"github.com/dmitrijs2005/accounts/internal/server/httpapi"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/accounts/internal/server/grpc"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	accounts  *services.AccountService
	avatarDir string
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, avatarDir, err := newAvatarStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("avatar store init error: %w", err)
	}
	if err := store.SeedDefault(ctx, c.DefaultAvatar); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("default avatar error: %w", err)
	}

	hasher := cryptox.NewArgon2Hasher(cryptox.DefaultArgon2Params())
	svc := services.NewAccountService(db, rm, hasher, store, logger, services.OptionsFromConfig(c))

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		accounts:  svc,
		avatarDir: avatarDir,
	}, nil
}

// newAvatarStore returns the configured avatar backend and, for the disk
// backend, the directory the HTTP server should serve.
func newAvatarStore(ctx context.Context, c *config.Config) (avatars.Store, string, error) {
	switch c.AvatarStorage {
	case config.AvatarStorageDisk:
		s, err := avatars.NewDiskStore(c.AvatarDir)
		if err != nil {
			return nil, "", err
		}
		return s, s.Dir(), nil
	case config.AvatarStorageS3:
		s, err := avatars.NewS3Store(ctx, avatars.S3Options{
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	}
	return nil, "", fmt.Errorf("unknown avatar storage %q", c.AvatarStorage)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts both transports and blocks until ctx is canceled, a signal
// arrives or one of the servers fails. The first server failure is returned.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Logger:    app.logger,
		Service:   app.accounts,
		AvatarDir: app.avatarDir,
	})
	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("grpc", grpcServer.Run)
	go run("http", httpServer.Run)
	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return errors.Join(errs...)
}
