// Package server wires configuration, storage, the token lifecycle and the
// HTTP API into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/filex"
	"github.com/dmitrijs2005/travelwishlist/internal/logging"
	"github.com/dmitrijs2005/travelwishlist/internal/server/auth"
	"github.com/dmitrijs2005/travelwishlist/internal/server/config"
	"github.com/dmitrijs2005/travelwishlist/internal/server/credentials"
	"github.com/dmitrijs2005/travelwishlist/internal/server/httpserver"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/travelwishlist/internal/server/services"
	"golang.org/x/crypto/bcrypt"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpserver.Server
}

// NewApp validates c, opens and migrates the database and builds the
// services. Any error here is fatal for the process.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	d, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	if d == dbx.SQLite {
		if path, ok := filex.SQLiteFilePath(c.DatabaseDSN); ok {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, fmt.Errorf("db dir: %w", err)
			}
		}
	}

	db, err := dbx.Open(ctx, d, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, d, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, d dbx.Dialect, db *sql.DB) (*App, error) {
	rm, err := repomanager.New(d)
	if err != nil {
		return nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	verifier, err := credentials.NewVerifier(rm.Users(db), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewJWTSigner([]byte(c.SecretKey), c.Issuer, c.Audience, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(db, rm, verifier, signer, c.RefreshTokenValidityDuration, logger)
	ds := services.NewDestinationService(db, rm, logger)

	hs := httpserver.New(httpserver.Options{
		Address:        c.EndpointAddrHTTP,
		AllowedOrigins: c.AllowedOrigins,
		RequestTimeout: c.RequestTimeout,
	}, logger, as, ds, signer)

	logger.Info(ctx, "storage ready", "driver", string(d))

	return &App{config: c, logger: logger, db: db, http: hs}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
