// Package server initializes and runs the climblog server: it opens the
// database, applies migrations, wires the services and serves the REST
// API and the HTML surface on one listener, with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ttakano/climblog/internal/logging"
	"github.com/ttakano/climblog/internal/server/config"
	"github.com/ttakano/climblog/internal/server/httpapi"
	"github.com/ttakano/climblog/internal/server/repositories/repomanager"
	"github.com/ttakano/climblog/internal/server/services"
	"github.com/ttakano/climblog/internal/server/web"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	userService     *services.UserService
	mountainService *services.MountainService
	recordService   *services.RecordService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &App{
		config:          cfg,
		logger:          logger,
		userService:     services.NewUserService(db, rm, cfg),
		mountainService: services.NewMountainService(db, rm, cfg),
		recordService:   services.NewRecordService(db, rm, cfg),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.mountainService, app.recordService)

	// the HTML surface rides on the same listener
	web.NewHandlers(app.logger, app.config,
		app.userService, app.mountainService, app.recordService).Register(s.Engine())

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
