package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/tutorship/internal/portal/http"
	"github.com/aussiebroadwan/tutorship/internal/session"
	"github.com/aussiebroadwan/tutorship/internal/storage"
	"github.com/aussiebroadwan/tutorship/internal/storage/drivers/sqlite"
	"github.com/aussiebroadwan/tutorship/internal/tabsync"
	"github.com/aussiebroadwan/tutorship/pkg/slogx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is one portal instance: a tab with its own session, sharing
// storage and the logout bus with its siblings.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       storage.Store
	redis    *redis.Client
	bus      tabsync.Bus
	registry *prometheus.Registry
	client   *tutorsdk.Client
	session  *session.Store

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tutorship-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStorage(); err != nil {
		return nil, err
	}
	if err := app.initBus(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initSession()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Session exposes the tab's session store.
func (app *Application) Session() *session.Store { return app.session }

// Run restores the session and serves until a shutdown signal arrives.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info("portal starting", "port", app.cfg.Port, "version", BuildVersion, "tab_id", app.session.TabID())

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Guarded routes answer "loading" until this returns.
	if err := app.session.Start(ctx); err != nil {
		app.logger.Error("session start failed", "error", err)
	}

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
	}

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	var errs []error
	if err := app.session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close session: %w", err))
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		app.logger.Error("error releasing resources", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// initStorage opens the local storage file and applies migrations.
func (app *Application) initStorage() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.StorageFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply storage migrations: %w", err)
	}

	app.logger.Info("storage migrations applied", "file", app.cfg.StorageFile)
	return nil
}

// initBus picks Redis when configured so portals in other processes see
// logouts, otherwise an in-process bus.
func (app *Application) initBus() error {
	if app.cfg.RedisAddr == "" {
		app.bus = tabsync.NewMemoryBus()
		app.logger.Info("logout sync is in-process only")
		return nil
	}

	app.redis = redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.redis.Ping(ctx).Err(); err != nil {
		_ = app.redis.Close()
		return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
	}

	app.bus = tabsync.NewRedisBus(app.redis, app.cfg.RedisPrefix, app.logger)
	app.logger.Info("logout sync over redis", "addr", app.cfg.RedisAddr, "prefix", app.cfg.RedisPrefix)
	return nil
}

// initSession wires the API client and the session store. The client reads
// its bearer credential back from the session.
func (app *Application) initSession() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := tutorsdk.NewClient(app.cfg.APIBaseURL)
	client.HTTPClient.Timeout = app.cfg.RequestTimeout
	client.Validator = tutorsdk.NewStructValidator()
	client.Metrics = tutorsdk.NewMetrics(app.registry)
	client.Logger = app.logger
	app.client = client

	app.session = session.New(session.Config{
		Client:  client,
		Cookies: app.db.Cookies(),
		Bus:     app.bus,
		Logger:  app.logger,
	})
	client.Credentials = app.session
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.session, app.client, app.db, app.registry, BuildVersion, app.logger)
	router.LoginLimit = app.cfg.LoginLimit
	router.RegisterLimit = app.cfg.RegisterLimit
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
