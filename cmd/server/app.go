package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"

	auth "github.com/goliatone/go-campus-auth"
	"github.com/goliatone/go-campus-auth/activitymap"
	"github.com/goliatone/go-campus-auth/config"
	"github.com/goliatone/go-campus-auth/metrics"
	"github.com/goliatone/go-campus-auth/records"
	"github.com/goliatone/go-campus-auth/repository"
)

// App holds the wired server and the resources it owns
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *bun.DB
	server router.Server[*fiber.App]
}

// NewApp opens the database, runs migrations and mounts every route
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	provider := auth.NewSlogProvider(logger)
	appLogger := provider.GetLogger("server")

	db, err := repository.Open(ctx, cfg.RepositoryOptions())
	if err != nil {
		return nil, err
	}

	if cfg.DB.Migrate {
		if err := repository.Migrate(ctx, db, provider.GetLogger("repository.migrate")); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sink := auth.MultiActivitySink{
		metrics.NewSink(registry),
		activitymap.NewLogSink(provider.GetLogger("auth.activity")),
	}

	hasher := auth.NewHasher(auth.WithConcurrency(cfg.HashConcurrency))
	tokens := auth.NewTokenServiceFromConfig(cfg, auth.WithTokenLogger(provider.GetLogger("auth.tokens")))

	validators := []auth.TokenValidator{tokens}
	if cfg.PreviousKey != "" {
		validators = append(validators, auth.NewTokenService(
			[]byte(cfg.PreviousKey), cfg.TokenTTL,
			auth.WithIssuer(cfg.Issuer),
			auth.WithTokenLogger(provider.GetLogger("auth.tokens")),
		))
	}

	registerer := auth.NewRegisterStudentHandler(repo.Students(), hasher,
		auth.WithRegisterLogger(provider.GetLogger("auth.register")),
		auth.WithRegisterActivitySink(sink),
		auth.WithHashidIDs(cfg.UseHashid),
	)

	auther := auth.NewAuthenticator(repo.Students(), hasher, tokens).
		WithLogger(provider.GetLogger("auth.login")).
		WithActivitySink(sink)

	guard := auth.NewHTTPAuthenticator(auth.NewMultiTokenValidator(validators...), cfg)
	guard.Logger = provider.GetLogger("auth.http")

	server := router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		app := fiber.New(fiber.Config{
			AppName:               "campus-auth",
			DisableStartupMessage: true,
			ErrorHandler:          auth.FiberErrorHandler(appLogger),
		})
		app.Use(recover.New())
		app.Use(requestid.New())
		return app
	})

	// metrics.Handler is a plain fiber handler
	server.WrappedRouter().Get("/metrics", metrics.Handler(registry))

	r := server.Router()
	r.Get("/healthz", func(c router.Context) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.JSON(fiber.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		}
		return c.JSON(fiber.StatusOK, map[string]any{"status": "ok"})
	}).SetName("health.get")

	api := r.Group("/api")

	auth.RegisterAuthRoutes(api,
		auth.WithRegisterer(registerer),
		auth.WithAuther(auther),
		auth.WithControllerLogger(provider.GetLogger("auth.controller")),
		auth.WithControllerDebug(cfg.Debug),
	)

	store := records.NewStore(db)
	records.RegisterRoutes(api, &records.Controller{
		Students: repo.Students(),
		Schedule: store,
		Exporter: records.NewExporter(store, cfg.DB.Name, cfg.ExportTables,
			records.WithExportLogger(provider.GetLogger("records.export")),
		),
		Logger: provider.GetLogger("records.controller"),
	}, guard.ProtectedRoute())

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		server: server,
	}, nil
}

// Fiber exposes the http app, mostly for tests
func (a *App) Fiber() *fiber.App {
	return a.server.WrappedRouter()
}

// Run serves until ctx is done, then drains in flight requests and
// closes the database.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", "addr", a.cfg.Addr())
		errCh <- a.server.Serve(a.cfg.Addr())
	}()

	select {
	case err := <-errCh:
		_ = a.Close(context.Background())
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	return a.Close(shutdownCtx)
}

// Close stops the http server and releases the database
func (a *App) Close(ctx context.Context) error {
	shutdownErr := a.server.Shutdown(ctx)
	dbErr := a.db.Close()
	return errors.Join(shutdownErr, dbErr)
}
