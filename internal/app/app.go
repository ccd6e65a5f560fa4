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

	"shop-platform/internal/config"
	"shop-platform/internal/database"
	"shop-platform/internal/handler"
	"shop-platform/internal/middleware"
	"shop-platform/internal/repository"
	"shop-platform/internal/router"
	"shop-platform/internal/service"
	"shop-platform/internal/tenant"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	slog.Info("database ready")

	authService, err := service.NewAuthService(
		userRepo,
		cfg.JWTSecret,
		cfg.SignupTokenTTL,
		cfg.SessionTTL,
		cfg.RememberMeTTL,
		cfg.BcryptCost,
		cfg.MinPasswordLen,
		cfg.MinShopsPerUser,
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	policy := service.NewSessionPolicy(cfg.CookieName, cfg.CookieDomain, cfg.IsProduction())
	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.CookieName)
	resolver := tenant.NewResolver(cfg.TenantBaseHost, cfg.TenantApexDomain, cfg.TenantPlatformDomain)

	appRouter := router.New(cfg, authMiddleware, resolver, router.Handlers{
		Auth:   handler.NewAuthHandler(authService, policy),
		User:   handler.NewUserHandler(authService),
		Shop:   handler.NewShopHandler(authMiddleware, ""),
		Health: handler.NewHealthHandler(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
