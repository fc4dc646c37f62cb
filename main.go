package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/config"
	"github.com/PierreVega17/Backend-Finanzas/internal/handler"
	"github.com/PierreVega17/Backend-Finanzas/internal/repository/sqlite"
	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	tokenService := service.NewTokenService(db.Users(),
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := service.NewAuthService(db.Users(), tokenService, cfg.BcryptCost)
	oauthService := service.NewOAuthService(cfg.BaseURL,
		service.OAuthCredentials{ClientID: cfg.GitHub.ClientID, ClientSecret: cfg.GitHub.ClientSecret},
		service.OAuthCredentials{ClientID: cfg.Google.ClientID, ClientSecret: cfg.Google.ClientSecret})
	movementService := service.NewMovementService(db.Movements())
	alertService := service.NewAlertService(db.Alerts(), db.Movements())

	// Generous enough for a browser, tight enough to blunt credential guessing.
	authLimiter := service.NewRateLimiter(1, 10)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, tokenService, oauthService,
		movementService, alertService, authLimiter, cfg.FrontendURL)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(handler.CORS(cfg.FrontendURL, mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
