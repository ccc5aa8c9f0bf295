package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookswap/internal/config"
	"bookswap/internal/crypto"
	"bookswap/internal/event"
	"bookswap/internal/handler"
	"bookswap/internal/hub"
	"bookswap/internal/repository/sqlite"
	"bookswap/internal/service"
	"bookswap/internal/worker"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
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

	verifier := crypto.NewBcryptVerifier(cfg.BcryptCost)

	dispatcher := event.NewDispatcher()
	dispatcher.Attach(service.NewNotifier(db.Notifications()))
	notificationHub := hub.New()
	dispatcher.Attach(notificationHub)

	lending := service.NewLending(db, verifier, dispatcher, cfg.Economy)
	sessions := service.NewSessions(cfg.JWTSecret, 24*time.Hour)

	if cfg.SeedData {
		if err := service.SeedSampleData(context.Background(), db, verifier, "password123"); err != nil {
			slog.Error("failed to seed sample data", "error", err)
			os.Exit(1)
		}
		slog.Info("sample data seeded")
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reminder := worker.NewReminder(db, dispatcher, cfg.ReminderInterval, cfg.NotificationTTL, cfg.Economy.LateFeePerDay)
	reminder.Start(ctx)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, lending, sessions, db.Users(), notificationHub, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(handler.RequestLog(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

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
