package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/auth"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/config"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/httpapi"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/service"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage/sqlite"
	"github.com/Hafsa-Ahmadi/Budget-flow/pkg/logging"
)

func main() {
	logging.Setup()

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	server := httpapi.NewServer(
		service.NewAuthService(authenticator, jwtManager, store),
		service.NewExpenseService(store),
		service.NewSettlementService(store),
		service.NewBudgetService(store),
		service.NewGroupService(store),
		jwtManager,
	)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        h2c.NewHandler(server.Handler(), &http2.Server{}),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
