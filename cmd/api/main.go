package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/memberhub/memberhub-backend/api/routes"
	"github.com/memberhub/memberhub-backend/internal/auth"
	"github.com/memberhub/memberhub-backend/internal/content"
	"github.com/memberhub/memberhub-backend/internal/identity"
	"github.com/memberhub/memberhub-backend/internal/packages"
	"github.com/memberhub/memberhub-backend/internal/users"
	"github.com/memberhub/memberhub-backend/pkg/config"
	"github.com/memberhub/memberhub-backend/pkg/kv"
	"github.com/memberhub/memberhub-backend/pkg/logger"
	"github.com/memberhub/memberhub-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := kv.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	provider, err := identity.NewFirebase(context.Background(), cfg.Firebase)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap identity provider", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(store)

	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Identity: provider,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Repo:     userRepo,
		Identity: provider,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	packageService, err := packages.NewService(store)
	if err != nil {
		logg.Error(context.Background(), "failed to create package service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(content.ServiceParams{Store: store})
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			Store:    store,
			Verifier: provider,
			Auth:     authService,
			Users:    userService,
			Packages: packageService,
			Content:  contentService,
			Metrics:  httpMetrics,
			Gatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
