package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/events"
	"github.com/MKhiriev/go-study-platform/internal/handler"
	"github.com/MKhiriev/go-study-platform/internal/limiter"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/metrics"
	"github.com/MKhiriev/go-study-platform/internal/server"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("study-platform-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == config.DefaultVersion && buildVersion != "N/A" {
		cfg.App.Version = buildVersion
	}

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Dur("token_duration", cfg.App.TokenDuration).
		Bool("rate_limit_enabled", cfg.Storage.Redis.Address != "").
		Bool("events_enabled", cfg.Broker.URL != "").
		Msg("received configs")

	ctx := log.WithContext(context.Background())

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	loginLimiter, closeLimiter, err := limiter.New(ctx, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating login limiter")
	}
	defer closeLimiter()

	publisher, err := events.New(cfg.Broker, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating event publisher")
	}
	defer publisher.Close()

	m := metrics.New()

	services, err := service.NewServices(storages, loginLimiter, publisher, m, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if cfg.App.AdminEmail != "" && cfg.App.AdminSecret != "" {
		admin, err := services.AuthService.EnsureAdmin(ctx, cfg.App.AdminEmail, cfg.App.AdminSecret)
		if err != nil {
			log.Fatal().Err(err).Msg("error ensuring administrator account")
		}
		log.Info().Str("account_id", admin.ID).Msg("administrator account is ready")
	}

	handlers, err := handler.NewHandlers(services, m, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
