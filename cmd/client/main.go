package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-study-platform/internal/adapter"
	"github.com/MKhiriev/go-study-platform/internal/client"
	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/session"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/internal/tui"
	"github.com/MKhiriev/go-study-platform/internal/workers"
	"github.com/MKhiriev/go-study-platform/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("study-platform-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	localStorage, err := store.NewClientStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	sess := session.New(serverAdapter, localStorage.TokenStore, log)
	routeGuard := guard.New(sess, log)
	watcher := workers.NewSessionWatcher(sess, cfg.Workers, log)

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	log.Info().Stringer("build", buildInfo).Str("server", cfg.Adapter.HTTPAddress).Msg("starting client")

	ui := tui.New(sess, routeGuard, buildInfo, log)

	app, err := client.NewApp(ui, workers.NewWorkers(watcher), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
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
