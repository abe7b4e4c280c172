package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-anki-bridge/internal/adapter"
	"github.com/MKhiriev/go-anki-bridge/internal/config"
	myHTTP "github.com/MKhiriev/go-anki-bridge/internal/handler/http"
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/server"
	"github.com/MKhiriev/go-anki-bridge/internal/service"
	"github.com/MKhiriev/go-anki-bridge/internal/store"
	"github.com/MKhiriev/go-anki-bridge/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("anki-bridge", "info", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("anki-bridge", cfg.App.LogLevel, cfg.App.LogFile)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := log.WithContext(context.Background())

	remote := adapter.NewHTTPSyncServer(log)

	col, err := store.Open(ctx, cfg.Collection, remote, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening collection")
	}

	services := service.NewServices(col, cfg, log)

	workers.NewWorkers(services, log).Run()

	handler := myHTTP.NewHandler(services, cfg, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, func() {
		if closeErr := services.Bridge.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing bridge")
		}
	}, log)
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
