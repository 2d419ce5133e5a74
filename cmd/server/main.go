package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/handler"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/server"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/internal/workers"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("ssdm-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log = log.WithLevel(cfg.App.LogLevel)

	log.Debug().
		Str("storage", cfg.Storage.Backend).
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	kv, err := store.NewKeyValueStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storage")
	}
	defer kv.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(store.NewStorages(kv), *cfg, m, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, m, registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	var reporter workers.StatusReporter
	if handlers.GRPC != nil {
		reporter = handlers.GRPC
	}
	bgWorkers := workers.NewWorkers(services, kv, reporter, cfg.Workers, m, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return bgWorkers.Run(ctx)
	})

	if err = g.Wait(); err != nil {
		log.Error().Err(err).Msg("broker stopped with error")
		return
	}
	log.Info().Msg("broker stopped")
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
