package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiered-parking-lot/internal/config"
	"tiered-parking-lot/internal/logging"
	"tiered-parking-lot/internal/parking"
	"tiered-parking-lot/internal/server"
)

var (
	mode = flag.String("mode", "", "Mode to run: cli, server, or both (default APP_MODE or cli)")
	port = flag.String("port", "", "Port for HTTP server (default APP_PORT or 8080)")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *port != "" {
		cfg.Port = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := parking.NewTelemetryProvider(ctx, cfg.OTelServiceName, cfg.OTelEndpoint)
	logging.Init(cfg.OTelServiceName, cfg.Environment)
	if err != nil {
		logging.Error(ctx, "failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	rates := parking.RateTable{
		parking.Handicapped:  cfg.RateHandicapped,
		parking.SmallMidsize: cfg.RateSmallMidsize,
		parking.Large:        cfg.RateLarge,
	}

	lot, err := parking.NewInstrumentedParkingLot(
		parking.NewParkingLot(cfg.LotName, cfg.LotFloors, cfg.HandicappedSlots, cfg.SmallMidsizeSlots, cfg.LargeSlots),
		rates, telemetryProvider)
	if err != nil {
		logging.Error(ctx, "failed to create parking lot", "error", err)
		os.Exit(1)
	}

	lots := parking.NewLotHolder()
	lots.Set(lot)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch cfg.Mode {
	case "cli":
		runCLI(ctx, cancel, telemetryProvider, rates, lots, sigChan)
	case "server":
		runServer(ctx, cancel, cfg, telemetryProvider, rates, lots, sigChan)
	case "both":
		runBoth(ctx, cancel, cfg, telemetryProvider, rates, lots, sigChan)
	default:
		logging.Error(ctx, "invalid mode, must be cli, server, or both", "mode", cfg.Mode)
		shutdownTelemetry(telemetryProvider)
		os.Exit(2)
	}
}

func newShell(telemetryProvider *parking.TelemetryProvider, rates parking.RateTable, lots *parking.LotHolder) *parking.Shell {
	return parking.NewShell(telemetryProvider, rates, lots, os.Stdin, os.Stdout)
}

func newServer(cfg *config.Config, telemetryProvider *parking.TelemetryProvider, rates parking.RateTable, lots *parking.LotHolder) *server.Server {
	handler := server.NewHandler(cfg.OTelServiceName, telemetryProvider, rates, lots)
	return server.NewServer(cfg.Port, handler)
}

func runCLI(ctx context.Context, cancel context.CancelFunc, telemetryProvider *parking.TelemetryProvider, rates parking.RateTable, lots *parking.LotHolder, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		logging.Info(ctx, "shutting down")
		cancel()
	}()

	newShell(telemetryProvider, rates, lots).Run(ctx)

	shutdownTelemetry(telemetryProvider)
}

func runServer(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, telemetryProvider *parking.TelemetryProvider, rates parking.RateTable, lots *parking.LotHolder, sigChan chan os.Signal) {
	srv := newServer(cfg, telemetryProvider, rates, lots)

	go func() {
		<-sigChan
		logging.Info(ctx, "received shutdown signal")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error(ctx, "server shutdown error", "error", err)
		}

		cancel()
	}()

	logging.Info(ctx, "starting server mode", "port", cfg.Port)
	if err := srv.Start(); err != nil {
		logging.Error(ctx, "server error", "error", err)
	}

	shutdownTelemetry(telemetryProvider)
}

func runBoth(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, telemetryProvider *parking.TelemetryProvider, rates parking.RateTable, lots *parking.LotHolder, sigChan chan os.Signal) {
	srv := newServer(cfg, telemetryProvider, rates, lots)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	cliDone := make(chan bool, 1)
	go func() {
		newShell(telemetryProvider, rates, lots).Run(ctx)
		cliDone <- true
	}()

	go func() {
		<-sigChan
		logging.Info(ctx, "received shutdown signal")
		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			logging.Error(ctx, "server error", "error", err)
		}
	case <-cliDone:
		logging.Info(ctx, "CLI exited")
	case <-ctx.Done():
		logging.Info(ctx, "context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(ctx, "server shutdown error", "error", err)
	}

	shutdownTelemetry(telemetryProvider)
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	ctx := context.Background()
	logging.Info(ctx, "shutting down telemetry")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		logging.Error(ctx, "error shutting down telemetry", "error", err)
	}
}
