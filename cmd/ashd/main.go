package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/ashv2/pkg/api"
	"github.com/urmzd/ashv2/pkg/api/envelope"
	"github.com/urmzd/ashv2/pkg/ash"
	"github.com/urmzd/ashv2/pkg/config"
	ashmcp "github.com/urmzd/ashv2/pkg/mcp"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/ashd/ashd.db)")
	serialPort := flag.String("port", "/dev/ttyUSB0", "Path to the NCP's serial port")
	apiAddr := flag.String("api-addr", "127.0.0.1:8080", "REST API listen address")
	extendedPayload := flag.Bool("extended-payload", false, "Allow DATA payloads up to ExtendedMaxPayloadSize (verify against the target NCP first)")
	flag.Parse()

	ctx := context.Background()

	store, err := config.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open config database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close config database")
		}
	}()
	log.Info().Str("path", store.Path()).Msg("Config database opened")

	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run config migrations")
	}

	needsBootstrap, err := store.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping default link profile...")
		if err := store.Bootstrap(ctx, *serialPort); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap link profile")
		}
	}

	profile, err := store.ActiveProfile(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load active link profile")
	}
	log.Info().Str("profile", profile.Name).Str("port", profile.PortPath).Msg("Link profile loaded")

	portCfg := ash.DefaultPortConfig()
	if profile.FlowControl == config.FlowControlXOnXOff {
		portCfg.FlowControl = ash.FlowControlXOnXOff
	}

	port, err := ash.OpenSerial(profile.PortPath, portCfg)
	if err != nil {
		log.Fatal().Err(err).Str("port", profile.PortPath).Msg("Failed to open serial port")
	}

	opts := []ash.Option{
		ash.WithHandshakeObserver(func(attempts int, elapsed time.Duration, code ash.ResetCode) {
			recCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := store.RecordHandshake(recCtx, profile.ID, attempts, elapsed, uint8(code)); err != nil {
				log.Error().Err(err).Msg("Failed to record handshake diagnostics")
			}
		}),
	}
	if *extendedPayload {
		opts = append(opts, ash.WithMaxPayloadSize(ash.ExtendedMaxPayloadSize))
	}

	transceiver := ash.Spawn(port, opts...)
	defer func() {
		if err := transceiver.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close transceiver")
		}
	}()

	validator, err := envelope.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compile frame envelope schema")
	}

	router := api.NewRouter(transceiver, store, profile.ID, validator)
	httpServer := &http.Server{Addr: *apiAddr, Handler: router.Handler()}

	mcpServer := ashmcp.NewServer(transceiver, store, profile.ID)

	go func() {
		log.Info().Str("address", *apiAddr).Msg("Starting REST API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("REST API server failed")
		}
	}()

	go func() {
		log.Info().Msg("Starting MCP server on stdio")
		if err := mcpServer.ServeStdio(); err != nil {
			log.Error().Err(err).Msg("MCP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to gracefully shut down REST API server")
	}
}
