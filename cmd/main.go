package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fateforge/sync-service/config"
	"github.com/fateforge/sync-service/internal/auth"
	"github.com/fateforge/sync-service/internal/postgres"
	"github.com/fateforge/sync-service/internal/relay"
	"github.com/fateforge/sync-service/internal/service"
	"github.com/fateforge/sync-service/internal/signaling"
	httpx "github.com/fateforge/sync-service/internal/transport/http"
	"github.com/fateforge/sync-service/internal/transport/ws"
	"github.com/fateforge/sync-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting sync-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- character store (опционально) ---
	ctx := context.Background()
	var charSvc *service.CharacterService
	if cfg.Postgres.DSN != "" {
		db, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()

		var gate auth.Validator
		if cfg.Auth.URL != "" {
			gate = auth.NewHTTPValidator(cfg.Auth.URL)
		}
		charRepo := postgres.NewCharacterRepository(db.Pool)
		charSvc = service.NewCharacterService(charRepo, gate)
	} else {
		slog.Info("character store disabled: no postgres dsn")
	}

	// --- room hub & WS server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, cfg.PingInterval())

	// --- signaling & relay ---
	directory := signaling.NewDirectory(cfg.SignalingTTL(), cfg.Signaling.MaxClients)
	relayClient := relay.NewClient(relay.Config{
		URL:   cfg.Relay.URL,
		AppID: cfg.Relay.AppID,
		Token: cfg.Relay.Token,
	})
	negotiator := relay.NewNegotiator(relayClient)

	// --- HTTP ---
	handler := httpx.NewHandler(directory, negotiator, charSvc, cfg.Relay.AppID)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
