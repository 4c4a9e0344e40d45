package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/stockroom/internal/config"
	"github.com/Skotchmaster/stockroom/internal/es"
	"github.com/Skotchmaster/stockroom/internal/hash"
	"github.com/Skotchmaster/stockroom/internal/httpserver"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/middleware/csrf"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/repo"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/session"
	"github.com/Skotchmaster/stockroom/internal/upload"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	hash.Cost = cfg.BcryptCost

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := config.InitStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		log.Fatalf("store init: %v", err)
	}
	logger.Info("store_selected", "backend", st.Backend())

	uploads, err := upload.New(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	events := mykafka.New(cfg.KafkaBrokers)

	r := &repo.Repo{Store: st}
	inventory := &service.InventoryService{Repo: r, Events: events}

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	esClient, err := es.NewClient(ctx, cfg, logger)
	cancel()
	switch {
	case err != nil:
		logger.Warn("es_unavailable", "reason", "using substring search", "error", err)
	case esClient != nil:
		inventory.Index = es.NewProductIndex(esClient, cfg.ESIndex)
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		n, err := inventory.Reindex(ctx)
		cancel()
		if err != nil {
			logger.Warn("es_reindex_error", "reason", "using substring search", "indexed", n, "error", err)
			inventory.Index = nil
		} else {
			logger.Info("es_reindexed", "products", n)
		}
	}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure

	e, err := httpserver.New(&httpserver.Deps{
		Store:     st,
		Auth:      &service.AuthService{Repo: r, Events: events},
		Inventory: inventory,
		Uploads:   uploads,
		Sessions:  session.NewManager(cfg.SecretKey, cfg.SessionTTL, cfg.CookieSecure),
		CSRF:      &csrfCfg,
	}, logger)
	if err != nil {
		log.Fatalf("http init: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("events_close_error", "error", err)
	}
	if err := st.Close(); err != nil {
		logger.Error("store_close_error", "error", err)
	}
	logger.Info("stopped")
}
