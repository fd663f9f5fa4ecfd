package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"procure/db"
	"procure/db/migrations"
	"procure/internal/apiclient"
	"procure/internal/config"
	"procure/internal/handlers"
	"procure/internal/logging"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logger, _, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Cannot create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.EnsureDataDir(); err != nil {
		logger.Fatal("cannot create data dir", zap.Error(err))
	}
	dbConn, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("cannot connect to DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Миграции
	if err := migrations.Run(ctx, dbConn.DB, cfg.DBDriver); err != nil {
		logger.Fatal("cannot run migrations", zap.Error(err))
	}

	store := db.NewStorage(dbConn)
	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithLogger(logger.Named("upstream")))

	// каждый запрос ходит в API с токеном вызывающего
	h := handlers.NewHandler(store, func(token string) handlers.Backend {
		return client.WithToken(token)
	}, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handlers.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("addr", cfg.ListenAddr),
		zap.String("upstream", cfg.APIBaseURL),
		zap.String("db_driver", cfg.DBDriver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
