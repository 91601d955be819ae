package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/config"
	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/repository/redisstore"
	"github.com/skverma/milknet/internal/repository/sheets"
	"github.com/skverma/milknet/internal/scheduler"
	"github.com/skverma/milknet/internal/server/handlers"
	"github.com/skverma/milknet/internal/server/router"
	authsvc "github.com/skverma/milknet/internal/service/auth"
	ratetablesvc "github.com/skverma/milknet/internal/service/ratetable"
	recordsvc "github.com/skverma/milknet/internal/service/records"
	registrysvc "github.com/skverma/milknet/internal/service/registry"
	reportsvc "github.com/skverma/milknet/internal/service/reports"
	"github.com/skverma/milknet/pkg/clients/webhook"
	"github.com/skverma/milknet/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	tokenStore, err := redisstore.NewTokenStore(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		baseLogger.Fatal("failed to init redis token store", zap.Error(err))
	}
	defer func() {
		if err := tokenStore.Close(); err != nil {
			baseLogger.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	records := store.Records()
	devices := store.Devices()
	dairies := store.Dairies()

	tokens := authsvc.NewTokenManager(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	authService := authsvc.NewService(tokens, tokenStore, dairies, devices, baseLogger.Named("svc.auth"))
	reportService := reportsvc.NewService(records, devices, baseLogger.Named("svc.reports"))
	recordService := recordsvc.NewService(records, baseLogger.Named("svc.records"))
	registryService := registrysvc.NewService(devices, dairies, baseLogger.Named("svc.registry"))
	rateTableService := ratetablesvc.NewService(devices, dairies, baseLogger.Named("svc.ratetable"))

	engine := router.New(router.Deps{
		Auth:     handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		Reports:  handlers.NewReportsHandler(reportService, baseLogger.Named("handlers.reports")),
		Records:  handlers.NewRecordsHandler(recordService, baseLogger.Named("handlers.records")),
		Registry: handlers.NewRegistryHandler(registryService, baseLogger.Named("handlers.registry")),
		Upload:   handlers.NewUploadHandler(rateTableService, registryService, baseLogger.Named("handlers.upload")),
		Tokens:   tokens,
		Dairies:  dairies,
		Devices:  devices,
		Logger:   baseLogger.Named("router"),
	})

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets snapshot export enabled")
	}

	var notifier webhook.Notifier
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewClient(cfg.Webhook.URL)
		baseLogger.Info("snapshot webhook enabled")
	}

	sched := scheduler.NewScheduler(cfg.Snapshot, reportService, devices, store.Snapshots(), exporter, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
