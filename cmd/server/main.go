package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/config"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/repository/mongodb"
	"github.com/mamadbah2/mycofarm/internal/repository/sheets"
	"github.com/mamadbah2/mycofarm/internal/scheduler"
	"github.com/mamadbah2/mycofarm/internal/server/handlers"
	"github.com/mamadbah2/mycofarm/internal/server/router"
	batchsvc "github.com/mamadbah2/mycofarm/internal/service/batch"
	costingsvc "github.com/mamadbah2/mycofarm/internal/service/costing"
	financesvc "github.com/mamadbah2/mycofarm/internal/service/finance"
	forecastsvc "github.com/mamadbah2/mycofarm/internal/service/forecast"
	"github.com/mamadbah2/mycofarm/internal/service/yield"
	"github.com/mamadbah2/mycofarm/pkg/clients/sensors"
	"github.com/mamadbah2/mycofarm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(os.Getenv("APP_DEBUG") != ""))
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

	sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
	}

	batchRepo := mongodb.NewBatchRepo(store)
	inventoryRepo := mongodb.NewInventoryRepo(store)
	ledgerRepo := mongodb.NewLedgerRepo(store)
	environmentRepo := mongodb.NewEnvironmentRepo(store)
	snapshotRepo := mongodb.NewSnapshotRepo(store)

	species := models.DefaultSpeciesCatalog()
	recipes := models.DefaultRecipeCatalog()

	costingEngine := costingsvc.NewEngine(inventoryRepo, recipes, cfg.Costing.OverheadRate, baseLogger.Named("svc.costing"))
	batchService := batchsvc.NewService(batchRepo, ledgerRepo, costingEngine, species, baseLogger.Named("svc.batch"))
	forecastService := forecastsvc.NewService(batchRepo, environmentRepo, species, baseLogger.Named("svc.forecast"))
	aggregator := financesvc.NewAggregator(ledgerRepo, baseLogger.Named("svc.finance"))

	siteKindFor := func(site string) models.SiteKind {
		if cfg.SiteKindFor(site) == "processing" {
			return models.SiteProcessing
		}
		return models.SiteFarming
	}

	batchHandler := handlers.NewBatchHandler(batchService, yield.DefaultThresholds(), baseLogger.Named("handlers.batch"))
	reportHandler := handlers.NewReportHandler(forecastService, costingEngine, aggregator, environmentRepo,
		siteKindFor, cfg.Costing.PackagingCostPerUnit, baseLogger.Named("handlers.report"))
	engine := router.New(batchHandler, reportHandler, baseLogger.Named("router"))

	sensorClient := sensors.NewClient(cfg.Sensors)
	sched := scheduler.NewScheduler(*cfg, sensorClient, environmentRepo, snapshotRepo, sheetsRepo, aggregator, baseLogger.Named("scheduler"))
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
