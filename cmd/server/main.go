// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"local_services_backend/internal/config"
	"local_services_backend/internal/jobs"
	"local_services_backend/internal/platform/database"
	platformElasticsearch "local_services_backend/internal/platform/elasticsearch"
	"local_services_backend/internal/platform/logger"
	"local_services_backend/internal/provider"
	"local_services_backend/internal/review"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "sync-providers":
			syncProviders(os.Args[2:])
			return
		case "sweep-reviews":
			sweepReviews()
			return
		}
	}
	startServer()
}

func loadTooling() (*config.Config, *zap.Logger, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger, cleanup, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	return cfg, appLogger, cleanup
}

func syncProviders(args []string) {
	syncCmd := flag.NewFlagSet("sync-providers", flag.ExitOnError)
	batchSize := syncCmd.Int("batch-size", 100, "Batch size for syncing providers")
	esRefresh := syncCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")
	_ = syncCmd.Parse(args)

	cfg, appLogger, logCleanup := loadTooling()
	defer logCleanup()

	db, dbCleanup, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize database for sync", zap.Error(err))
	}
	defer dbCleanup()

	esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Elasticsearch client for sync", zap.Error(err))
	}
	if esClient == nil {
		appLogger.Fatal("ELASTICSEARCH_URL must be set to sync providers.")
	}

	ctx := context.Background()
	if err := platformElasticsearch.CreateProvidersIndexIfNotExists(ctx, esClient, appLogger); err != nil {
		appLogger.Fatal("Failed to create/verify Elasticsearch index before sync", zap.Error(err))
	}

	if err := runProviderSync(ctx, provider.NewGORMRepository(db), esClient, appLogger, *batchSize, *esRefresh); err != nil {
		appLogger.Fatal("Provider synchronization failed", zap.Error(err))
	}
	appLogger.Info("Provider synchronization completed successfully.")
}

func sweepReviews() {
	cfg, appLogger, logCleanup := loadTooling()
	defer logCleanup()

	db, dbCleanup, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize database for sweep", zap.Error(err))
	}
	defer dbCleanup()

	reviewService := review.NewService(review.NewGORMRepository(db), provider.NewGORMRepository(db), appLogger)
	jobs.NewOrphanReviewSweepJob(reviewService, appLogger, cfg).RunOnce()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Printf("ERROR: Server failed: %v", err)
		}
	}

	timeout := cfg.ServerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
}
