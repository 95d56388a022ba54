// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farm-ledger-api/config"
	"farm-ledger-api/db"
	"farm-ledger-api/handler"
	"farm-ledger-api/logger"
	"farm-ledger-api/notifier"
	"farm-ledger-api/repository"
	"farm-ledger-api/router"
	"farm-ledger-api/service"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	// Redis is optional; the account service falls back to uncached reads.
	var cache service.ICacheClient
	if config.AppConfig.Redis.Host != "" {
		redisClient, err := db.ConnectRedis()
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, account listing will be uncached")
		} else {
			defer redisClient.Close()
			cache = redisClient
		}
	}

	// Kafka notices are optional as well; transactions commit either way.
	var txNotifier notifier.INotifier
	if len(config.AppConfig.Kafka.Brokers) > 0 {
		kafkaNotifier := notifier.NewKafkaNotifier(config.AppConfig.Kafka.Brokers, config.AppConfig.Kafka.Topic)
		defer kafkaNotifier.Close()
		txNotifier = kafkaNotifier
	}

	r := buildRouter(database, cache, txNotifier)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// buildRouter wires repositories, services, and handlers over the given
// resources. Shared between Run and the integration test harness.
func buildRouter(database *sql.DB, cache service.ICacheClient, txNotifier notifier.INotifier) http.Handler {
	accountRepo := repository.NewAccountRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	ledgerService := service.NewLedgerService(database, accountRepo, ledgerRepo, notificationRepo, txNotifier)
	accountService := service.NewAccountService(database, accountRepo, cache)

	accountHandler := handler.NewAccountHandler(accountService)
	transactionHandler := handler.NewTransactionHandler(ledgerService)

	return router.NewRouter(accountHandler, transactionHandler)
}

// TestApp bundles the wired router with its backing resources for
// integration tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	var cache service.ICacheClient
	if redisClient != nil {
		cache = redisClient
	}
	return &TestApp{
		DB:     database,
		Router: buildRouter(database, cache, nil),
	}
}
