package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookie/api"
	"bookie/cache"
	"bookie/config"
	"bookie/database"
	"bookie/events"
	"bookie/metrics"
	"bookie/repository"
	"bookie/scheduler"
	"bookie/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting bookie...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Optional Kafka event feed
	var forwarder *events.KafkaForwarder
	if cfg.KafkaBrokers != "" {
		log.Println("Enabling Kafka event feed...")
		forwarder = events.NewKafkaForwarder(cfg.KafkaBrokers)
		forwarder.Register(eventBus)
	}

	// Optional Redis odds cache
	var oddsCache service.QuoteCache
	if cfg.RedisAddr != "" {
		log.Println("Connecting to Redis...")
		redisCache, err := cache.Connect(ctx, cfg.RedisAddr, 30*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisCache.Close()
		cache.RegisterInvalidator(eventBus, redisCache)
		oddsCache = redisCache
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, cfg.LockTimeoutMs)

	// Initialize services
	log.Println("Initializing services...")
	wagerService := service.NewWagerService(uowFactory, cfg)
	settlementService := service.NewSettlementService(uowFactory)
	oddsService := service.NewOddsService(uowFactory, cfg, oddsCache)
	standingsService := service.NewStandingsService(uowFactory, cfg)
	accountService := service.NewAccountService(uowFactory, cfg)
	matchService := service.NewMatchService(uowFactory, cfg)
	adminService := service.NewAdminService(uowFactory)
	log.Println("Services initialized successfully")

	// Start the due match sweep
	sched := scheduler.New(matchService)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Metrics and health endpoint
	metricsServer := metrics.StartServer(cfg.MetricsPort, db.Ping)

	// Start the API server
	server := api.NewServer(cfg, wagerService, settlementService, oddsService, standingsService, accountService, matchService, adminService)
	server.Start()

	// Wait for context cancellation
	log.Printf("Bookie is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down...")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics server: %v", err)
	}
	if forwarder != nil {
		if err := forwarder.Close(); err != nil {
			log.Printf("Error closing Kafka writers: %v", err)
		}
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
