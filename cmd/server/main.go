package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	inventoryapp "github.com/provisio/backend/internal/application/inventory"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/provisio/backend/internal/infrastructure/config"
	"github.com/provisio/backend/internal/infrastructure/event"
	"github.com/provisio/backend/internal/infrastructure/logger"
	"github.com/provisio/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Provisio Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Development convenience only; production uses the migrate command
	if cfg.Database.AutoMigrate {
		err := db.DB.AutoMigrate(
			&catalog.Warehouse{},
			&catalog.Component{},
			&catalog.RecipeLine{},
			&inventory.Balance{},
			&inventory.Batch{},
			&inventory.StockMovement{},
			&inventory.TransferRecord{},
		)
		if err != nil {
			log.Fatal("Auto migration failed", zap.Error(err))
		}
		log.Info("Schema auto migration applied")
	}

	// Initialize event bus with an audit handler for stock activity
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(func(_ context.Context, e shared.DomainEvent) error {
		log.Info("Domain event",
			zap.String("event_type", e.EventType()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID().String()),
		)
		return nil
	})

	// Initialize application services
	scope := persistence.NewGormTransactionScope(db.DB)

	receivingService := inventoryapp.NewReceivingService(scope)
	receivingService.SetEventPublisher(eventBus)

	transferService := inventoryapp.NewTransferService(scope)
	transferService.SetEventPublisher(eventBus)

	manufacturingService := inventoryapp.NewManufacturingService(scope)
	manufacturingService.SetEventPublisher(eventBus)

	log.Info("Inventory services initialized")

	// Block until shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Shutting down", zap.String("signal", sig.String()))
}
