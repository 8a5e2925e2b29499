package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/config"
	"shopcatalog/internal/database"
	"shopcatalog/internal/metrics"
	"shopcatalog/internal/models"
	"shopcatalog/internal/server"
	"shopcatalog/internal/services"
	"shopcatalog/pkg/logger"
	"shopcatalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var (
		publisher       services.EventPublisher
		brokerConnected func() bool
		mqClient        *rabbitmq.Client
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
		brokerConnected = mqClient.IsConnected
	} else {
		log.Info("RABBITMQ_URL not set, catalog events are disabled")
	}

	// --- Services and HTTP server ---
	m := metrics.New()
	deps := server.Wire(db, cfg, publisher, m)
	deps.BrokerConnected = brokerConnected

	if err := seedSuperUser(context.Background(), deps.AuthService, cfg); err != nil {
		log.Fatalf("Failed to create bootstrap superuser: %v", err)
	}

	app := server.New(deps)

	if mqClient != nil {
		if err := mqClient.ConsumeCatalogEvents(handleCatalogEvent); err != nil {
			log.WithError(err).Error("Failed to start RabbitMQ consumer")
		}
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server gracefully stopped")
}

// seedSuperUser creates the configured superuser unless it already exists.
func seedSuperUser(ctx context.Context, auth *services.AuthService, cfg *config.Config) error {
	if cfg.SuperUserEmail == "" || cfg.SuperUserPassword == "" {
		return nil
	}

	user, err := auth.CreateSuperUser(ctx, services.RegisterInput{
		FirstName: cfg.SuperUserFirstName,
		LastName:  cfg.SuperUserLastName,
		Email:     cfg.SuperUserEmail,
		Password:  cfg.SuperUserPassword,
	})
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) && verr.Fields["email"] == "already registered" {
		log.WithField("email", cfg.SuperUserEmail).Info("bootstrap superuser already exists")
		return nil
	}
	if err != nil {
		return err
	}

	log.WithField("user_id", user.ID).Info("bootstrap superuser created")
	return nil
}

// handleCatalogEvent writes every consumed catalog event to the audit log.
func handleCatalogEvent(msg amqp.Delivery) error {
	var event models.CatalogEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("malformed catalog event: %w", err)
	}
	if event.Type == "" || event.EntityID == 0 {
		return fmt.Errorf("catalog event %q is incomplete", event.ID)
	}

	log.WithFields(log.Fields{
		"event_id":    event.ID,
		"event_type":  event.Type,
		"entity_id":   event.EntityID,
		"actor_id":    event.ActorID,
		"occurred_at": event.OccurredAt,
	}).Info("catalog event")
	return nil
}
