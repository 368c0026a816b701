package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ms-events/internal/config"
	"ms-events/internal/database"
	eventdb "ms-events/internal/events/db"
	"ms-events/internal/events/event_api"
	"ms-events/internal/events/service"
	"ms-events/internal/kafka"
	"ms-events/internal/logger"
	"ms-events/internal/server"
)

const defaultAuthorName = "Default Author"

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log, err := logger.NewLogger(logger.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", "Starting Event Service initialization")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	ctx := context.Background()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()

	if err := database.InitSchema(ctx, bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to initialise schema: %v", err))
	}
	log.Info("DATABASE", "✅ Schema ready (users, events)")

	if cfg.Database.SeedDefaultUser {
		id, err := database.SeedDefaultUser(ctx, bunDB, defaultAuthorName)
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to seed default user: %v", err))
		}
		log.Info("DATABASE", fmt.Sprintf("Default author available with id %d", id))
	}

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.EventCreated, cfg.Kafka.Topics.EventDeleted}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka, log)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for brokers %v", cfg.Kafka.Brokers))
	} else {
		log.Info("KAFKA", "Kafka disabled, event changes will not be published")
	}

	eventService := service.NewEventService(eventdb.DB{}, publisher, log)
	handler := event_api.NewHandler(eventService, log)
	router := server.NewRouter(bunDB, handler, log)
	log.Info("ROUTER", "Event routes registered under /api/events")

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Event Service running on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Event Service shutdown complete")
	}
}
