// Command activity-log follows the activity topic and writes every event to
// the service log.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ms-tours/internal/config"
	"ms-tours/internal/kafka"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

func describe(event models.ActivityEvent) string {
	actor := event.Actor
	if actor == "" {
		actor = "unknown"
	}
	msg := fmt.Sprintf("%s %s #%d by %s at %s", event.Entity, event.Type, event.EntityID, actor, event.OccurredAt.Format("2006-01-02 15:04:05"))
	if event.Detail != "" {
		msg += ": " + event.Detail
	}
	return msg
}

func main() {
	log := logger.NewLogger("ms-tours-activity")
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ActivityTopic, cfg.Kafka.GroupID, log)
	defer consumer.Close()

	log.Info("APP", fmt.Sprintf("Following %s as group %s", cfg.Kafka.ActivityTopic, cfg.Kafka.GroupID))
	err := consumer.Start(ctx, func(event models.ActivityEvent) {
		log.LogKafka("ACTIVITY", cfg.Kafka.ActivityTopic, describe(event))
	})
	if err != nil {
		log.Fatal("KAFKA", fmt.Sprintf("Consumer stopped: %v", err))
	}
	log.Info("APP", "Activity log stopped")
}
