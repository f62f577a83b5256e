package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Redis          *redis.Client
	RabbitMQ       *amqp091.Connection
	Logger         *zap.Logger
	DriverConfig   *DriverConfig
	InternalConfig *InternalConfig
	// RetryWorkerStop if set is called during Shutdown to stop the
	// notification retry sweeper.
	RetryWorkerStop func()
	// ExpiryWorkerStop if set is called during Shutdown to stop the booking
	// hold expiry sweeper.
	ExpiryWorkerStop func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.RetryWorkerStop != nil {
		b.RetryWorkerStop()
		log.Println("Successfully stopped retry worker")
	}

	if b.ExpiryWorkerStop != nil {
		b.ExpiryWorkerStop()
		log.Println("Successfully stopped booking expiry worker")
	}

	if err := b.MongoDB.Disconnect(ctx); err != nil {
		return err
	}
	log.Println("Successfully closing MongoDB")

	if err := b.Redis.Close(); err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	if err := b.RabbitMQ.Close(); err != nil {
		return err
	}
	log.Println("Successfully closing RabbitMQ")

	if err := b.Logger.Sync(); err != nil {
		return err
	}
	log.Println("Successfully closing Logger")

	return nil
}
