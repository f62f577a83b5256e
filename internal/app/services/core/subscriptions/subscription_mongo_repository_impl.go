package subscriptions

import (
	"context"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/app/models"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/exceptions"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubscriptionMongoRepository struct {
	Collection *mongo.Collection
}

func NewSubscriptionMongoRepository(db *mongo.Client, dbName string) contracts.SubscriptionRepository {
	return &SubscriptionMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionSubscriptions),
	}
}

func (r *SubscriptionMongoRepository) FindActiveByProvider(ctx context.Context, providerID string) (*models.Subscription, error) {
	filter := bson.M{
		"serviceProviderId": providerID,
		"status":            models.SubscriptionActive,
	}

	var subscription models.Subscription
	err := r.Collection.FindOne(
		ctx,
		filter,
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&subscription)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &subscription, nil
}

func (r *SubscriptionMongoRepository) Insert(ctx context.Context, subscription *models.Subscription) (string, error) {
	if subscription.ID == "" {
		subscription.ID = uuid.NewString()
	}
	now := time.Now()
	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = now
	}
	subscription.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, subscription)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return subscription.ID, nil
}

func (r *SubscriptionMongoRepository) UpdateEndDate(ctx context.Context, subscriptionID string, endDate time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"endDate":   endDate,
			"updatedAt": time.Now(),
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": subscriptionID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *SubscriptionMongoRepository) Cancel(ctx context.Context, subscriptionID string) error {
	update := bson.M{
		"$set": bson.M{
			"status":    models.SubscriptionCancelled,
			"updatedAt": time.Now(),
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": subscriptionID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
