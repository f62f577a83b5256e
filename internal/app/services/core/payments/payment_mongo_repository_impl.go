package payments

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

type PaymentMongoRepository struct {
	Collection *mongo.Collection
}

func NewPaymentMongoRepository(db *mongo.Client, dbName string) contracts.PaymentRepository {
	return &PaymentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPayments),
	}
}

// EnsureIndexes creates the sparse unique index on the gateway payment id so
// one gateway payment can never bind to two local rows.
func (r *PaymentMongoRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "gateway", Value: 1},
			{Key: "gatewayPaymentId", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"gatewayPaymentId": bson.M{"$type": "string"},
			}),
	}
	_, err := r.Collection.Indexes().CreateOne(ctx, model)
	return err
}

func (r *PaymentMongoRepository) Insert(ctx context.Context, payment *models.Payment) (string, error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, payment)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return payment.ID, nil
}

func (r *PaymentMongoRepository) FindByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.Collection.FindOne(ctx, bson.M{"_id": paymentID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &payment, nil
}

func (r *PaymentMongoRepository) FindByGatewayPaymentID(ctx context.Context, gateway, gatewayPaymentID string) (*models.Payment, error) {
	var payment models.Payment
	filter := bson.M{
		"gateway":          gateway,
		"gatewayPaymentId": gatewayPaymentID,
	}
	err := r.Collection.FindOne(ctx, filter).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &payment, nil
}

func (r *PaymentMongoRepository) UpdateStatus(ctx context.Context, paymentID string, status models.PaymentStatus) (*models.Payment, error) {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}

	var payment models.Payment
	err := r.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": paymentID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &payment, nil
}

func (r *PaymentMongoRepository) ClaimPendingIntent(ctx context.Context, serviceRequestID, userID, gateway, gatewayPaymentID string, status models.PaymentStatus) (*models.Payment, error) {
	filter := bson.M{
		"userId":  userID,
		"gateway": gateway,
		"status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentPending,
			models.PaymentProcessing,
		}},
		"gatewayPaymentId": bson.M{"$exists": false},
	}
	if serviceRequestID != "" {
		filter["serviceRequestId"] = serviceRequestID
	}
	update := bson.M{
		"$set": bson.M{
			"gatewayPaymentId": gatewayPaymentID,
			"status":           status,
			"updatedAt":        time.Now(),
		},
	}

	var payment models.Payment
	err := r.Collection.FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetReturnDocument(options.After),
	).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &payment, nil
}

func (r *PaymentMongoRepository) FindLatestApprovedUnlock(ctx context.Context, serviceRequestID, userID string) (*models.Payment, error) {
	filter := bson.M{
		"serviceRequestId": serviceRequestID,
		"userId":           userID,
		"purpose":          models.PaymentPurposeUnlock,
		"status":           models.PaymentApproved,
	}

	var payment models.Payment
	err := r.Collection.FindOne(
		ctx,
		filter,
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &payment, nil
}

func (r *PaymentMongoRepository) LinkSubscription(ctx context.Context, paymentID, subscriptionID string) error {
	update := bson.M{
		"$set": bson.M{
			"subscriptionId": subscriptionID,
			"updatedAt":      time.Now(),
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": paymentID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
