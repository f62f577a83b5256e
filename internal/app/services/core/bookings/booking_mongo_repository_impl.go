package bookings

import (
	"context"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/app/models"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingMongoRepository struct {
	Collection *mongo.Collection
}

func NewBookingMongoRepository(db *mongo.Client, dbName string) contracts.BookingRepository {
	return &BookingMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionBookings),
	}
}

// EnsureIndexes creates the partial unique index that backstops slot
// allocation: at most one active booking per provider, date and time.
func (r *BookingMongoRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "providerId", Value: 1},
			{Key: "scheduledDate", Value: 1},
			{Key: "scheduledTime", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status":        bson.M{"$in": models.ActiveBookingStatuses},
				"scheduledDate": bson.M{"$type": "date"},
			}),
	}
	_, err := r.Collection.Indexes().CreateOne(ctx, model)
	return err
}

func (r *BookingMongoRepository) FindByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.Collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &booking, nil
}

func (r *BookingMongoRepository) UpdateStatusIfCurrent(ctx context.Context, bookingID string, current, target models.BookingStatus, opts contracts.UpdateStatusOptions) (*models.Booking, error) {
	filter := bson.M{
		"_id":    bookingID,
		"status": current,
	}

	set := bson.M{
		"status":    target,
		"updatedAt": time.Now(),
	}
	update := bson.M{"$set": set}
	if opts.Notes != "" {
		set["description"] = opts.Notes
	}
	if opts.ClearExpiry {
		update["$unset"] = bson.M{"expiresAt": ""}
	}

	var booking models.Booking
	err := r.Collection.FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, exceptions.ErrSlotUnavailable(err)
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &booking, nil
}

func (r *BookingMongoRepository) ScheduleQuote(ctx context.Context, bookingID string, current models.BookingStatus, date time.Time, timeOfDay string) (*models.Booking, error) {
	filter := bson.M{
		"_id":           bookingID,
		"status":        current,
		"requestType":   models.BookingTypeQuote,
		"scheduledDate": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"requestType":   models.BookingTypeScheduling,
			"status":        models.BookingAccepted,
			"scheduledDate": date,
			"scheduledTime": timeOfDay,
			"updatedAt":     time.Now(),
		},
		"$unset": bson.M{"expiresAt": ""},
	}

	var booking models.Booking
	err := r.Collection.FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, exceptions.ErrSlotUnavailable(err)
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &booking, nil
}

func (r *BookingMongoRepository) CountActiveAtSlot(ctx context.Context, providerID string, dayStart, dayEnd time.Time, timeOfDay, excludingBookingID string) (int64, error) {
	filter := bson.M{
		"providerId": providerID,
		"scheduledDate": bson.M{
			"$gte": dayStart,
			"$lt":  dayEnd,
		},
		"scheduledTime": timeOfDay,
		"status":        bson.M{"$in": models.ActiveBookingStatuses},
	}
	if excludingBookingID != "" {
		filter["_id"] = bson.M{"$ne": excludingBookingID}
	}

	count, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBFindDocument(err)
	}
	return count, nil
}

func (r *BookingMongoRepository) SetProviderReview(ctx context.Context, bookingID string, review models.ProviderReview) (*models.Booking, error) {
	filter := bson.M{
		"_id":            bookingID,
		"status":         models.BookingCompleted,
		"providerReview": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"providerReview": review,
			"updatedAt":      time.Now(),
		},
	}

	var booking models.Booking
	err := r.Collection.FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &booking, nil
}

func (r *BookingMongoRepository) ExpireOverdueHolds(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":    models.BookingPending,
		"expiresAt": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":    models.BookingExpired,
			"updatedAt": now,
		},
		"$unset": bson.M{"expiresAt": ""},
	}

	result, err := r.Collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount, nil
}
