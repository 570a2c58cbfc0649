package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"polyglot-booking/internal/data/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const notificationsCollection = "notifications"

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByID(ctx context.Context, id string) (*entity.Notification, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)

	// Business queries
	UpdateStatus(ctx context.Context, id string, status entity.NotificationStatus, sentAt *time.Time) error
}

type notificationRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewNotificationRepository(db *mongo.Database, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		coll: db.Collection(notificationsCollection),
		log:  log.With(zap.String("repository", "notification")),
	}
}

// EnsureNotificationIndexes creates the user/created_at index used by FindByUserID.
func EnsureNotificationIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(notificationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}
	return nil
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if _, err := r.coll.InsertOne(ctx, notification); err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("notification_id", notification.ID),
			zap.String("user_id", notification.UserID),
		)
		return fmt.Errorf("create notification %s: %w", notification.ID, err)
	}

	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id string) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find notification by ID",
			zap.Error(err),
			zap.String("notification_id", id),
		)
		return nil, fmt.Errorf("find notification by ID %s: %w", id, err)
	}

	return &notification, nil
}

func (r *notificationRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.log.Error("Failed to find notifications by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find notifications by user ID %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	notifications := make([]*entity.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		r.log.Error("Failed to decode notifications", zap.Error(err))
		return nil, fmt.Errorf("decode notifications for user %s: %w", userID, err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		r.log.Error("Failed to count notifications by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return 0, fmt.Errorf("count notifications by user ID %s: %w", userID, err)
	}

	return count, nil
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id string, status entity.NotificationStatus, sentAt *time.Time) error {
	update := bson.M{"$set": bson.M{"status": status, "sent_at": sentAt}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.log.Error("Failed to update notification status",
			zap.Error(err),
			zap.String("notification_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update notification %s status to %s: %w", id, status, err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotificationNotFound)
	}

	return nil
}
