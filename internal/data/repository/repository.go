package repository

import (
	"polyglot-booking/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Repository groups the payment service's stores.
type Repository struct {
	Payment PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Payment: NewPaymentRepository(db, log),
	}
}

// NotificationStore groups the notification service's stores.
type NotificationStore struct {
	Notification NotificationRepository
}

func NewNotificationStore(db *mongo.Database, log *zap.Logger) *NotificationStore {
	return &NotificationStore{
		Notification: NewNotificationRepository(db, log),
	}
}
