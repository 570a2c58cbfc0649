package entity

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmation NotificationType = "booking_confirmation"
	NotificationTypePaymentSuccess      NotificationType = "payment_success"
	NotificationTypePaymentRefunded     NotificationType = "payment_refunded"
)

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelPush  NotificationChannel = "push"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type Notification struct {
	ID        string              `bson:"_id"`
	UserID    string              `bson:"user_id"`
	Type      NotificationType    `bson:"type"`
	Subject   string              `bson:"subject"`
	Content   string              `bson:"content"`
	Channel   NotificationChannel `bson:"channel"`
	Status    NotificationStatus  `bson:"status"`
	CreatedAt time.Time           `bson:"created_at"`
	SentAt    *time.Time          `bson:"sent_at"`
	Metadata  Metadata            `bson:"metadata"`
}
