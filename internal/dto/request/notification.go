package request

import (
	"github.com/shopspring/decimal"
)

type BookingNotificationRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	UserName      string `json:"user_name,omitempty"`
	ReservationID string `json:"reservation_id,omitempty"`
	EventID       string `json:"event_id,omitempty"`
	EventName     string `json:"event_name" validate:"required"`
	EventDate     string `json:"event_date,omitempty"`
	Location      string `json:"location,omitempty"`
	Seats         int    `json:"seats" validate:"min=0"`
}

type PaymentNotificationRequest struct {
	UserID    string          `json:"user_id" validate:"required"`
	PaymentID string          `json:"payment_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency,omitempty" validate:"omitempty,len=3"`
}

type RefundNotificationRequest struct {
	UserID    string          `json:"user_id" validate:"required"`
	PaymentID string          `json:"payment_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Reason    string          `json:"reason,omitempty"`
}
