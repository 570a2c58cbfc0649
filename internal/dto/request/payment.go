package request

import (
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	ReservationID string          `json:"reservation_id" validate:"required,max=50"`
	UserID        string          `json:"user_id" validate:"required,max=50"`
	Amount        decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency      string          `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=card mobile_money bank_transfer"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
}

type UpdatePaymentStatusRequest struct {
	Status   string         `json:"status" validate:"required,oneof=pending processing completed failed refunding refunded refund_failed"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type CompensatePaymentRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}
