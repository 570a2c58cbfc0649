package response

import (
	"time"

	"polyglot-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// PaymentResponse is the payment snapshot returned to clients and stored in
// the cache. Timestamps are RFC 3339 (ISO-8601).
type PaymentResponse struct {
	ID                int64                `json:"id"`
	ReservationID     string               `json:"reservation_id"`
	UserID            string               `json:"user_id"`
	Amount            decimal.Decimal      `json:"amount"`
	Currency          string               `json:"currency"`
	PaymentMethod     entity.PaymentMethod `json:"payment_method"`
	Status            entity.PaymentStatus `json:"status"`
	TransactionID     string               `json:"transaction_id"`
	ProviderReference *string              `json:"provider_reference,omitempty"`
	Metadata          entity.Metadata      `json:"metadata"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	CompletedAt       *time.Time           `json:"completed_at"`
}

type CompensationEligibilityResponse struct {
	PaymentID int64 `json:"payment_id"`
	Eligible  bool  `json:"eligible"`
}

// Helper converters
func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	metadata := payment.Metadata
	if metadata == nil {
		metadata = entity.Metadata{}
	}

	return PaymentResponse{
		ID:                payment.ID,
		ReservationID:     payment.ReservationID,
		UserID:            payment.UserID,
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		PaymentMethod:     payment.PaymentMethod,
		Status:            payment.Status,
		TransactionID:     payment.TransactionID,
		ProviderReference: payment.ProviderReference,
		Metadata:          metadata,
		CreatedAt:         payment.CreatedAt,
		UpdatedAt:         payment.UpdatedAt,
		CompletedAt:       payment.CompletedAt,
	}
}
