package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "XOF"

// AmountScale and MaxAmount mirror the amount column, NUMERIC(10,2).
const AmountScale = 2

var MaxAmount = decimal.New(1, 8)

// ValidateAmount reports whether a can be stored without rounding or overflow.
func ValidateAmount(a decimal.Decimal) error {
	switch {
	case !a.IsPositive():
		return errors.New("amount must be greater than 0")
	case !a.Equal(a.Truncate(AmountScale)):
		return fmt.Errorf("amount must have at most %d decimal places", AmountScale)
	case a.GreaterThanOrEqual(MaxAmount):
		return fmt.Errorf("amount must be less than %s", MaxAmount)
	}
	return nil
}

// StoreTime reduces t to what a TIMESTAMPTZ column keeps.
func StoreTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodMobileMoney, PaymentMethodBankTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending      PaymentStatus = "pending"
	PaymentStatusProcessing   PaymentStatus = "processing"
	PaymentStatusCompleted    PaymentStatus = "completed"
	PaymentStatusFailed       PaymentStatus = "failed"
	PaymentStatusRefunding    PaymentStatus = "refunding"
	PaymentStatusRefunded     PaymentStatus = "refunded"
	PaymentStatusRefundFailed PaymentStatus = "refund_failed"
)

// ErrInvalidTransition is returned by TransitionTo for any edge not in paymentTransitions.
var ErrInvalidTransition = errors.New("invalid payment status transition")

// paymentTransitions lists every legal edge of the payment state machine.
// refund_failed -> refunding is only taken when the refund retry policy is enabled.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:      {PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusProcessing:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted:    {PaymentStatusRefunding},
	PaymentStatusRefunding:    {PaymentStatusRefunded, PaymentStatusRefundFailed},
	PaymentStatusRefundFailed: {PaymentStatusRefunding},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusRefunding, PaymentStatusRefunded, PaymentStatusRefundFailed:
		return true
	}
	return false
}

// IsRefundState reports whether the status belongs to the compensation sub-state-machine.
func (s PaymentStatus) IsRefundState() bool {
	return s == PaymentStatusRefunding || s == PaymentStatusRefunded || s == PaymentStatusRefundFailed
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Timestamps are the audit columns shared by stored rows.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Payment struct {
	Timestamps
	ID                int64           `db:"id"`
	ReservationID     string          `db:"reservation_id"`
	UserID            string          `db:"user_id"`
	Amount            decimal.Decimal `db:"amount"`
	Currency          string          `db:"currency"`
	PaymentMethod     PaymentMethod   `db:"payment_method"`
	Status            PaymentStatus   `db:"status"`
	TransactionID     string          `db:"transaction_id"`
	ProviderReference *string         `db:"provider_reference"`
	Metadata          Metadata        `db:"metadata"`
	CompletedAt       *time.Time      `db:"completed_at"`
}

// TransitionTo moves the payment to next if the state machine allows it.
// completed_at is stamped on the first entry into completed and never cleared.
func (p *Payment) TransitionTo(next PaymentStatus, now time.Time) error {
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, next)
	}

	now = StoreTime(now)
	p.Status = next
	p.UpdatedAt = now
	if next == PaymentStatusCompleted && p.CompletedAt == nil {
		completedAt := now
		p.CompletedAt = &completedAt
	}
	return nil
}

func (p *Payment) MergeMetadata(update map[string]any) {
	if len(update) == 0 {
		return
	}
	p.Metadata = p.Metadata.Merge(update)
}
