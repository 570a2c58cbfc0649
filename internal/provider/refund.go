// Package provider abstracts the external payment provider used for refunds.
package provider

import (
	"context"
	"errors"
	"fmt"

	"polyglot-booking/internal/data/entity"
	"polyglot-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	SimulationSucceed = "succeed"
	SimulationFail    = "fail"
)

var ErrRefundDeclined = errors.New("refund declined by provider")

type RefundProvider interface {
	// AttemptRefund returns the provider's refund reference on success.
	AttemptRefund(ctx context.Context, payment *entity.Payment, reason string) (string, error)
}

// Func adapts a plain function to RefundProvider.
type Func func(ctx context.Context, payment *entity.Payment, reason string) (string, error)

func (f Func) AttemptRefund(ctx context.Context, payment *entity.Payment, reason string) (string, error) {
	return f(ctx, payment, reason)
}

// Simulated stands in for the real provider API. It is deterministic:
// every call succeeds, or every call is declined.
type Simulated struct {
	fail bool
	log  *zap.Logger
}

func NewSimulated(mode string, log *zap.Logger) (*Simulated, error) {
	switch mode {
	case SimulationSucceed, "":
		return &Simulated{log: log.With(zap.String("provider", "simulated"))}, nil
	case SimulationFail:
		return &Simulated{fail: true, log: log.With(zap.String("provider", "simulated"))}, nil
	default:
		return nil, fmt.Errorf("unknown refund simulation mode %q", mode)
	}
}

func (s *Simulated) AttemptRefund(ctx context.Context, payment *entity.Payment, reason string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if s.fail {
		s.log.Warn("Simulated refund declined",
			zap.Int64("payment_id", payment.ID),
			zap.String("reason", reason),
		)
		return "", ErrRefundDeclined
	}

	reference := utils.GenerateRefundReference()
	s.log.Info("Simulated refund processed",
		zap.Int64("payment_id", payment.ID),
		zap.String("amount", payment.Amount.String()),
		zap.String("currency", payment.Currency),
		zap.String("refund_reference", reference),
	)
	return reference, nil
}
