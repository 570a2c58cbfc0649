package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"polyglot-booking/internal/apperr"
	"polyglot-booking/internal/cache"
	"polyglot-booking/internal/data/entity"
	"polyglot-booking/internal/data/repository"
	"polyglot-booking/internal/notifier"
	"polyglot-booking/internal/provider"

	"go.uber.org/zap"
)

const (
	DefaultCompensationReason = "Saga compensation"
	DefaultCompensationMaxAge = 30 * 24 * time.Hour

	MetaRefundReason      = "refund_reason"
	MetaRefundedAt        = "refunded_at"
	MetaRefundReference   = "refund_reference"
	MetaRefundAttemptedAt = "refund_attempted_at"
	MetaRefundError       = "refund_error"
)

type CompensationService interface {
	// CanCompensate never fails: any doubt resolves to false.
	CanCompensate(ctx context.Context, id int64) bool
	// CurrentStatus reads the stored status, bypassing the cache.
	CurrentStatus(ctx context.Context, id int64) (entity.PaymentStatus, error)
	Compensate(ctx context.Context, id int64, reason string) error
}

type CompensationPolicy struct {
	MaxAge time.Duration
	// RetryFailed lets a refund_failed payment go through compensation again.
	RetryFailed bool
}

type compensationService struct {
	repo     repository.PaymentRepository
	cache    cache.Cache
	provider provider.RefundProvider
	notifier notifier.Notifier
	policy   CompensationPolicy
	now      func() time.Time
	log      *zap.Logger
}

func NewCompensationService(
	repo repository.PaymentRepository,
	c cache.Cache,
	p provider.RefundProvider,
	n notifier.Notifier,
	policy CompensationPolicy,
	log *zap.Logger,
) CompensationService {
	if policy.MaxAge <= 0 {
		policy.MaxAge = DefaultCompensationMaxAge
	}
	return &compensationService{
		repo:     repo,
		cache:    c,
		provider: p,
		notifier: n,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With(zap.String("service", "compensation")),
	}
}

func (s *compensationService) CanCompensate(ctx context.Context, id int64) bool {
	// Eligibility reads the store directly: a stale cached status must never
	// authorise a refund.
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Error checking compensation eligibility", zap.Error(err), zap.Int64("payment_id", id))
		return false
	}
	if payment == nil {
		return false
	}

	switch payment.Status {
	case entity.PaymentStatusCompleted:
	case entity.PaymentStatusRefundFailed:
		if !s.policy.RetryFailed {
			return false
		}
	default:
		return false
	}

	if !payment.Amount.IsPositive() {
		return false
	}

	if payment.CompletedAt == nil || s.now().Sub(*payment.CompletedAt) > s.policy.MaxAge {
		return false
	}

	return true
}

func (s *compensationService) CurrentStatus(ctx context.Context, id int64) (entity.PaymentStatus, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to read payment status", zap.Error(err), zap.Int64("payment_id", id))
		return "", apperr.Persistence(err, "failed to read payment %d", id)
	}
	if payment == nil {
		return "", apperr.NotFound("payment %d not found", id)
	}
	return payment.Status, nil
}

func (s *compensationService) Compensate(ctx context.Context, id int64, reason string) error {
	if reason == "" {
		reason = DefaultCompensationReason
	}

	// Phase 1: park the payment in refunding and commit on its own, so an
	// interrupted refund stays visible and can be resumed.
	var resumed bool
	payment, err := s.repo.UpdateLocked(ctx, id, func(p *entity.Payment) error {
		switch p.Status {
		case entity.PaymentStatusRefunded:
			return repository.ErrNoChange
		case entity.PaymentStatusRefunding:
			resumed = true
			return repository.ErrNoChange
		case entity.PaymentStatusRefundFailed:
			if !s.policy.RetryFailed {
				return fmt.Errorf("%w: refund already failed for payment %d", entity.ErrInvalidTransition, p.ID)
			}
		case entity.PaymentStatusCompleted:
		default:
			return fmt.Errorf("%w: cannot refund payment in status %s", entity.ErrInvalidTransition, p.Status)
		}
		return p.TransitionTo(entity.PaymentStatusRefunding, s.now())
	})
	if err != nil {
		return s.mapCompensationError(err, id)
	}

	if payment.Status == entity.PaymentStatusRefunded {
		s.log.Info("Payment already refunded", zap.Int64("payment_id", id))
		return nil
	}

	s.cache.Delete(ctx, cache.PaymentKey(id))
	if resumed {
		s.log.Warn("Resuming interrupted refund", zap.Int64("payment_id", id))
	}

	// Phase 2: provider call, outside any transaction.
	reference, refundErr := s.provider.AttemptRefund(ctx, payment, reason)

	// Phase 3: record the outcome. If another caller already finished this
	// refund, its result stands.
	var recorded bool
	final, err := s.repo.UpdateLocked(ctx, id, func(p *entity.Payment) error {
		if p.Status != entity.PaymentStatusRefunding {
			return repository.ErrNoChange
		}

		recorded = true
		now := s.now()
		stamp := now.Format(time.RFC3339)
		if refundErr != nil {
			p.MergeMetadata(map[string]any{
				MetaRefundReason:      reason,
				MetaRefundAttemptedAt: stamp,
				MetaRefundError:       refundErr.Error(),
			})
			return p.TransitionTo(entity.PaymentStatusRefundFailed, now)
		}

		p.MergeMetadata(map[string]any{
			MetaRefundReason:    reason,
			MetaRefundedAt:      stamp,
			MetaRefundReference: reference,
		})
		return p.TransitionTo(entity.PaymentStatusRefunded, now)
	})

	// Phase 4: the next read repopulates from the store.
	s.cache.Delete(ctx, cache.PaymentKey(id))

	if err != nil {
		return s.mapCompensationError(err, id)
	}

	if final.Status == entity.PaymentStatusRefundFailed {
		s.log.Warn("Payment refund failed",
			zap.Int64("payment_id", id),
			zap.String("reason", reason),
			zap.NamedError("refund_error", refundErr),
		)
		return nil
	}

	s.log.Info("Payment compensated",
		zap.Int64("payment_id", id),
		zap.String("reason", reason),
		zap.String("status", string(final.Status)),
	)

	if recorded {
		s.notifier.PaymentRefunded(ctx, final, reason)
	}

	return nil
}

func (s *compensationService) mapCompensationError(err error, id int64) error {
	switch {
	case errors.Is(err, repository.ErrPaymentNotFound):
		return apperr.NotFound("payment %d not found", id)
	case errors.Is(err, entity.ErrInvalidTransition):
		s.log.Warn("Rejected compensation", zap.Error(err), zap.Int64("payment_id", id))
		return apperr.InvalidState(err, "payment %d cannot be compensated", id)
	default:
		s.log.Error("Failed to compensate payment", zap.Error(err), zap.Int64("payment_id", id))
		return apperr.Persistence(err, "failed to compensate payment %d", id)
	}
}
