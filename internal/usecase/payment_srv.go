package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"polyglot-booking/internal/apperr"
	"polyglot-booking/internal/cache"
	"polyglot-booking/internal/data/entity"
	"polyglot-booking/internal/data/repository"
	"polyglot-booking/internal/dto/request"
	"polyglot-booking/internal/dto/response"
	"polyglot-booking/internal/notifier"
	"polyglot-booking/pkg/utils"

	"go.uber.org/zap"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, req *request.CreatePaymentRequest) (*response.PaymentResponse, error)
	GetPayment(ctx context.Context, id int64) (*response.PaymentResponse, error)
	UpdatePaymentStatus(ctx context.Context, id int64, req *request.UpdatePaymentStatusRequest) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo     repository.PaymentRepository
	cache    cache.Cache
	notifier notifier.Notifier
	ttl      time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewPaymentService(
	repo repository.PaymentRepository,
	c cache.Cache,
	n notifier.Notifier,
	ttl time.Duration,
	log *zap.Logger,
) PaymentService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &paymentService{
		repo:     repo,
		cache:    c,
		notifier: n,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, req *request.CreatePaymentRequest) (*response.PaymentResponse, error) {
	if req == nil {
		return nil, apperr.Validation("validation failed: request body is required", nil)
	}
	errs := utils.ValidateStruct(req)
	if _, reported := errs["amount"]; !reported {
		if err := entity.ValidateAmount(req.Amount); err != nil {
			if errs == nil {
				errs = make(map[string]string)
			}
			errs["amount"] = err.Error()
		}
	}
	if len(errs) > 0 {
		s.log.Warn("Create payment validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}

	currency := req.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}

	now := entity.StoreTime(s.now())
	payment := &entity.Payment{
		Timestamps: entity.Timestamps{
			CreatedAt: now,
			UpdatedAt: now,
		},
		ReservationID: req.ReservationID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      currency,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		Status:        entity.PaymentStatusPending,
		TransactionID: utils.GenerateTransactionID(),
		Metadata:      entity.Metadata{}.Merge(req.Metadata),
	}

	// Persist first: the store is the source of truth.
	if err := s.repo.Create(ctx, payment); err != nil {
		s.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("reservation_id", req.ReservationID),
			zap.String("user_id", req.UserID),
		)
		return nil, apperr.Persistence(err, "failed to create payment")
	}

	snapshot := response.PaymentToResponse(payment)
	s.cacheSnapshot(ctx, &snapshot)

	s.log.Info("Payment created",
		zap.Int64("payment_id", payment.ID),
		zap.String("transaction_id", payment.TransactionID),
		zap.String("reservation_id", payment.ReservationID),
		zap.String("amount", payment.Amount.String()),
		zap.String("currency", payment.Currency),
	)

	return &snapshot, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id int64) (*response.PaymentResponse, error) {
	key := cache.PaymentKey(id)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var snapshot response.PaymentResponse
		if err := json.Unmarshal(cached, &snapshot); err == nil && snapshot.ID == id {
			s.log.Debug("Payment cache hit", zap.Int64("payment_id", id))
			return &snapshot, nil
		}
		s.log.Warn("Discarding malformed cache entry", zap.String("key", key))
		s.cache.Delete(ctx, key)
	}

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to get payment %d", id)
	}
	if payment == nil {
		// The store is authoritative: drop anything a racing writer left behind.
		s.cache.Delete(ctx, key)
		return nil, apperr.NotFound("payment %d not found", id)
	}

	snapshot := response.PaymentToResponse(payment)
	s.cacheSnapshot(ctx, &snapshot)

	s.log.Debug("Payment loaded from store", zap.Int64("payment_id", id))
	return &snapshot, nil
}

func (s *paymentService) UpdatePaymentStatus(ctx context.Context, id int64, req *request.UpdatePaymentStatusRequest) (*response.PaymentResponse, error) {
	if req == nil {
		return nil, apperr.Validation("validation failed: request body is required", nil)
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update payment status validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}

	next := entity.PaymentStatus(req.Status)
	if next.IsRefundState() {
		return nil, apperr.InvalidState(nil, "status %s can only be reached through compensation", next)
	}

	var previous entity.PaymentStatus
	payment, err := s.repo.UpdateLocked(ctx, id, func(p *entity.Payment) error {
		previous = p.Status
		now := s.now()

		if p.Status != next {
			if err := p.TransitionTo(next, now); err != nil {
				return err
			}
		} else {
			p.UpdatedAt = entity.StoreTime(now)
		}
		p.MergeMetadata(req.Metadata)
		return nil
	})
	if err != nil {
		return nil, s.mapUpdateError(err, id, next)
	}

	snapshot := response.PaymentToResponse(payment)
	// Refresh rather than invalidate so the next read is a hit.
	if !s.cacheSnapshot(ctx, &snapshot) {
		s.cache.Delete(ctx, cache.PaymentKey(id))
	}

	s.log.Info("Payment status updated",
		zap.Int64("payment_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)

	if next == entity.PaymentStatusCompleted && previous != entity.PaymentStatusCompleted {
		s.notifier.PaymentCompleted(ctx, payment)
	}

	return &snapshot, nil
}

func (s *paymentService) mapUpdateError(err error, id int64, next entity.PaymentStatus) error {
	switch {
	case errors.Is(err, repository.ErrPaymentNotFound):
		return apperr.NotFound("payment %d not found", id)
	case errors.Is(err, entity.ErrInvalidTransition):
		s.log.Warn("Rejected payment status transition", zap.Error(err), zap.Int64("payment_id", id))
		return apperr.InvalidState(err, "cannot move payment %d to %s", id, next)
	default:
		return apperr.Persistence(err, "failed to update payment %d", id)
	}
}

// cacheSnapshot writes the snapshot with the configured TTL. Failures are
// logged by the cache and only reported here.
func (s *paymentService) cacheSnapshot(ctx context.Context, snapshot *response.PaymentResponse) bool {
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Warn("Failed to encode payment snapshot", zap.Error(err), zap.Int64("payment_id", snapshot.ID))
		return false
	}
	return s.cache.Set(ctx, cache.PaymentKey(snapshot.ID), data, s.ttl)
}
