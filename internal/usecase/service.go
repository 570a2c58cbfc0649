package usecase

import (
	"polyglot-booking/internal/cache"
	"polyglot-booking/internal/data/repository"
	"polyglot-booking/internal/notifier"
	"polyglot-booking/internal/provider"
	"polyglot-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service groups the payment service's usecases.
type Service struct {
	Payment      PaymentService
	Compensation CompensationService
}

func NewService(
	repo *repository.Repository,
	c cache.Cache,
	p provider.RefundProvider,
	n notifier.Notifier,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Payment: NewPaymentService(repo.Payment, c, n, config.Cache.TTL, log),
		Compensation: NewCompensationService(repo.Payment, c, p, n, CompensationPolicy{
			MaxAge:      config.Compensation.MaxAge,
			RetryFailed: config.Compensation.RetryFailed,
		}, log),
	}
}
