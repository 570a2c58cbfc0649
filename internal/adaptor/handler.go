package adaptor

import (
	"polyglot-booking/internal/usecase"

	"go.uber.org/zap"
)

// Handler groups the payment service's HTTP handlers.
type Handler struct {
	Payment *PaymentHandler
	Health  *HealthHandler
}

func NewHandler(service *usecase.Service, health *HealthHandler, log *zap.Logger) *Handler {
	return &Handler{
		Payment: NewPaymentHandler(service.Payment, service.Compensation, log),
		Health:  health,
	}
}
