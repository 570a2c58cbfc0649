package wire

import (
	"polyglot-booking/internal/adaptor"
	"polyglot-booking/pkg/middleware"
	"polyglot-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/payments", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/", paymentHandler.CreatePayment)
		r.Get("/{id}", paymentHandler.GetPayment)
		r.Get("/{id}/compensation", paymentHandler.GetCompensationEligibility)

		// ==================== SERVICE ROUTES ====================
		// State changes come from other services (booking saga) and need the service token
		r.Group(func(r chi.Router) {
			r.Use(middleware.ServiceToken(config.Auth.ServiceTokenHash, log))

			r.Put("/{id}/status", paymentHandler.UpdatePaymentStatus)
			r.Post("/{id}/compensate", paymentHandler.CompensatePayment)
		})
	})
}
