package wire

import (
	"polyglot-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireNotification(r chi.Router, notificationHandler *adaptor.NotificationHandler) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Post("/booking", notificationHandler.CreateBookingNotification)
		r.Post("/payment", notificationHandler.CreatePaymentNotification)
		r.Post("/refund", notificationHandler.CreateRefundNotification)

		r.Get("/user/{user_id}", notificationHandler.GetUserNotifications)
		r.Get("/{id}", notificationHandler.GetNotification)
	})
}
