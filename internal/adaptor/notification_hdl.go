package adaptor

import (
	"encoding/json"
	"net/http"

	"polyglot-booking/internal/dto/request"
	"polyglot-booking/internal/usecase"
	"polyglot-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// CreateBookingNotification handles POST /api/notifications/booking
func (h *NotificationHandler) CreateBookingNotification(w http.ResponseWriter, r *http.Request) {
	var req request.BookingNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	notification, err := h.service.CreateBookingNotification(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking notification")
		return
	}

	utils.ResponseCreated(w, "Booking notification created", notification)
}

// CreatePaymentNotification handles POST /api/notifications/payment
func (h *NotificationHandler) CreatePaymentNotification(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	notification, err := h.service.CreatePaymentNotification(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create payment notification")
		return
	}

	utils.ResponseCreated(w, "Payment notification created", notification)
}

// CreateRefundNotification handles POST /api/notifications/refund
func (h *NotificationHandler) CreateRefundNotification(w http.ResponseWriter, r *http.Request) {
	var req request.RefundNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	notification, err := h.service.CreateRefundNotification(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create refund notification")
		return
	}

	utils.ResponseCreated(w, "Refund notification created", notification)
}

// GetNotification handles GET /api/notifications/{id}
func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Notification ID is required", nil)
		return
	}

	notification, err := h.service.GetNotification(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get notification")
		return
	}

	utils.ResponseSuccess(w, "success", notification)
}

// GetUserNotifications handles GET /api/notifications/user/{user_id}
func (h *NotificationHandler) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	notifications, err := h.service.GetUserNotifications(r.Context(), userID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get user notifications")
		return
	}

	utils.ResponseSuccess(w, "success", notifications)
}
