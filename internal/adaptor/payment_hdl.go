package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"polyglot-booking/internal/apperr"
	"polyglot-booking/internal/data/entity"
	"polyglot-booking/internal/dto/request"
	"polyglot-booking/internal/dto/response"
	"polyglot-booking/internal/usecase"
	"polyglot-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	payment      usecase.PaymentService
	compensation usecase.CompensationService
	log          *zap.Logger
}

func NewPaymentHandler(payment usecase.PaymentService, compensation usecase.CompensationService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payment:      payment,
		compensation: compensation,
		log:          log.With(zap.String("handler", "payment")),
	}
}

// CreatePayment handles POST /api/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payment, err := h.payment.CreatePayment(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create payment")
		return
	}

	utils.ResponseCreated(w, "Payment created successfully", payment)
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid payment ID", nil)
		return
	}

	payment, err := h.payment.GetPayment(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// UpdatePaymentStatus handles PUT /api/payments/{id}/status (service token)
func (h *PaymentHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid payment ID", nil)
		return
	}

	var req request.UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payment, err := h.payment.UpdatePaymentStatus(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err, "update payment status")
		return
	}

	utils.ResponseSuccess(w, "Payment status updated successfully", payment)
}

// GetCompensationEligibility handles GET /api/payments/{id}/compensation
func (h *PaymentHandler) GetCompensationEligibility(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid payment ID", nil)
		return
	}

	utils.ResponseSuccess(w, "success", response.CompensationEligibilityResponse{
		PaymentID: id,
		Eligible:  h.compensation.CanCompensate(r.Context(), id),
	})
}

// CompensatePayment handles POST /api/payments/{id}/compensate (service token)
func (h *PaymentHandler) CompensatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid payment ID", nil)
		return
	}

	// The body is optional: an empty one means the default reason.
	var req request.CompensatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if !h.compensation.CanCompensate(r.Context(), id) {
		// refunding and refunded are let through: the first resumes an
		// interrupted refund, the second is answered idempotently.
		status, err := h.compensation.CurrentStatus(r.Context(), id)
		if err != nil {
			h.handleServiceError(w, err, "compensate payment")
			return
		}
		if status != entity.PaymentStatusRefunding && status != entity.PaymentStatusRefunded {
			caller, _ := utils.GetCallerFromContext(r.Context())
			h.log.Warn("Payment not eligible for refund",
				zap.Int64("payment_id", id),
				zap.String("status", string(status)),
				zap.String("caller", caller),
			)
			utils.ResponseBadRequest(w, "Payment is not eligible for refund", nil)
			return
		}
	}

	if err := h.compensation.Compensate(r.Context(), id, req.Reason); err != nil {
		h.handleServiceError(w, err, "compensate payment")
		return
	}

	payment, err := h.payment.GetPayment(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "compensate payment")
		return
	}

	utils.ResponseSuccess(w, "Payment compensation processed", payment)
}

// handleServiceError maps the error kind to a status code
func (h *PaymentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	handleServiceError(h.log, w, err, operation)
}

func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	kind := apperr.KindOf(err)
	message := apperr.PublicMessage(err)

	switch kind {
	case apperr.KindValidation:
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, message, apperr.FieldErrors(err))

	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, message)

	case apperr.KindInvalidState:
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, message)

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", string(kind)))
		utils.ResponseInternalError(w, message)
	}
}
