package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"polyglot-booking/internal/apperr"
	"polyglot-booking/internal/data/entity"
	"polyglot-booking/internal/dto/request"
	"polyglot-booking/internal/dto/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func paymentRouter(h *PaymentHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/payments", h.CreatePayment)
	r.Get("/api/payments/{id}", h.GetPayment)
	r.Put("/api/payments/{id}/status", h.UpdatePaymentStatus)
	r.Get("/api/payments/{id}/compensation", h.GetCompensationEligibility)
	r.Post("/api/payments/{id}/compensate", h.CompensatePayment)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestCreatePaymentHandler(t *testing.T) {
	t.Parallel()

	var got *request.CreatePaymentRequest
	payments := &MockPaymentService{
		CreateFunc: func(ctx context.Context, req *request.CreatePaymentRequest) (*response.PaymentResponse, error) {
			got = req
			return &response.PaymentResponse{ID: 9, Status: entity.PaymentStatusPending}, nil
		},
	}
	h := NewPaymentHandler(payments, &MockCompensationService{}, zap.NewNop())

	rec, env := doRequest(t, paymentRouter(h), http.MethodPost, "/api/payments",
		`{"reservation_id":"r1","user_id":"u1","amount":"5000","payment_method":"card"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if !env.Status {
		t.Error("envelope status = false")
	}
	if got == nil || got.ReservationID != "r1" || got.Amount.String() != "5000" {
		t.Errorf("request passed to service = %+v", got)
	}

	var payment response.PaymentResponse
	if err := json.Unmarshal(env.Data, &payment); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	if payment.ID != 9 {
		t.Errorf("payment ID = %d, want 9", payment.ID)
	}
}

func TestCreatePaymentHandlerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest, "Invalid request body"},
		{"validation", `{}`, apperr.Validation("validation failed: amount: Must be greater than 0", map[string]string{"amount": "Must be greater than 0"}), http.StatusBadRequest, "validation failed: amount: Must be greater than 0"},
		{"store failure", `{}`, apperr.Persistence(errors.New("pq: connection refused"), "failed to create payment"), http.StatusInternalServerError, "failed to create payment"},
		{"unexpected error", `{}`, errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payments := &MockPaymentService{
				CreateFunc: func(context.Context, *request.CreatePaymentRequest) (*response.PaymentResponse, error) {
					return nil, tt.err
				},
			}
			h := NewPaymentHandler(payments, &MockCompensationService{}, zap.NewNop())

			rec, env := doRequest(t, paymentRouter(h), http.MethodPost, "/api/payments", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if strings.Contains(rec.Body.String(), "connection refused") {
				t.Error("driver error leaked into the response")
			}
		})
	}
}

func TestGetPaymentHandler(t *testing.T) {
	t.Parallel()

	payments := &MockPaymentService{
		GetFunc: func(ctx context.Context, id int64) (*response.PaymentResponse, error) {
			if id == 1 {
				return &response.PaymentResponse{ID: 1, Status: entity.PaymentStatusCompleted}, nil
			}
			return nil, apperr.NotFound("payment %d not found", id)
		},
	}
	h := NewPaymentHandler(payments, &MockCompensationService{}, zap.NewNop())
	router := paymentRouter(h)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/payments/1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec, env := doRequest(t, router, http.MethodGet, "/api/payments/2", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if env.Message != "payment 2 not found" {
		t.Errorf("message = %q", env.Message)
	}

	rec, _ = doRequest(t, router, http.MethodGet, "/api/payments/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a non-numeric id", rec.Code)
	}
}

func TestUpdatePaymentStatusHandlerInvalidState(t *testing.T) {
	t.Parallel()

	payments := &MockPaymentService{
		UpdateFunc: func(ctx context.Context, id int64, req *request.UpdatePaymentStatusRequest) (*response.PaymentResponse, error) {
			if req.Status != "pending" {
				t.Errorf("status passed = %q", req.Status)
			}
			return nil, apperr.InvalidState(nil, "cannot move payment %d to %s", id, req.Status)
		},
	}
	h := NewPaymentHandler(payments, &MockCompensationService{}, zap.NewNop())

	rec, _ := doRequest(t, paymentRouter(h), http.MethodPut, "/api/payments/3/status", `{"status":"pending"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestGetCompensationEligibilityHandler(t *testing.T) {
	t.Parallel()

	compensation := &MockCompensationService{
		CanFunc: func(ctx context.Context, id int64) bool { return id == 5 },
	}
	h := NewPaymentHandler(&MockPaymentService{}, compensation, zap.NewNop())

	_, env := doRequest(t, paymentRouter(h), http.MethodGet, "/api/payments/5/compensation", "")

	var got response.CompensationEligibilityResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode eligibility: %v", err)
	}
	if got.PaymentID != 5 || !got.Eligible {
		t.Errorf("eligibility = %+v, want payment 5 eligible", got)
	}
}

func TestCompensatePaymentHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		eligible      bool
		status        entity.PaymentStatus
		compensateErr error
		body          string
		wantStatus    int
		wantCalls     int
		wantReason    string
	}{
		{"eligible", true, entity.PaymentStatusRefunded, nil, `{"reason":"customer request"}`, http.StatusOK, 1, "customer request"},
		{"empty body", true, entity.PaymentStatusRefunded, nil, ``, http.StatusOK, 1, ""},
		{"not eligible", false, entity.PaymentStatusPending, nil, `{}`, http.StatusBadRequest, 0, ""},
		{"resume refunding", false, entity.PaymentStatusRefunding, nil, `{"reason":"resume"}`, http.StatusOK, 1, "resume"},
		{"already refunded", false, entity.PaymentStatusRefunded, nil, `{}`, http.StatusOK, 1, ""},
		{"refund failed", false, entity.PaymentStatusRefundFailed, nil, `{}`, http.StatusBadRequest, 0, ""},
		{"race to invalid state", true, entity.PaymentStatusCompleted, apperr.InvalidState(nil, "payment 1 cannot be compensated"), `{}`, http.StatusConflict, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payments := &MockPaymentService{
				GetFunc: func(ctx context.Context, id int64) (*response.PaymentResponse, error) {
					return &response.PaymentResponse{ID: id, Status: tt.status}, nil
				},
			}
			compensation := &MockCompensationService{
				CanFunc: func(context.Context, int64) bool { return tt.eligible },
				StatusFunc: func(context.Context, int64) (entity.PaymentStatus, error) {
					return tt.status, nil
				},
				CompensateFunc: func(context.Context, int64, string) error { return tt.compensateErr },
			}
			h := NewPaymentHandler(payments, compensation, zap.NewNop())

			rec, env := doRequest(t, paymentRouter(h), http.MethodPost, "/api/payments/1/compensate", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (message %q)", rec.Code, tt.wantStatus, env.Message)
			}
			if compensation.CompensateCalls != tt.wantCalls {
				t.Errorf("Compensate calls = %d, want %d", compensation.CompensateCalls, tt.wantCalls)
			}
			if tt.wantCalls > 0 && compensation.LastReason != tt.wantReason {
				t.Errorf("reason = %q, want %q", compensation.LastReason, tt.wantReason)
			}
			if tt.wantStatus == http.StatusBadRequest && env.Message != "Payment is not eligible for refund" {
				t.Errorf("message = %q", env.Message)
			}
		})
	}
}

func TestCompensatePaymentHandlerIgnoresCachedStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cached     entity.PaymentStatus
		stored     entity.PaymentStatus
		wantStatus int
		wantCalls  int
	}{
		{"cached refunding, stored pending", entity.PaymentStatusRefunding, entity.PaymentStatusPending, http.StatusBadRequest, 0},
		{"cached completed, stored refunding", entity.PaymentStatusCompleted, entity.PaymentStatusRefunding, http.StatusOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payments := &MockPaymentService{
				GetFunc: func(ctx context.Context, id int64) (*response.PaymentResponse, error) {
					return &response.PaymentResponse{ID: id, Status: tt.cached}, nil
				},
			}
			compensation := &MockCompensationService{
				CanFunc: func(context.Context, int64) bool { return false },
				StatusFunc: func(context.Context, int64) (entity.PaymentStatus, error) {
					return tt.stored, nil
				},
			}
			h := NewPaymentHandler(payments, compensation, zap.NewNop())

			rec, _ := doRequest(t, paymentRouter(h), http.MethodPost, "/api/payments/3/compensate", `{}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if compensation.CompensateCalls != tt.wantCalls {
				t.Errorf("Compensate calls = %d, want %d", compensation.CompensateCalls, tt.wantCalls)
			}
		})
	}
}

func TestCompensatePaymentHandlerNotFound(t *testing.T) {
	t.Parallel()

	compensation := &MockCompensationService{}
	h := NewPaymentHandler(&MockPaymentService{}, compensation, zap.NewNop())

	rec, _ := doRequest(t, paymentRouter(h), http.MethodPost, "/api/payments/77/compensate", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if compensation.CompensateCalls != 0 {
		t.Error("Compensate called for a missing payment")
	}
}

func TestCompensatePaymentHandlerReasonTooLong(t *testing.T) {
	t.Parallel()

	h := NewPaymentHandler(&MockPaymentService{}, &MockCompensationService{}, zap.NewNop())
	body := `{"reason":"` + strings.Repeat("x", 256) + `"}`

	rec, env := doRequest(t, paymentRouter(h), http.MethodPost, "/api/payments/1/compensate", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(string(env.Errors), "reason") {
		t.Errorf("errors = %s, want reason", env.Errors)
	}
}
