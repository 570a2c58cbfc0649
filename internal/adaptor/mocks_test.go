package adaptor

import (
	"context"

	"polyglot-booking/internal/apperr"
	"polyglot-booking/internal/data/entity"
	"polyglot-booking/internal/dto/request"
	"polyglot-booking/internal/dto/response"
)

// MockPaymentService implements usecase.PaymentService for testing
type MockPaymentService struct {
	CreateFunc func(ctx context.Context, req *request.CreatePaymentRequest) (*response.PaymentResponse, error)
	GetFunc    func(ctx context.Context, id int64) (*response.PaymentResponse, error)
	UpdateFunc func(ctx context.Context, id int64, req *request.UpdatePaymentStatusRequest) (*response.PaymentResponse, error)
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, req *request.CreatePaymentRequest) (*response.PaymentResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &response.PaymentResponse{ID: 1}, nil
}

func (m *MockPaymentService) GetPayment(ctx context.Context, id int64) (*response.PaymentResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, apperr.NotFound("payment %d not found", id)
}

func (m *MockPaymentService) UpdatePaymentStatus(ctx context.Context, id int64, req *request.UpdatePaymentStatusRequest) (*response.PaymentResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return &response.PaymentResponse{ID: id}, nil
}

// MockCompensationService implements usecase.CompensationService for testing
type MockCompensationService struct {
	CanFunc        func(ctx context.Context, id int64) bool
	StatusFunc     func(ctx context.Context, id int64) (entity.PaymentStatus, error)
	CompensateFunc func(ctx context.Context, id int64, reason string) error

	CompensateCalls int
	LastReason      string
}

func (m *MockCompensationService) CanCompensate(ctx context.Context, id int64) bool {
	if m.CanFunc != nil {
		return m.CanFunc(ctx, id)
	}
	return false
}

func (m *MockCompensationService) CurrentStatus(ctx context.Context, id int64) (entity.PaymentStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, id)
	}
	return "", apperr.NotFound("payment %d not found", id)
}

func (m *MockCompensationService) Compensate(ctx context.Context, id int64, reason string) error {
	m.CompensateCalls++
	m.LastReason = reason
	if m.CompensateFunc != nil {
		return m.CompensateFunc(ctx, id, reason)
	}
	return nil
}

// MockNotificationService implements usecase.NotificationService for testing
type MockNotificationService struct {
	BookingFunc func(ctx context.Context, req *request.BookingNotificationRequest) (*response.NotificationResponse, error)
	PaymentFunc func(ctx context.Context, req *request.PaymentNotificationRequest) (*response.NotificationResponse, error)
	RefundFunc  func(ctx context.Context, req *request.RefundNotificationRequest) (*response.NotificationResponse, error)
	GetFunc     func(ctx context.Context, id string) (*response.NotificationResponse, error)
	ListFunc    func(ctx context.Context, userID string, page request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
}

func (m *MockNotificationService) CreateBookingNotification(ctx context.Context, req *request.BookingNotificationRequest) (*response.NotificationResponse, error) {
	if m.BookingFunc != nil {
		return m.BookingFunc(ctx, req)
	}
	return &response.NotificationResponse{ID: "n-1"}, nil
}

func (m *MockNotificationService) CreatePaymentNotification(ctx context.Context, req *request.PaymentNotificationRequest) (*response.NotificationResponse, error) {
	if m.PaymentFunc != nil {
		return m.PaymentFunc(ctx, req)
	}
	return &response.NotificationResponse{ID: "n-1"}, nil
}

func (m *MockNotificationService) CreateRefundNotification(ctx context.Context, req *request.RefundNotificationRequest) (*response.NotificationResponse, error) {
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, req)
	}
	return &response.NotificationResponse{ID: "n-1"}, nil
}

func (m *MockNotificationService) GetNotification(ctx context.Context, id string) (*response.NotificationResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, apperr.NotFound("notification %s not found", id)
}

func (m *MockNotificationService) GetUserNotifications(ctx context.Context, userID string, page request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, page)
	}
	return response.NewPaginatedResponse([]response.NotificationResponse{}, page.Page, page.PerPage, 0), nil
}
