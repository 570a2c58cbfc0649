package usecase

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"polyglot-booking/internal/apperr"
	"polyglot-booking/internal/data/entity"
	"polyglot-booking/internal/data/repository"
	"polyglot-booking/internal/dto/request"
	"polyglot-booking/internal/dto/response"
	"polyglot-booking/pkg/utils"

	"go.uber.org/zap"
)

var notificationTemplates = template.Must(template.New("notifications").Parse(`
{{define "booking"}}<h2>Booking confirmed!</h2>
<p>Hello {{if .UserName}}{{.UserName}}{{else}}Customer{{end}},</p>
<p>Your booking for <strong>{{.EventName}}</strong> is confirmed.</p>
<ul>
  <li>Seats: {{.Seats}}</li>
  <li>Date: {{or .EventDate "N/A"}}</li>
  <li>Location: {{or .Location "N/A"}}</li>
</ul>
<p>Reservation number: <strong>{{or .ReservationID "N/A"}}</strong></p>
<p>Thank you for your trust!</p>{{end}}
{{define "payment"}}<h2>Payment confirmed!</h2>
<p>Hello,</p>
<p>Your payment of <strong>{{.Amount}} {{.Currency}}</strong> has been confirmed.</p>
<p>Payment reference: <strong>{{.PaymentID}}</strong></p>
<p>Thank you for your transaction!</p>{{end}}
{{define "refund"}}<h2>Payment refunded</h2>
<p>Hello,</p>
<p>Your payment of <strong>{{.Amount}} {{.Currency}}</strong> has been refunded.</p>
<p>Payment reference: <strong>{{.PaymentID}}</strong></p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}{{end}}
`))

// Sender delivers a stored notification over its channel.
type Sender func(ctx context.Context, n *entity.Notification) error

type NotificationService interface {
	CreateBookingNotification(ctx context.Context, req *request.BookingNotificationRequest) (*response.NotificationResponse, error)
	CreatePaymentNotification(ctx context.Context, req *request.PaymentNotificationRequest) (*response.NotificationResponse, error)
	CreateRefundNotification(ctx context.Context, req *request.RefundNotificationRequest) (*response.NotificationResponse, error)
	GetNotification(ctx context.Context, id string) (*response.NotificationResponse, error)
	GetUserNotifications(ctx context.Context, userID string, page request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
}

type notificationService struct {
	repo repository.NotificationRepository
	send Sender
	now  func() time.Time
	log  *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, log *zap.Logger) NotificationService {
	s := &notificationService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
		log:  log.With(zap.String("service", "notification")),
	}
	s.send = s.simulateSend
	return s
}

func (s *notificationService) CreateBookingNotification(ctx context.Context, req *request.BookingNotificationRequest) (*response.NotificationResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	content, err := render("booking", req)
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, &entity.Notification{
		UserID:  req.UserID,
		Type:    entity.NotificationTypeBookingConfirmation,
		Subject: "Booking confirmation - " + req.EventName,
		Content: content,
		Metadata: entity.Metadata{
			"reservation_id": req.ReservationID,
			"event_id":       req.EventID,
			"seats":          req.Seats,
		},
	})
}

func (s *notificationService) CreatePaymentNotification(ctx context.Context, req *request.PaymentNotificationRequest) (*response.NotificationResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if req.Currency == "" {
		req.Currency = entity.DefaultCurrency
	}

	content, err := render("payment", req)
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, &entity.Notification{
		UserID:  req.UserID,
		Type:    entity.NotificationTypePaymentSuccess,
		Subject: "Payment confirmed",
		Content: content,
		Metadata: entity.Metadata{
			"payment_id": req.PaymentID,
			"amount":     req.Amount.String(),
			"currency":   req.Currency,
		},
	})
}

func (s *notificationService) CreateRefundNotification(ctx context.Context, req *request.RefundNotificationRequest) (*response.NotificationResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if req.Currency == "" {
		req.Currency = entity.DefaultCurrency
	}

	content, err := render("refund", req)
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, &entity.Notification{
		UserID:  req.UserID,
		Type:    entity.NotificationTypePaymentRefunded,
		Subject: "Payment refunded",
		Content: content,
		Metadata: entity.Metadata{
			"payment_id": req.PaymentID,
			"amount":     req.Amount.String(),
			"currency":   req.Currency,
			"reason":     req.Reason,
		},
	})
}

func (s *notificationService) GetNotification(ctx context.Context, id string) (*response.NotificationResponse, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to get notification %s", id)
	}
	if notification == nil {
		return nil, apperr.NotFound("notification %s not found", id)
	}

	resp := response.NotificationToResponse(notification)
	return &resp, nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, page request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	page = page.Normalize()

	notifications, err := s.repo.FindByUserID(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list notifications for user %s", userID)
	}

	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to count notifications for user %s", userID)
	}

	data := make([]response.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		data = append(data, response.NotificationToResponse(n))
	}

	return response.NewPaginatedResponse(data, page.Page, page.PerPage, total), nil
}

func (s *notificationService) validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Notification validation failed", zap.Any("errors", errs))
		return apperr.Validation("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}
	return nil
}

// dispatch stores the notification as pending, then sends it. A failed send
// is recorded on the document and does not fail the call.
func (s *notificationService) dispatch(ctx context.Context, n *entity.Notification) (*response.NotificationResponse, error) {
	n.ID = utils.GenerateUUIDString()
	n.Channel = entity.NotificationChannelEmail
	n.Status = entity.NotificationStatusPending
	n.CreatedAt = s.now()

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperr.Persistence(err, "failed to create notification")
	}

	s.log.Info("Notification created",
		zap.String("notification_id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("user_id", n.UserID),
	)

	var sentAt *time.Time
	status := entity.NotificationStatusSent
	if err := s.send(ctx, n); err != nil {
		s.log.Error("Failed to send notification", zap.Error(err), zap.String("notification_id", n.ID))
		status = entity.NotificationStatusFailed
	} else {
		now := s.now()
		sentAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, n.ID, status, sentAt); err != nil {
		return nil, apperr.Persistence(err, "failed to update notification %s", n.ID)
	}
	n.Status = status
	n.SentAt = sentAt

	resp := response.NotificationToResponse(n)
	return &resp, nil
}

func (s *notificationService) simulateSend(ctx context.Context, n *entity.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("Sending notification",
		zap.String("channel", string(n.Channel)),
		zap.String("user_id", n.UserID),
		zap.String("subject", n.Subject),
	)
	return nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := notificationTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", apperr.Persistence(err, "failed to render %s notification", name)
	}
	return buf.String(), nil
}
