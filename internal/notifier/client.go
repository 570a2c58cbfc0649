// Package notifier lets the payment service tell the notification service
// about settled payments. Delivery is best effort: failures are logged and
// never reach payment state.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"polyglot-booking/internal/data/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Notifier interface {
	PaymentCompleted(ctx context.Context, payment *entity.Payment)
	PaymentRefunded(ctx context.Context, payment *entity.Payment, reason string)
}

// Noop discards every notification.
type Noop struct{}

func (Noop) PaymentCompleted(context.Context, *entity.Payment) {}

func (Noop) PaymentRefunded(context.Context, *entity.Payment, string) {}

type paymentEvent struct {
	UserID    string          `json:"user_id"`
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Reason    string          `json:"reason,omitempty"`
}

type HTTPNotifier struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPNotifier(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.With(zap.String("notifier", "http")),
	}
}

func (n *HTTPNotifier) PaymentCompleted(ctx context.Context, payment *entity.Payment) {
	n.send(ctx, "/api/notifications/payment", eventFor(payment, ""))
}

func (n *HTTPNotifier) PaymentRefunded(ctx context.Context, payment *entity.Payment, reason string) {
	n.send(ctx, "/api/notifications/refund", eventFor(payment, reason))
}

func eventFor(payment *entity.Payment, reason string) paymentEvent {
	return paymentEvent{
		UserID:    payment.UserID,
		PaymentID: strconv.FormatInt(payment.ID, 10),
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Reason:    reason,
	}
}

func (n *HTTPNotifier) send(ctx context.Context, path string, event paymentEvent) {
	if err := n.post(ctx, path, event); err != nil {
		n.log.Warn("Notification delivery failed",
			zap.Error(err),
			zap.String("path", path),
			zap.String("payment_id", event.PaymentID),
		)
		return
	}

	n.log.Info("Notification delivered",
		zap.String("path", path),
		zap.String("payment_id", event.PaymentID),
	)
}

func (n *HTTPNotifier) post(ctx context.Context, path string, event paymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification service returned %d", resp.StatusCode)
	}
	return nil
}
