package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"polyglot-booking/internal/data/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type recorded struct {
	path  string
	event paymentEvent
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, func() []recorded) {
	t.Helper()

	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev paymentEvent
		_ = json.NewDecoder(r.Body).Decode(&ev)
		mu.Lock()
		calls = append(calls, recorded{path: r.URL.Path, event: ev})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func testPayment() *entity.Payment {
	return &entity.Payment{ID: 12, UserID: "user-1", Amount: decimal.NewFromInt(5000), Currency: "XOF"}
}

func TestHTTPNotifierPaymentCompleted(t *testing.T) {
	t.Parallel()
	srv, calls := newRecordingServer(t, http.StatusCreated)
	n := NewHTTPNotifier(srv.URL+"/", time.Second, zap.NewNop())

	n.PaymentCompleted(context.Background(), testPayment())

	got := calls()
	if len(got) != 1 {
		t.Fatalf("expected 1 call, got %d", len(got))
	}
	if got[0].path != "/api/notifications/payment" {
		t.Errorf("path = %s", got[0].path)
	}
	if got[0].event.PaymentID != "12" || got[0].event.UserID != "user-1" {
		t.Errorf("unexpected event %+v", got[0].event)
	}
	if !got[0].event.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("amount = %s", got[0].event.Amount)
	}
}

func TestHTTPNotifierPaymentRefunded(t *testing.T) {
	t.Parallel()
	srv, calls := newRecordingServer(t, http.StatusCreated)
	n := NewHTTPNotifier(srv.URL, time.Second, zap.NewNop())

	n.PaymentRefunded(context.Background(), testPayment(), "customer request")

	got := calls()
	if len(got) != 1 || got[0].path != "/api/notifications/refund" {
		t.Fatalf("unexpected calls %+v", got)
	}
	if got[0].event.Reason != "customer request" {
		t.Errorf("reason = %q", got[0].event.Reason)
	}
}

func TestHTTPNotifierSwallowsFailures(t *testing.T) {
	t.Parallel()
	srv, calls := newRecordingServer(t, http.StatusInternalServerError)
	n := NewHTTPNotifier(srv.URL, time.Second, zap.NewNop())

	// Must not panic or block on a failing notification service
	n.PaymentCompleted(context.Background(), testPayment())
	if len(calls()) != 1 {
		t.Error("expected the call to be attempted once")
	}

	unreachable := NewHTTPNotifier("http://127.0.0.1:1", 100*time.Millisecond, zap.NewNop())
	unreachable.PaymentRefunded(context.Background(), testPayment(), "x")
}
