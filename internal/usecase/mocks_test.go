package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"polyglot-booking/internal/data/entity"
	"polyglot-booking/internal/data/repository"
)

var (
	ErrMockStore = errors.New("mock store error")
)

// fixedNow is the clock every test service runs on.
var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// MockPaymentRepository is an in-memory PaymentRepository. UpdateLocked
// holds the mutex for the whole mutation, like a row lock would.
type MockPaymentRepository struct {
	mu       sync.Mutex
	payments map[int64]entity.Payment
	nextID   int64

	CreateErr error
	FindErr   error
	UpdateErr error

	CreateCalls int
	FindCalls   int
	UpdateCalls int
	Writes      int
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[int64]entity.Payment)}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, p := range m.payments {
		if p.TransactionID == payment.TransactionID {
			return repository.ErrDuplicateTransaction
		}
	}

	m.nextID++
	payment.ID = m.nextID
	m.payments[payment.ID] = clonePayment(*payment)
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id int64) (*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindCalls++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	out := clonePayment(p)
	return &out, nil
}

func (m *MockPaymentRepository) UpdateLocked(ctx context.Context, id int64, mutate repository.PaymentMutation) (*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}

	working := clonePayment(p)
	if err := mutate(&working); err != nil {
		if errors.Is(err, repository.ErrNoChange) {
			out := clonePayment(p)
			return &out, nil
		}
		return nil, err
	}

	m.Writes++
	m.payments[id] = clonePayment(working)
	out := clonePayment(working)
	return &out, nil
}

// Put seeds or overwrites a stored payment.
func (m *MockPaymentRepository) Put(p entity.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID > m.nextID {
		m.nextID = p.ID
	}
	m.payments[p.ID] = clonePayment(p)
}

// Stored returns the persisted copy of payment id.
func (m *MockPaymentRepository) Stored(id int64) (entity.Payment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	return clonePayment(p), ok
}

func clonePayment(p entity.Payment) entity.Payment {
	if p.Metadata != nil {
		p.Metadata = entity.Metadata{}.Merge(p.Metadata)
	}
	if p.CompletedAt != nil {
		completedAt := *p.CompletedAt
		p.CompletedAt = &completedAt
	}
	return p
}

// MockCache is a map-backed cache.Cache that records calls.
type MockCache struct {
	mu      sync.Mutex
	entries map[string][]byte

	GetCalls    int
	SetCalls    int
	DeleteCalls int
	LastTTL     time.Duration
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	v, ok := m.entries[key]
	return v, ok
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	m.LastTTL = ttl
	m.entries[key] = value
	return true
}

func (m *MockCache) Delete(ctx context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	delete(m.entries, key)
	return true
}

func (m *MockCache) Exists(ctx context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

// FailingCache behaves like a cache whose backend is always down.
type FailingCache struct {
	mu    sync.Mutex
	Calls int
}

func (f *FailingCache) count() {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
}

func (f *FailingCache) Get(context.Context, string) ([]byte, bool) {
	f.count()
	return nil, false
}

func (f *FailingCache) Set(context.Context, string, []byte, time.Duration) bool {
	f.count()
	return false
}

func (f *FailingCache) Delete(context.Context, string) bool {
	f.count()
	return false
}

func (f *FailingCache) Exists(context.Context, string) bool {
	f.count()
	return false
}

type refundNotice struct {
	PaymentID int64
	Reason    string
}

// MockNotifier records every notification it is asked to send.
type MockNotifier struct {
	mu        sync.Mutex
	Completed []int64
	Refunded  []refundNotice
}

func (m *MockNotifier) PaymentCompleted(ctx context.Context, payment *entity.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed = append(m.Completed, payment.ID)
}

func (m *MockNotifier) PaymentRefunded(ctx context.Context, payment *entity.Payment, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refunded = append(m.Refunded, refundNotice{PaymentID: payment.ID, Reason: reason})
}

// MockNotificationRepository is an in-memory NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.Mutex
	notifications map[string]entity.Notification

	CreateErr error
	FindErr   error
	UpdateErr error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{notifications: make(map[string]entity.Notification)}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.notifications[n.ID] = *n
	return nil
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id string) (*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	n, ok := m.notifications[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (m *MockNotificationRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}

	matched := make([]*entity.Notification, 0)
	for _, n := range m.notifications {
		if n.UserID == userID {
			n := n
			matched = append(matched, &n)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*entity.Notification{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *MockNotificationRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return 0, m.FindErr
	}
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) UpdateStatus(ctx context.Context, id string, status entity.NotificationStatus, sentAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	n, ok := m.notifications[id]
	if !ok {
		return repository.ErrNotificationNotFound
	}
	n.Status = status
	n.SentAt = sentAt
	m.notifications[id] = n
	return nil
}

// Put seeds a stored notification.
func (m *MockNotificationRepository) Put(n entity.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[n.ID] = n
}
