package wire

import (
	"context"
	"fmt"

	"polyglot-booking/internal/adaptor"
	"polyglot-booking/internal/cache"
	"polyglot-booking/internal/data/repository"
	"polyglot-booking/internal/notifier"
	"polyglot-booking/internal/provider"
	"polyglot-booking/internal/usecase"
	"polyglot-booking/pkg/database"
	"polyglot-booking/pkg/middleware"
	"polyglot-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const Version = "1.0.0"

// App holds a fully wired HTTP service.
type App struct {
	Router *chi.Mux
}

// PaymentDeps are the connections the payment service runs on. Redis may be
// nil when caching is disabled.
type PaymentDeps struct {
	DB    database.PgxIface
	Redis redis.UniversalClient
}

// WirePayment builds the payment service: store, cache, provider, notifier,
// usecases, handlers and routes.
func WirePayment(deps PaymentDeps, config *utils.Config, logger *zap.Logger) (*App, error) {
	repo := repository.NewRepository(deps.DB, logger)

	refunds, err := provider.NewSimulated(config.Compensation.RefundSimulation, logger)
	if err != nil {
		return nil, fmt.Errorf("refund provider: %w", err)
	}

	service := usecase.NewService(repo, paymentCache(deps.Redis, config, logger), refunds, paymentNotifier(config, logger), config, logger)

	checks := []adaptor.HealthCheck{
		{Name: "database", Critical: true, Check: deps.DB.Ping},
	}
	if deps.Redis != nil {
		checks = append(checks, adaptor.HealthCheck{
			Name: "cache",
			Check: func(ctx context.Context) error {
				return deps.Redis.Ping(ctx).Err()
			},
		})
	}

	health := adaptor.NewHealthHandler("payment-service", paymentBanner(), checks, logger)
	handler := adaptor.NewHandler(service, health, logger)

	r := newRouter(logger)
	r.Get("/", handler.Health.Index)
	r.Get("/health", handler.Health.Health)
	wirePayment(r, handler.Payment, config, logger)

	return &App{Router: r}, nil
}

// WireNotification builds the notification service on MongoDB.
func WireNotification(client *mongo.Client, store *repository.NotificationStore, logger *zap.Logger) *App {
	service := usecase.NewNotificationService(store.Notification, logger)
	handler := adaptor.NewNotificationHandler(service, logger)

	health := adaptor.NewHealthHandler("notification-service", notificationBanner(), []adaptor.HealthCheck{
		{
			Name:     "database",
			Critical: true,
			Check: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
		},
	}, logger)

	r := newRouter(logger)
	r.Get("/", health.Index)
	r.Get("/health", health.Health)
	wireNotification(r, handler)

	return &App{Router: r}
}

func newRouter(logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	return r
}

func paymentCache(client redis.UniversalClient, config *utils.Config, logger *zap.Logger) cache.Cache {
	if !config.Cache.Enabled || client == nil {
		logger.Info("Payment cache disabled")
		return cache.Noop{}
	}
	return cache.NewRedisCache(client, logger)
}

func paymentNotifier(config *utils.Config, logger *zap.Logger) notifier.Notifier {
	if config.Notification.URL == "" {
		logger.Info("Notification delivery disabled")
		return notifier.Noop{}
	}
	return notifier.NewHTTPNotifier(config.Notification.URL, config.Notification.Timeout, logger)
}

func paymentBanner() adaptor.Banner {
	return adaptor.Banner{
		Message:  "Payment Service API - PostgreSQL + Redis Cache",
		Version:  Version,
		Status:   "healthy",
		Storage:  "PostgreSQL (transactions) + Redis (cache)",
		Patterns: []string{"Polyglot Persistence", "Cache-Aside", "Saga Compensation"},
		Endpoints: map[string]string{
			"payments":      "/api/payments",
			"compensations": "/api/payments/:id/compensate",
			"health":        "/health",
		},
	}
}

func notificationBanner() adaptor.Banner {
	return adaptor.Banner{
		Message:  "Notification Service API - MongoDB",
		Version:  Version,
		Status:   "healthy",
		Storage:  "MongoDB (documents)",
		Patterns: []string{"Polyglot Persistence", "Document Store"},
		Endpoints: map[string]string{
			"notifications": "/api/notifications",
			"user":          "/api/notifications/user/:user_id",
			"health":        "/health",
		},
	}
}
