package cmd

import (
	"context"
	"fmt"

	"polyglot-booking/internal/wire"
	"polyglot-booking/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func paymentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payment",
		Short: "Run the payment service (PostgreSQL + Redis)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayment(cmd.Context())
		},
	}
}

func runPayment(ctx context.Context) error {
	config, logger, err := bootstrap("payment-service")
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.PaymentPort),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("Failed to migrate database", zap.Error(err))
		return err
	}

	deps := wire.PaymentDeps{DB: db}
	if config.Cache.Enabled {
		client, err := database.InitRedis(config.Redis)
		if err != nil {
			// The cache fails open, so a cold Redis is not fatal.
			logger.Warn("Redis unreachable, continuing with degraded cache", zap.Error(err), zap.String("addr", config.Redis.Addr))
		} else {
			logger.Info("Redis connected successfully")
		}
		defer func() { _ = client.Close() }()
		deps.Redis = client
	}

	app, err := wire.WirePayment(deps, config, logger)
	if err != nil {
		logger.Error("Failed to wire payment service", zap.Error(err))
		return err
	}

	ctx, cancel := withSignals(ctx)
	defer cancel()

	return APIServer(ctx, app.Router, config.App.PaymentPort, logger)
}
