package cmd

import (
	"context"
	"fmt"

	"polyglot-booking/internal/data/repository"
	"polyglot-booking/internal/wire"
	"polyglot-booking/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func notificationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notification",
		Short: "Run the notification service (MongoDB)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotification(cmd.Context())
		},
	}
}

func runNotification(ctx context.Context) error {
	config, logger, err := bootstrap("notification-service")
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.NotificationPort),
		zap.Bool("debug", config.App.Debug),
	)

	client, db, err := database.InitMongo(config.Mongo)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", zap.Error(err))
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	logger.Info("MongoDB connected successfully", zap.String("database", config.Mongo.Database))

	if err := repository.EnsureNotificationIndexes(ctx, db); err != nil {
		logger.Warn("Failed to ensure notification indexes", zap.Error(err))
	}

	app := wire.WireNotification(client, repository.NewNotificationStore(db, logger), logger)

	ctx, cancel := withSignals(ctx)
	defer cancel()

	return APIServer(ctx, app.Router, config.App.NotificationPort, logger)
}
