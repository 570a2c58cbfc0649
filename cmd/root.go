package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"polyglot-booking/internal/wire"
	"polyglot-booking/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	rootCmd := &cobra.Command{
		Use:           "polyglot-booking",
		Short:         "Payment and notification services for the booking saga",
		Version:       wire.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(paymentCmd())
	rootCmd.AddCommand(notificationCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(hashTokenCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config and builds the service logger.
func bootstrap(service string) (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, service, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	return config, logger, nil
}
