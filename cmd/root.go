package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cartCmd "github.com/Alturino/fooddelivery/cart/cmd"
	catalogCmd "github.com/Alturino/fooddelivery/catalog/cmd"
	gatewayCmd "github.com/Alturino/fooddelivery/gateway/cmd"
	"github.com/Alturino/fooddelivery/internal/constants"
	"github.com/Alturino/fooddelivery/internal/log"
	notificationCmd "github.com/Alturino/fooddelivery/notification/cmd"
	orderCmd "github.com/Alturino/fooddelivery/order/cmd"
	trackingCmd "github.com/Alturino/fooddelivery/tracking/cmd"
)

func Start() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str(log.KeyAppName, constants.AppMain).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.AppMain}
	commands := []*cobra.Command{
		{
			Use:   "catalog",
			Short: "Run catalog service",
			Run: func(cmd *cobra.Command, args []string) {
				catalogCmd.RunCatalogService(cmd.Context())
			},
		},
		{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "order",
			Short: "Run order service",
			Run: func(cmd *cobra.Command, args []string) {
				orderCmd.RunOrderService(cmd.Context())
			},
		},
		{
			Use:   "tracking",
			Short: "Run order tracking service",
			Run: func(cmd *cobra.Command, args []string) {
				trackingCmd.RunTrackingService(cmd.Context())
			},
		},
		{
			Use:   "gateway",
			Short: "Run gateway service",
			Run: func(cmd *cobra.Command, args []string) {
				gatewayCmd.RunGatewayService(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run notification listener",
			Run: func(cmd *cobra.Command, args []string) {
				notificationCmd.RunNotificationService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
