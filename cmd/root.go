package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cart "github.com/Alturino/storefront/cart/cmd"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	notification "github.com/Alturino/storefront/notification/cmd"
	order "github.com/Alturino/storefront/order/cmd"
	product "github.com/Alturino/storefront/product/cmd"
	warehouse "github.com/Alturino/storefront/warehouse/cmd"
)

func Start() {
	logger := log.Get(
		fmt.Sprintf("/var/log/%s.log", constants.APP_STOREFRONT),
		config.Application{Env: os.Getenv("APPLICATION_ENV")},
	).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_STOREFRONT).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{
		Use:           constants.APP_STOREFRONT,
		Short:         "Storefront checkout services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "cart",
			Short: "Run cart service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return cart.RunCartService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "order",
			Short: "Run order service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return order.RunOrderService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "product",
			Short: "Run product service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return product.RunProductService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "notification",
			Short: "Run notification service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return notification.RunNotificationService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "warehouse",
			Short: "Run warehouse consumer",
			RunE: func(cmd *cobra.Command, args []string) error {
				return warehouse.RunWarehouseConsumer(cmd.Context())
			},
		},
		migrateCommand(),
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}

func migrateCommand() *cobra.Command {
	down := false
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			logger := zerolog.Ctx(c).
				With().
				Str(constants.KEY_APP_NAME, constants.APP_MIGRATION).
				Str(constants.KEY_TAG, "main migrate").
				Logger()
			c = logger.WithContext(c)

			cfg, err := config.Get(c, constants.APP_MIGRATION)
			if err != nil {
				return err
			}
			direction := infra.MigrationUp
			if down {
				direction = infra.MigrationDown
			}
			return infra.Migrate(c, cfg.Database, direction)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll every migration back")
	return cmd
}
