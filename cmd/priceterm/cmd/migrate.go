package cmd

import (
	"context"

	"github.com/smallbiznis/priceterm/internal/config"
	"github.com/smallbiznis/priceterm/internal/logger"
	"github.com/smallbiznis/priceterm/internal/migration"
	"github.com/smallbiznis/priceterm/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			config.Module,
			logger.Module,
			db.Module,
			migration.Module,
			fx.NopLogger,
		)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := app.Start(ctx); err != nil {
			return err
		}
		return app.Stop(ctx)
	},
}
