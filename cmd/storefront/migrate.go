package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/seed"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func openDB(cfg config.Config) (*gorm.DB, error) {
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return pkgdb.Open(ctx, cfg.DatabaseURL)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer pkgdb.Close(db)

			if err := repo.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo user and starter catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer pkgdb.Close(db)

			if err := repo.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			ctx := logging.IntoContext(cmd.Context(), logger)
			res, err := seed.Run(ctx, &repo.GormRepo{DB: db})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed completed: user created=%t, products created=%d\n", res.UserCreated, res.ProductsCreated)
			return nil
		},
	}
}
