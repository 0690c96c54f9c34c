package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"busbenin/api/routes"
	"busbenin/internal/notifications"
	"busbenin/internal/shared/config"
	"busbenin/internal/shared/database"
	"busbenin/pkg/cache"
	"busbenin/pkg/fedapay"
	"busbenin/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app is the state shared by every subcommand
type app struct {
	cfg *config.Config
	log *logger.Logger
	sql *gorm.DB
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "busctl",
		Short:         "Operational commands for the Bus Benin backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			a.cfg = config.Load()
			a.log = logger.New(a.cfg.LogLevel)

			sqlDB, err := database.OpenSQL(a.cfg)
			if err != nil {
				return err
			}
			a.sql = sqlDB
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.sql == nil {
				return nil
			}
			sqlDB, err := a.sql.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newReconcileCmd(a),
		newExpireCmd(a),
	)
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables, constraints and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(a.sql); err != nil {
				return err
			}
			fmt.Println("✅ Migrations applied")
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load destinations, compagnies, trajets and demo accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(a.sql); err != nil {
				return err
			}
			seeder := &Seeder{db: a.sql}
			if clean {
				fmt.Println("🧹 Cleaning catalogue...")
				if err := seeder.Clean(); err != nil {
					return err
				}
			}
			fmt.Println("🌱 Seeding database...")
			if err := seeder.SeedAll(); err != nil {
				return err
			}
			fmt.Println("🎉 Seeding completed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "delete existing catalogue and reservations first")
	return cmd
}

func newReconcileCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one payment reconciliation sweep against FedaPay",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := a.services().Reservations.RunReconcileSweep(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("checked=%d confirmed=%d failed=%d\n", result.Checked, result.Confirmed, result.Failed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "sweep deadline")
	return cmd
}

func newExpireCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Expire stale pending reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			n, err := a.services().Reservations.RunExpirySweep(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("expired=%d\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "sweep deadline")
	return cmd
}

// services builds the service graph with an in-process cache; events are logged only
func (a *app) services() *routes.Services {
	return routes.BuildServices(routes.Dependencies{
		Config: a.cfg,
		SQL:    a.sql,
		Cache:  cache.NewMemory(),
		Logger: a.log,
		Gateway: fedapay.NewClient(fedapay.Config{
			SecretKey:   a.cfg.FedaPay.SecretKey,
			Environment: a.cfg.FedaPay.Environment,
			BaseURL:     a.cfg.FedaPay.BaseURL,
			CheckoutURL: a.cfg.FedaPay.CheckoutURL,
			Timeout:     a.cfg.FedaPay.Timeout,
			Logger:      a.log.Logger,
		}),
		Publisher: notifications.NewLogPublisher(a.log),
	})
}
