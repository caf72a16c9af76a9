package main

import (
	"os"

	"clinic-management/cmd/bootstrap"
	"clinic-management/config"
	"clinic-management/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic",
		Short:        "Clinic management API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			// Initialize application with all dependencies
			app, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	for _, direction := range []string{"up", "down"} {
		direction := direction
		short := "Apply pending migrations"
		if direction == "down" {
			short = "Revert the last migration"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   direction,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				return database.Migrate(cfg.DB.MigrationURL(), direction)
			},
		})
	}

	return cmd
}

func seedCmd() *cobra.Command {
	opts := bootstrap.SeedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first branch and super admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if opts.AdminPassword == "" {
				opts.AdminPassword = os.Getenv("SEED_ADMIN_PASSWORD")
			}

			log := bootstrap.NewLogger(cfg.App)
			db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			return bootstrap.Seed(db, log, opts)
		},
	}

	cmd.Flags().StringVar(&opts.BranchName, "branch", "Main Clinic", "name of the first branch")
	cmd.Flags().StringVar(&opts.AdminEmail, "email", "admin@clinic.local", "super admin email")
	cmd.Flags().StringVar(&opts.AdminPassword, "password", "", "super admin password (default $SEED_ADMIN_PASSWORD)")
	cmd.Flags().BoolVar(&opts.WithCatalog, "catalog", false, "also seed a starter service catalog")
	return cmd
}
