package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kickshopping/kickshop/pkg/config"
	"github.com/kickshopping/kickshop/pkg/db"
	"github.com/kickshopping/kickshop/pkg/server"
	"github.com/kickshopping/kickshop/pkg/server/endpoints"
	gormstore "github.com/kickshopping/kickshop/pkg/server/store/gorm"
	"github.com/kickshopping/kickshop/pkg/token"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Kick Shopping API server",
	Long: `Run the Kick Shopping API server.

Requires the DATABASE_URL environment variable. SECRET_KEY should be set
in production; without it the server signs tokens with a well-known
development secret.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" && cfg.DatabaseURL == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		if cfg.IsDevSecret() {
			logrus.Warn("SECRET_KEY is not set; using the development secret. Do not run this in production.")
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			logrus.Info("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		tokens := token.NewService(
			[]byte(cfg.SecretKey),
			cfg.AccessTokenTTL(),
			cfg.RefreshTokenTTL(),
		)

		stores := server.Stores{
			Users:       gormstore.NewUsersStore(database),
			Roles:       gormstore.NewRolesStore(database),
			Permissions: gormstore.NewPermissionsStore(database),
			Products:    gormstore.NewProductsStore(database),
			Cart:        gormstore.NewCartStore(database),
			Purchases:   gormstore.NewPurchasesStore(database),
			Authz:       gormstore.NewAuthzStore(database),
			Health:      gormstore.NewHealthStore(database),
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		if host == "" {
			host = cfg.BindAddress
		}
		if port == "" {
			port = cfg.Port
		}

		s := server.NewServer(cfg, tokens, stores, database, host, port)
		endpoints.RegisterAll(s)

		logrus.Infof("Running server at http://%s:%s...", host, port)
		logrus.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port (default from config)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (default from config)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
