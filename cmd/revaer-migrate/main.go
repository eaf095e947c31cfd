package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/revaer/revaer/pkg/log"
	"github.com/revaer/revaer/pkg/store"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "revaer-migrate",
	Short: "Run Revaer's goose-managed Postgres schema migrations",
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().String("db-host", "127.0.0.1", "Postgres host")
	rootCmd.PersistentFlags().Int("db-port", 5432, "Postgres port")
	rootCmd.PersistentFlags().String("db-user", "revaer", "Postgres user")
	rootCmd.PersistentFlags().String("db-password", "", "Postgres password")
	rootCmd.PersistentFlags().String("db-name", "revaer", "Postgres database name")
	rootCmd.PersistentFlags().String("db-sslmode", "disable", "Postgres sslmode")

	rootCmd.AddCommand(upCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

func dsnFromFlags(cmd *cobra.Command) (string, error) {
	host, err := cmd.Flags().GetString("db-host")
	if err != nil {
		return "", err
	}
	port, err := cmd.Flags().GetInt("db-port")
	if err != nil {
		return "", err
	}
	user, err := cmd.Flags().GetString("db-user")
	if err != nil {
		return "", err
	}
	password, err := cmd.Flags().GetString("db-password")
	if err != nil {
		return "", err
	}
	name, err := cmd.Flags().GetString("db-name")
	if err != nil {
		return "", err
	}
	sslmode, err := cmd.Flags().GetString("db-sslmode")
	if err != nil {
		return "", err
	}
	return store.FormatDSN(host, port, user, password, name, sslmode), nil
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := dsnFromFlags(cmd)
		if err != nil {
			return err
		}
		logger := log.WithComponent("revaer-migrate")
		logger.Info().Msg("applying pending migrations")
		if err := store.Migrate(context.Background(), dsn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("migrations applied")
		return nil
	},
}
