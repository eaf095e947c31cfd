package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/revaer/revaer/pkg/config"
	"github.com/revaer/revaer/pkg/events"
	"github.com/revaer/revaer/pkg/fsops"
	"github.com/revaer/revaer/pkg/health"
	"github.com/revaer/revaer/pkg/httpapi"
	"github.com/revaer/revaer/pkg/log"
	"github.com/revaer/revaer/pkg/runtimestore"
	"github.com/revaer/revaer/pkg/security"
	"github.com/revaer/revaer/pkg/sse"
	"github.com/revaer/revaer/pkg/store"
	"github.com/revaer/revaer/pkg/torrentapi"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "revaerd",
	Short:   "Revaer - torrent engine control plane",
	Long:    `revaerd serves the Revaer HTTP/SSE control-plane surface over a Postgres-backed configuration facade.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("revaerd version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("db-host", "127.0.0.1", "Postgres host")
	serveCmd.Flags().Int("db-port", 5432, "Postgres port")
	serveCmd.Flags().String("db-user", "revaer", "Postgres user")
	serveCmd.Flags().String("db-password", "", "Postgres password")
	serveCmd.Flags().String("db-name", "revaer", "Postgres database name")
	serveCmd.Flags().String("db-sslmode", "disable", "Postgres sslmode")
	serveCmd.Flags().String("master-key", "", "Passphrase used to derive the secrets-at-rest encryption key (required)")
	serveCmd.Flags().String("bind", "0.0.0.0:8080", "HTTP listen address")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origin (repeatable)")
	serveCmd.Flags().Int("runtimestore-workers", 4, "Number of runtime-store background write workers")
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/SSE control-plane server",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbHost, _ := cmd.Flags().GetString("db-host")
		dbPort, _ := cmd.Flags().GetInt("db-port")
		dbUser, _ := cmd.Flags().GetString("db-user")
		dbPassword, _ := cmd.Flags().GetString("db-password")
		dbName, _ := cmd.Flags().GetString("db-name")
		dbSSLMode, _ := cmd.Flags().GetString("db-sslmode")
		masterKey, _ := cmd.Flags().GetString("master-key")
		bind, _ := cmd.Flags().GetString("bind")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origin")
		runtimeWorkers, _ := cmd.Flags().GetInt("runtimestore-workers")

		if masterKey == "" {
			return fmt.Errorf("--master-key is required")
		}

		ctx := context.Background()

		dsn := store.FormatDSN(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
		st, err := store.Open(ctx, dsn)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		secrets, err := security.NewSecretsManagerFromPassword(masterKey)
		if err != nil {
			return fmt.Errorf("init secrets manager: %w", err)
		}

		cfg := config.New(st, secrets)
		broker := events.NewBroker()
		aggregator := health.NewAggregator()
		dbChecker := health.NewDBChecker(st.Pool())

		rtStore := runtimestore.New(st.Q(), runtimeWorkers)
		defer rtStore.Stop()
		pipeline := fsops.NewPipeline(broker, aggregator)

		engine := torrentapi.NewFakeEngine()
		torrents := torrentapi.NewService(engine)

		watcher := newFsopsWatcher(cfg, torrents, pipeline, rtStore)
		watcherCtx, stopWatcher := context.WithCancel(ctx)
		defer stopWatcher()
		go watcher.run(watcherCtx)

		gateway := sse.NewGateway(broker, cfg, cfg, torrents, sse.DefaultHeartbeatInterval)

		api := httpapi.New(httpapi.Deps{
			Config:    cfg,
			Torrents:  torrents,
			Events:    gateway,
			Health:    aggregator,
			DBChecker: dbChecker,
		})

		router, err := api.Router(httpapi.CORSOptions{AllowedOrigins: corsOrigins})
		if err != nil {
			return fmt.Errorf("build router: %w", err)
		}

		srv := &http.Server{
			Addr:              bind,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		logger := log.WithComponent("revaerd")
		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", bind).Msg("http server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			logger.Info().Msg("shutting down")
		case err := <-errCh:
			return fmt.Errorf("http server error: %w", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
