package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/user/blacklist-service/internal/adapter/csvstore"
	pg_adapter "github.com/user/blacklist-service/internal/adapter/postgres"
	"github.com/user/blacklist-service/internal/adapter/safebrowsing"
	"github.com/user/blacklist-service/internal/delivery/http/handler"
	"github.com/user/blacklist-service/internal/delivery/http/router"
	"github.com/user/blacklist-service/internal/repository"
	"github.com/user/blacklist-service/internal/usecase"
	"github.com/user/blacklist-service/pkg/config"
	"github.com/user/blacklist-service/pkg/logger"
	"github.com/user/blacklist-service/pkg/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		gsbKey string
		port   string
		ledger string
	)

	cmd := &cobra.Command{
		Use:          "blacklist-server",
		Short:        "Check ingested URLs against the Google Safe Browsing v4 blacklist",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if gsbKey != "" {
				cfg.GSBAPIKey = gsbKey
			}
			if port != "" {
				cfg.ServerPort = port
			}
			if ledger != "" {
				cfg.LedgerPath = ledger
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&gsbKey, "gsb-key", "", "Google Safe Browsing API key (overrides GSB_API_KEY)")
	cmd.Flags().StringVar(&port, "port", "", "server port (overrides SERVER_PORT)")
	cmd.Flags().StringVar(&ledger, "ledger", "", "ledger CSV path (overrides LEDGER_PATH)")
	return cmd
}

func run(cfg *config.Config) error {
	// --- Logger ---
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	// --- Metrics ---
	metrics.Init()

	if cfg.GSBAPIKey == "" {
		return errors.New("missing Google API key: set --gsb-key or GSB_API_KEY")
	}

	ctx := context.Background()

	// --- Blacklist matcher ---
	matcher := safebrowsing.NewMatcher(safebrowsing.Config{
		APIKey:        cfg.GSBAPIKey,
		Endpoint:      cfg.GSBEndpoint,
		ClientID:      cfg.GSBClientID,
		ClientVersion: cfg.GSBClientVersion,
		Timeout:       cfg.GSBTimeout,
	})

	// --- Ledger stores ---
	ledgerRepo := csvstore.NewLedgerRepo(cfg.LedgerPath)
	slog.Info("Ledger store configured", "path", cfg.LedgerPath)

	var mirrors []repository.LedgerRepository
	if cfg.PostgresHost != "" {
		pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
		dbpool, err := pgxpool.New(ctx, pgConnString)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer dbpool.Close()

		mirror := pg_adapter.NewLedgerRepo(dbpool)
		if err := mirror.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure ledger table: %w", err)
		}
		mirrors = append(mirrors, mirror)
		slog.Info("PostgreSQL ledger mirror enabled", "db", cfg.PostgresDB)
	}

	// --- Use case ---
	blacklist := usecase.NewBlacklist(matcher, ledgerRepo, mirrors...)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(blacklist)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     httpRouter,
		ReadTimeout: 5 * time.Second,
		// Verifying a large batch blocks on the remote API; the write
		// deadline has to cover several sequential 30s calls.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting blacklist server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on port %s: %w", cfg.ServerPort, err)
	}
	return nil
}
