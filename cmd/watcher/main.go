package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/user/blacklist-service/internal/adapter/csvstore"
	"github.com/user/blacklist-service/internal/adapter/gitfeed"
	"github.com/user/blacklist-service/internal/adapter/ingestclient"
	pg_adapter "github.com/user/blacklist-service/internal/adapter/postgres"
	redis_adapter "github.com/user/blacklist-service/internal/adapter/redis"
	"github.com/user/blacklist-service/internal/adapter/safebrowsing"
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
		repoURL      string
		pullInterval int
		gsbKey       string
		ingestURL    string
	)

	cmd := &cobra.Command{
		Use:          "feed-watcher",
		Short:        "Watch the feed repository and verify newly appeared URLs against the blacklist",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if repoURL != "" {
				cfg.FeedRepoURL = repoURL
			}
			if pullInterval > 0 {
				cfg.PullInterval = time.Duration(pullInterval) * time.Second
			}
			if gsbKey != "" {
				cfg.GSBAPIKey = gsbKey
			}
			if ingestURL != "" {
				cfg.IngestURL = ingestURL
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&repoURL, "repo-url", "", "feed repository URL (overrides FEED_REPO_URL)")
	cmd.Flags().IntVar(&pullInterval, "pull-interval", 0, "seconds between pulls (overrides PULL_INTERVAL_SECONDS, default 30)")
	cmd.Flags().StringVar(&gsbKey, "gsb-key", "", "Google Safe Browsing API key for in-process verification (overrides GSB_API_KEY)")
	cmd.Flags().StringVar(&ingestURL, "ingest-url", "", "forward discovered URLs to this blacklist server instead of verifying in-process (overrides INGEST_URL)")
	return cmd
}

func run(cfg *config.Config) error {
	// --- Logger ---
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	// --- Metrics ---
	metrics.Init()

	if cfg.FeedRepoURL == "" {
		return errors.New("missing feed repository: set --repo-url or FEED_REPO_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Feed source ---
	source := gitfeed.NewSource(cfg.FeedRepoURL, cfg.FeedLocalDir, cfg.FeedFileName)
	if err := source.EnsureCloned(ctx); err != nil {
		slog.Error("Cloning feed repository failed", "repo", cfg.FeedRepoURL, "error", err)
		os.Exit(2)
	}
	slog.Info("Feed repository ready", "dir", cfg.FeedLocalDir, "interval", cfg.PullInterval.String())

	// --- Record sink ---
	sink, cleanup, err := buildSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// --- Durable baseline ---
	var baseline repository.BaselineRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			slog.Warn("Redis unavailable, baseline will not survive restarts", "addr", cfg.RedisAddr, "error", err)
		} else {
			baseline = redis_adapter.NewBaselineRepo(rdb)
			slog.Info("Durable baseline enabled", "addr", cfg.RedisAddr)
		}
	} else {
		slog.Info("No Redis configured, baseline kept in process memory only")
	}

	// --- Discovery log ---
	var feedLog repository.FeedLogRepository
	if cfg.FeedLogPath != "" {
		feedLog = csvstore.NewFeedLogRepo(cfg.FeedLogPath)
		slog.Info("Discovery log enabled", "path", cfg.FeedLogPath)
	}

	// --- Poll loop ---
	watcher := usecase.NewWatcher(source, sink, baseline, feedLog, cfg.PullInterval)
	if err := watcher.Init(ctx); err != nil {
		slog.Error("Failed to obtain initial snapshot", "error", err)
		os.Exit(1)
	}
	watcher.Run(ctx)

	slog.Info("Feed watcher stopped")
	return nil
}

// buildSink picks between forwarding to a remote blacklist server and
// running the verification pipeline in-process.
func buildSink(ctx context.Context, cfg *config.Config) (repository.RecordSink, func(), error) {
	noop := func() {}

	if cfg.IngestURL != "" {
		slog.Info("Forwarding discovered URLs to remote ingest endpoint", "url", cfg.IngestURL)
		return ingestclient.NewClient(cfg.IngestURL), noop, nil
	}

	if cfg.GSBAPIKey == "" {
		return nil, noop, errors.New("in-process verification requires --gsb-key or GSB_API_KEY (or set --ingest-url)")
	}

	matcher := safebrowsing.NewMatcher(safebrowsing.Config{
		APIKey:        cfg.GSBAPIKey,
		Endpoint:      cfg.GSBEndpoint,
		ClientID:      cfg.GSBClientID,
		ClientVersion: cfg.GSBClientVersion,
		Timeout:       cfg.GSBTimeout,
	})
	ledgerRepo := csvstore.NewLedgerRepo(cfg.LedgerPath)
	slog.Info("In-process verification enabled", "ledger", cfg.LedgerPath)

	var mirrors []repository.LedgerRepository
	cleanup := noop
	if cfg.PostgresHost != "" {
		pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
		dbpool, err := pgxpool.New(ctx, pgConnString)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to postgres: %w", err)
		}
		mirror := pg_adapter.NewLedgerRepo(dbpool)
		if err := mirror.EnsureSchema(ctx); err != nil {
			dbpool.Close()
			return nil, noop, fmt.Errorf("ensure ledger table: %w", err)
		}
		mirrors = append(mirrors, mirror)
		cleanup = dbpool.Close
		slog.Info("PostgreSQL ledger mirror enabled", "db", cfg.PostgresDB)
	}

	return usecase.NewLocalSink(usecase.NewBlacklist(matcher, ledgerRepo, mirrors...)), cleanup, nil
}
