// Command ingest is the NHL data ingestion CLI.
//
// Usage:
//
//	nhl-ingest migrate
//	nhl-ingest scrape full --season 20242025
//	nhl-ingest scrape rosters --team TOR
//	nhl-ingest scrape contracts --team TOR
//	nhl-ingest show roster TOR
//	nhl-ingest show player 8478402
//	nhl-ingest standings
//	nhl-ingest stats
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/nhl-ingest/internal/cache"
	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/db"
	"github.com/albapepper/nhl-ingest/internal/fetch"
	"github.com/albapepper/nhl-ingest/internal/provider/moneypuck"
	"github.com/albapepper/nhl-ingest/internal/provider/nhl"
	"github.com/albapepper/nhl-ingest/internal/provider/puckpedia"
	"github.com/albapepper/nhl-ingest/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	var verbose, jsonLogs bool
	root := &cobra.Command{
		Use:           "nhl-ingest",
		Short:         "NHL data ingestion CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(verbose, jsonLogs)
			slog.SetDefault(logger)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Output logs as JSON")

	root.AddCommand(migrateCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(scrapeCmd())
	root.AddCommand(showCmd())
	root.AddCommand(standingsCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(verbose, jsonLogs bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// --------------------------------------------------------------------------
// migrate / stats commands
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("Schema up to date")
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts for every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(func(ctx context.Context, _ *config.Config, st *store.Store) error {
				counts, err := st.Stats(ctx)
				if err != nil {
					return err
				}
				renderCounts(os.Stdout, counts)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// sources holds one rate-limited client per upstream and the handlers built
// on them. Close releases every client.
type sources struct {
	cache     *cache.Cache
	clients   []*fetch.Client
	nhl       *nhl.Handler
	moneypuck *moneypuck.Handler
	puckpedia *puckpedia.Handler
}

func newSources(cfg *config.Config) *sources {
	s := &sources{cache: cache.New(cfg.ResponseCacheEnabled)}

	client := func(src config.SourceConfig) *fetch.Client {
		c := fetch.New(fetch.Config{
			Name:              src.Name,
			BaseURL:           src.BaseURL,
			RequestsPerSecond: src.RequestsPerSecond,
			UserAgent:         cfg.UserAgent,
			Timeout:           cfg.HTTPTimeout,
		}, logger).WithCache(s.cache, cfg.ResponseCacheTTL)
		s.clients = append(s.clients, c)
		return c
	}

	// The stats REST host is reached through the web client so both share
	// one pacing budget.
	s.nhl = nhl.NewHandler(client(cfg.NHLWeb), cfg.NHLStats.BaseURL, logger)
	s.moneypuck = moneypuck.NewHandler(client(cfg.MoneyPuck), logger)
	s.puckpedia = puckpedia.NewHandler(client(cfg.PuckPedia), logger)
	return s
}

func (s *sources) Close() {
	for _, c := range s.clients {
		c.Close()
	}
	logger.Debug("response cache", "stats", s.cache.Stats())
	s.cache.Close()
}

// runLive handles config loading, upstream clients and cancellation for
// commands that never touch the database.
func runLive(fn func(ctx context.Context, cfg *config.Config, src *sources) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	src := newSources(cfg)
	defer src.Close()

	return fn(ctx, cfg, src)
}

// runStore handles config loading, DB connection, and context cancellation.
func runStore(fn func(ctx context.Context, cfg *config.Config, st *store.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, store.New(pool, logger))
}

// runSeed combines runStore with upstream clients.
func runSeed(fn func(ctx context.Context, src *sources, st *store.Store) error) error {
	return runStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		src := newSources(cfg)
		defer src.Close()
		return fn(ctx, src, st)
	})
}
