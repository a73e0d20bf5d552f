package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/albapepper/nhl-ingest/internal/seed"
	"github.com/albapepper/nhl-ingest/internal/store"
)

// --------------------------------------------------------------------------
// scrape command
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape upstream sources into the database",
	}

	cmd.AddCommand(seasonScrapeCmd("teams", "Scrape teams from the NHL API",
		func(ctx context.Context, s *seed.Seeder, _ string) seed.Result { return s.SeedTeams(ctx) }))
	cmd.AddCommand(seasonScrapeCmd("players", "Scrape players from every team roster",
		func(ctx context.Context, s *seed.Seeder, season string) seed.Result { return s.SeedPlayers(ctx, season) }))
	cmd.AddCommand(seasonScrapeCmd("games", "Scrape the season schedule and results",
		func(ctx context.Context, s *seed.Seeder, season string) seed.Result { return s.SeedGames(ctx, season) }))
	cmd.AddCommand(seasonScrapeCmd("skater-stats", "Scrape league skater and goalie summaries",
		func(ctx context.Context, s *seed.Seeder, season string) seed.Result { return s.SeedSkaterStats(ctx, season) }))
	cmd.AddCommand(seasonScrapeCmd("advanced", "Scrape MoneyPuck advanced stats (season e.g. 2024)",
		func(ctx context.Context, s *seed.Seeder, season string) seed.Result { return s.SeedAdvanced(ctx, season) }))
	cmd.AddCommand(seasonScrapeCmd("all", "Scrape teams, players and games",
		func(ctx context.Context, s *seed.Seeder, season string) seed.Result { return s.SeedAll(ctx, season) }))
	cmd.AddCommand(seasonScrapeCmd("full", "Scrape every source",
		func(ctx context.Context, s *seed.Seeder, season string) seed.Result { return s.SeedFull(ctx, season) }))
	cmd.AddCommand(scrapeRostersCmd())
	cmd.AddCommand(scrapeContractsCmd())
	return cmd
}

func seasonScrapeCmd(use, short string, run func(context.Context, *seed.Seeder, string) seed.Result) *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(use, func(ctx context.Context, s *seed.Seeder) seed.Result {
				return run(ctx, s, season)
			})
		},
	}
	cmd.Flags().StringVarP(&season, "season", "s", "", "Season, e.g. 20242025 (default current)")
	return cmd
}

func scrapeRostersCmd() *cobra.Command {
	var team, season string
	cmd := &cobra.Command{
		Use:   "rosters",
		Short: "Scrape team rosters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape("rosters", func(ctx context.Context, s *seed.Seeder) seed.Result {
				return s.SeedRosters(ctx, season, strings.ToUpper(team))
			})
		},
	}
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team abbreviation, e.g. TOR (default all)")
	cmd.Flags().StringVarP(&season, "season", "s", "", "Season, e.g. 20242025 (default current)")
	return cmd
}

func scrapeContractsCmd() *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "Scrape PuckPedia contracts (slow: one team page every few seconds)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape("contracts", func(ctx context.Context, s *seed.Seeder) seed.Result {
				return s.SeedContracts(ctx, strings.ToUpper(team))
			})
		},
	}
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team abbreviation, e.g. TOR (default all)")
	return cmd
}

// runScrape wires every source into a Seeder, runs fn and reports the
// result. Unavailable sources make the command fail after the run finishes.
func runScrape(name string, fn func(context.Context, *seed.Seeder) seed.Result) error {
	return runSeed(func(ctx context.Context, src *sources, st *store.Store) error {
		seeder := seed.New(st, src.nhl, src.moneypuck, src.puckpedia, logger)

		start := time.Now()
		result := fn(ctx, seeder)
		logger.Info("Scrape finished", "command", name,
			"duration", time.Since(start).Round(time.Second), "summary", result.Summary())
		for _, e := range result.Errors {
			logger.Error("seed error", "error", e)
		}
		renderResult(os.Stdout, result)

		if len(result.Unavailable) > 0 {
			return fmt.Errorf("unavailable: %s", strings.Join(result.Unavailable, ", "))
		}
		return nil
	})
}
