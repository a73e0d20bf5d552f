// Package seed runs extraction flows and writes their results to the store.
//
// Steps run strictly in sequence. A step whose source is unavailable is
// recorded and skipped without touching stored rows; later steps still run.
package seed

import (
	"context"
	"log/slog"

	"github.com/albapepper/nhl-ingest/internal/provider"
)

// LeagueSource is the league JSON API.
type LeagueSource interface {
	ListTeams(ctx context.Context) ([]provider.Team, error)
	ListPlayers(ctx context.Context, season string) provider.Batch[provider.Player]
	ListGames(ctx context.Context, season string) provider.Batch[provider.Game]
	Roster(ctx context.Context, team, season string) (provider.RosterSnapshot, error)
	AllRosters(ctx context.Context, season string) provider.Batch[provider.RosterSnapshot]
	AllSkaterStats(ctx context.Context, season string) provider.Batch[provider.SkaterSeasonStats]
	AllGoalieStats(ctx context.Context, season string) provider.Batch[provider.GoalieSeasonStats]
}

// AnalyticsSource is the advanced-stats CSV source.
type AnalyticsSource interface {
	Players(ctx context.Context, season string) provider.Batch[provider.AdvancedStat]
}

// ContractSource is the contracts site.
type ContractSource interface {
	TeamContracts(ctx context.Context, team string) provider.Batch[provider.Contract]
	AllContracts(ctx context.Context) provider.Batch[provider.Contract]
}

// Repository persists canonical records.
type Repository interface {
	UpsertTeams(ctx context.Context, teams []provider.Team) (int, error)
	UpsertPlayers(ctx context.Context, players []provider.Player) (int, error)
	UpsertPlayerStats(ctx context.Context, stats []provider.PlayerSeasonStats) (int, error)
	UpsertGames(ctx context.Context, games []provider.Game) (int, error)
	UpsertContracts(ctx context.Context, contracts []provider.Contract) (int, error)
	UpsertAdvancedStats(ctx context.Context, stats []provider.AdvancedStat) (int, error)
	UpsertRosters(ctx context.Context, rosters []provider.RosterSnapshot) (int, error)
}

// Seeder wires sources to a repository. A nil source makes its steps
// unavailable.
type Seeder struct {
	repo      Repository
	league    LeagueSource
	analytics AnalyticsSource
	contracts ContractSource
	logger    *slog.Logger
}

func New(repo Repository, league LeagueSource, analytics AnalyticsSource, contracts ContractSource, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		repo:      repo,
		league:    league,
		analytics: analytics,
		contracts: contracts,
		logger:    logger,
	}
}

// persist writes a batch unless its source was unavailable, recording item
// failures either way. It returns the number of rows written.
func persist[T any](
	ctx context.Context,
	logger *slog.Logger,
	result *Result,
	step string,
	batch provider.Batch[T],
	upsert func(context.Context, []T) (int, error),
) int {
	for _, f := range batch.Failures {
		result.AddErrorf("%s %s: %v", step, f.Key, f.Err)
	}

	switch batch.Status() {
	case provider.StatusUnavailable:
		result.Unavailable = append(result.Unavailable, step)
		if batch.Err != nil {
			result.AddErrorf("%s: %v", step, batch.Err)
		}
		logger.Warn("source unavailable, nothing written", "step", step, "error", batch.Error())
		return 0
	case provider.StatusEmpty:
		logger.Info("source returned no records", "step", step)
		return 0
	}

	n, err := upsert(ctx, batch.Items)
	if err != nil {
		result.AddErrorf("upsert %s: %v", step, err)
		return 0
	}
	logger.Info("step done", "step", step, "count", n, "failed", len(batch.Failures))
	return n
}
