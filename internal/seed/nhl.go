package seed

import (
	"context"
	"errors"

	"github.com/albapepper/nhl-ingest/internal/provider"
)

var errNoSource = errors.New("source not configured")

// Step names as they appear in Result.Unavailable and logs.
const (
	StepTeams         = "teams"
	StepPlayers       = "players"
	StepGames         = "games"
	StepRosters       = "rosters"
	StepSkaterStats   = "skater_stats"
	StepGoalieStats   = "goalie_stats"
	StepAdvancedStats = "advanced_stats"
	StepContracts     = "contracts"
)

// SeedTeams upserts the league's teams.
func (s *Seeder) SeedTeams(ctx context.Context) Result {
	var result Result
	s.logger.Info("Seeding teams...")

	batch := provider.Unavailable[provider.Team](errNoSource)
	if s.league != nil {
		teams, err := s.league.ListTeams(ctx)
		batch = provider.Batch[provider.Team]{Items: teams, Err: err}
	}
	result.TeamsUpserted = persist(ctx, s.logger, &result, StepTeams, batch, s.repo.UpsertTeams)
	return result
}

// SeedPlayers upserts player profiles from every team roster.
func (s *Seeder) SeedPlayers(ctx context.Context, season string) Result {
	var result Result
	s.logger.Info("Seeding players...", "season", season)

	batch := provider.Unavailable[provider.Player](errNoSource)
	if s.league != nil {
		batch = s.league.ListPlayers(ctx, season)
	}
	result.PlayersUpserted = persist(ctx, s.logger, &result, StepPlayers, batch, s.repo.UpsertPlayers)
	return result
}

// SeedGames upserts the season schedule.
func (s *Seeder) SeedGames(ctx context.Context, season string) Result {
	var result Result
	s.logger.Info("Seeding games...", "season", season)

	batch := provider.Unavailable[provider.Game](errNoSource)
	if s.league != nil {
		batch = s.league.ListGames(ctx, season)
	}
	result.GamesUpserted = persist(ctx, s.logger, &result, StepGames, batch, s.repo.UpsertGames)
	return result
}

// SeedRosters upserts roster assignments for one team, or every team when
// team is empty.
func (s *Seeder) SeedRosters(ctx context.Context, season, team string) Result {
	var result Result
	s.logger.Info("Seeding rosters...", "season", season, "team", team)

	batch := provider.Unavailable[provider.RosterSnapshot](errNoSource)
	switch {
	case s.league == nil:
	case team == "":
		batch = s.league.AllRosters(ctx, season)
	default:
		roster, err := s.league.Roster(ctx, team, season)
		batch = provider.Batch[provider.RosterSnapshot]{Items: []provider.RosterSnapshot{roster}, Err: err}
		if err != nil {
			batch.Items = nil
		}
	}
	result.RostersUpserted = persist(ctx, s.logger, &result, StepRosters, batch, s.repo.UpsertRosters)
	return result
}

// SeedSkaterStats upserts the league's skater and goalie season summaries.
func (s *Seeder) SeedSkaterStats(ctx context.Context, season string) Result {
	var result Result
	s.logger.Info("Seeding player stats...", "season", season)

	skaters := provider.Unavailable[provider.PlayerSeasonStats](errNoSource)
	goalies := provider.Unavailable[provider.PlayerSeasonStats](errNoSource)
	if s.league != nil {
		skaters = provider.Map(s.league.AllSkaterStats(ctx, season), provider.SkaterSeasonStats.SeasonStats)
		goalies = provider.Map(s.league.AllGoalieStats(ctx, season), provider.GoalieSeasonStats.SeasonStats)
	}
	result.PlayerStatsUpserted += persist(ctx, s.logger, &result, StepSkaterStats, skaters, s.repo.UpsertPlayerStats)
	result.PlayerStatsUpserted += persist(ctx, s.logger, &result, StepGoalieStats, goalies, s.repo.UpsertPlayerStats)
	return result
}

// SeedAdvanced upserts skater and goalie analytics for the season.
func (s *Seeder) SeedAdvanced(ctx context.Context, season string) Result {
	var result Result
	s.logger.Info("Seeding advanced stats...", "season", season)

	batch := provider.Unavailable[provider.AdvancedStat](errNoSource)
	if s.analytics != nil {
		batch = s.analytics.Players(ctx, season)
	}
	result.AdvancedStatsUpserted = persist(ctx, s.logger, &result, StepAdvancedStats, batch, s.repo.UpsertAdvancedStats)
	return result
}

// SeedContracts upserts contracts for one team, or every team when team is
// empty.
func (s *Seeder) SeedContracts(ctx context.Context, team string) Result {
	var result Result
	s.logger.Info("Seeding contracts...", "team", team)

	batch := provider.Unavailable[provider.Contract](errNoSource)
	switch {
	case s.contracts == nil:
	case team == "":
		batch = s.contracts.AllContracts(ctx)
	default:
		batch = s.contracts.TeamContracts(ctx, team)
	}
	result.ContractsUpserted = persist(ctx, s.logger, &result, StepContracts, batch, s.repo.UpsertContracts)
	return result
}

// SeedAll runs teams, players and games from the league API.
func (s *Seeder) SeedAll(ctx context.Context, season string) Result {
	return s.run(ctx, []func() Result{
		func() Result { return s.SeedTeams(ctx) },
		func() Result { return s.SeedPlayers(ctx, season) },
		func() Result { return s.SeedGames(ctx, season) },
	})
}

// SeedFull runs every step against every source.
func (s *Seeder) SeedFull(ctx context.Context, season string) Result {
	return s.run(ctx, []func() Result{
		func() Result { return s.SeedTeams(ctx) },
		func() Result { return s.SeedPlayers(ctx, season) },
		func() Result { return s.SeedGames(ctx, season) },
		func() Result { return s.SeedRosters(ctx, season, "") },
		func() Result { return s.SeedSkaterStats(ctx, season) },
		func() Result { return s.SeedAdvanced(ctx, season) },
		func() Result { return s.SeedContracts(ctx, "") },
	})
}

// run executes steps in order, stopping early only on cancellation.
func (s *Seeder) run(ctx context.Context, steps []func() Result) Result {
	var result Result
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			result.AddErrorf("cancelled: %v", err)
			break
		}
		result.Add(step())
	}
	s.logger.Info("Seed complete", "summary", result.Summary())
	return result
}
