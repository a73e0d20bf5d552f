package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// --------------------------------------------------------------------------
// Teams
// --------------------------------------------------------------------------

var teamUpsert = upsert[provider.Team]{
	table: config.TeamsTable,
	sql: `
		INSERT INTO ` + config.TeamsTable + ` (
			abbrev, name, conference, division, source, raw_data
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (abbrev) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, ` + config.TeamsTable + `.name),
			conference = COALESCE(EXCLUDED.conference, ` + config.TeamsTable + `.conference),
			division = COALESCE(EXCLUDED.division, ` + config.TeamsTable + `.division),
			source = EXCLUDED.source,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()`,
	keyed: func(t provider.Team) bool { return t.Abbrev != "" },
	args:  teamArgs,
}

func teamArgs(t provider.Team) []any {
	return []any{
		t.Abbrev, nilEmpty(t.Name), nilEmpty(t.Conference), nilEmpty(t.Division),
		t.Source, rawJSON(t.Raw),
	}
}

// UpsertTeams writes teams keyed by abbreviation.
func (s *Store) UpsertTeams(ctx context.Context, teams []provider.Team) (int, error) {
	return teamUpsert.run(ctx, s, teams)
}

// --------------------------------------------------------------------------
// Players
// --------------------------------------------------------------------------

// Optional profile fields keep their stored value when a sparser source
// (a roster sweep) writes after a richer one (a landing page).
var playerUpsert = upsert[provider.Player]{
	table: config.PlayersTable,
	sql: `
		INSERT INTO ` + config.PlayersTable + ` (
			id, first_name, last_name, position, team_abbrev, birth_date,
			birth_country, draft_year, draft_round, draft_pick, source, raw_data
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			first_name = COALESCE(EXCLUDED.first_name, ` + config.PlayersTable + `.first_name),
			last_name = COALESCE(EXCLUDED.last_name, ` + config.PlayersTable + `.last_name),
			position = COALESCE(EXCLUDED.position, ` + config.PlayersTable + `.position),
			team_abbrev = COALESCE(EXCLUDED.team_abbrev, ` + config.PlayersTable + `.team_abbrev),
			birth_date = COALESCE(EXCLUDED.birth_date, ` + config.PlayersTable + `.birth_date),
			birth_country = COALESCE(EXCLUDED.birth_country, ` + config.PlayersTable + `.birth_country),
			draft_year = COALESCE(EXCLUDED.draft_year, ` + config.PlayersTable + `.draft_year),
			draft_round = COALESCE(EXCLUDED.draft_round, ` + config.PlayersTable + `.draft_round),
			draft_pick = COALESCE(EXCLUDED.draft_pick, ` + config.PlayersTable + `.draft_pick),
			source = EXCLUDED.source,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()`,
	keyed: func(p provider.Player) bool { return p.ID > 0 },
	args:  playerArgs,
}

func playerArgs(p provider.Player) []any {
	return []any{
		p.ID, nilEmpty(p.FirstName), nilEmpty(p.LastName), nilEmpty(p.Position),
		nilEmpty(p.TeamAbbrev), nilEmpty(p.BirthDate), nilEmpty(p.BirthCountry),
		p.DraftYear, p.DraftRound, p.DraftPick, p.Source, rawJSON(p.Raw),
	}
}

// UpsertPlayers writes player profiles keyed by player id.
func (s *Store) UpsertPlayers(ctx context.Context, players []provider.Player) (int, error) {
	return playerUpsert.run(ctx, s, players)
}

// --------------------------------------------------------------------------
// Player season stats
// --------------------------------------------------------------------------

var playerStatsUpsert = upsert[provider.PlayerSeasonStats]{
	table: config.PlayerStatsTable,
	sql: `
		INSERT INTO ` + config.PlayerStatsTable + ` (
			player_id, season, source, player_name, team_abbrev, games_played,
			goals, assists, points, plus_minus, pim, shots, toi_seconds, raw_data
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (player_id, season, source) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team_abbrev = EXCLUDED.team_abbrev,
			games_played = EXCLUDED.games_played,
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			points = EXCLUDED.points,
			plus_minus = EXCLUDED.plus_minus,
			pim = EXCLUDED.pim,
			shots = EXCLUDED.shots,
			toi_seconds = EXCLUDED.toi_seconds,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()`,
	keyed: func(s provider.PlayerSeasonStats) bool {
		return s.PlayerID > 0 && s.Season != "" && s.Source != ""
	},
	args: playerStatsArgs,
}

func playerStatsArgs(s provider.PlayerSeasonStats) []any {
	return []any{
		s.PlayerID, s.Season, s.Source, nilEmpty(s.PlayerName), nilEmpty(s.TeamAbbrev),
		s.GamesPlayed, s.Goals, s.Assists, s.Points, s.PlusMinus, s.PIM, s.Shots,
		s.TOISeconds, rawJSON(s.Raw),
	}
}

// UpsertPlayerStats writes season lines keyed by (player, season, source).
func (s *Store) UpsertPlayerStats(ctx context.Context, stats []provider.PlayerSeasonStats) (int, error) {
	return playerStatsUpsert.run(ctx, s, stats)
}

// --------------------------------------------------------------------------
// Games
// --------------------------------------------------------------------------

// Only the date, scores and state change once a game is scheduled.
var gameUpsert = upsert[provider.Game]{
	table: config.GamesTable,
	sql: `
		INSERT INTO ` + config.GamesTable + ` (
			id, season, game_date, game_type, home_team, away_team,
			home_score, away_score, game_state, source, raw_data
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			game_date = EXCLUDED.game_date,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			game_state = EXCLUDED.game_state,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()`,
	keyed: func(g provider.Game) bool { return g.ID > 0 },
	args:  gameArgs,
}

func gameArgs(g provider.Game) []any {
	return []any{
		g.ID, nilEmpty(g.Season), nilEmpty(g.Date), g.GameType, nilEmpty(g.HomeTeam),
		nilEmpty(g.AwayTeam), g.HomeScore, g.AwayScore, nilEmpty(g.State), g.Source,
		rawJSON(g.Raw),
	}
}

// UpsertGames writes games keyed by game id.
func (s *Store) UpsertGames(ctx context.Context, games []provider.Game) (int, error) {
	return gameUpsert.run(ctx, s, games)
}

// --------------------------------------------------------------------------
// Contracts
// --------------------------------------------------------------------------

var contractUpsert = upsert[provider.Contract]{
	table: config.ContractsTable,
	sql: `
		INSERT INTO ` + config.ContractsTable + ` (
			player_id, player_name, team_abbrev, season, contract_type,
			start_season, end_season, total_years, total_value, aav,
			current_cap_hit, current_salary, expiry_status, has_nmc, has_ntc,
			scraped_at, source, raw_data
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (player_name, team_abbrev) DO UPDATE SET
			player_id = COALESCE(EXCLUDED.player_id, ` + config.ContractsTable + `.player_id),
			season = EXCLUDED.season,
			total_years = EXCLUDED.total_years,
			aav = EXCLUDED.aav,
			current_cap_hit = EXCLUDED.current_cap_hit,
			current_salary = EXCLUDED.current_salary,
			expiry_status = EXCLUDED.expiry_status,
			has_nmc = EXCLUDED.has_nmc,
			has_ntc = EXCLUDED.has_ntc,
			scraped_at = EXCLUDED.scraped_at,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()`,
	keyed: func(c provider.Contract) bool { return c.PlayerName != "" },
	args:  contractArgs,
}

func contractArgs(c provider.Contract) []any {
	return []any{
		c.PlayerID, c.PlayerName, c.TeamAbbrev, nilEmpty(c.Season), nilEmpty(c.ContractType),
		nilEmpty(c.StartSeason), nilEmpty(c.EndSeason), c.TotalYears, c.TotalValue, c.AAV,
		c.CapHit, c.Salary, nilEmpty(c.ExpiryStatus), c.HasNMC, c.HasNTC,
		nilTime(c.ScrapedAt), c.Source, rawJSON(c.Raw),
	}
}

// UpsertContracts writes contracts keyed by (player name, team). Two players
// sharing a name on one team collapse into one row.
func (s *Store) UpsertContracts(ctx context.Context, contracts []provider.Contract) (int, error) {
	return contractUpsert.run(ctx, s, contracts)
}

// --------------------------------------------------------------------------
// Advanced stats
// --------------------------------------------------------------------------

var advancedUpsert = upsert[provider.AdvancedStat]{
	table: config.AdvancedStatsTable,
	sql: `
		INSERT INTO ` + config.AdvancedStatsTable + ` (
			player_id, season, situation, player_name, team_abbrev, position,
			games_played, toi_seconds, corsi_for, corsi_against, corsi_pct,
			corsi_rel, fenwick_for, fenwick_against, fenwick_pct, xg_for,
			xg_against, xg_pct, goals_above_expected, oz_start_pct,
			hd_chances_for, hd_chances_against, source, raw_data
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
		ON CONFLICT (player_id, season, situation) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team_abbrev = EXCLUDED.team_abbrev,
			position = EXCLUDED.position,
			games_played = EXCLUDED.games_played,
			toi_seconds = EXCLUDED.toi_seconds,
			corsi_for = EXCLUDED.corsi_for,
			corsi_against = EXCLUDED.corsi_against,
			corsi_pct = EXCLUDED.corsi_pct,
			corsi_rel = EXCLUDED.corsi_rel,
			fenwick_for = EXCLUDED.fenwick_for,
			fenwick_against = EXCLUDED.fenwick_against,
			fenwick_pct = EXCLUDED.fenwick_pct,
			xg_for = EXCLUDED.xg_for,
			xg_against = EXCLUDED.xg_against,
			xg_pct = EXCLUDED.xg_pct,
			goals_above_expected = EXCLUDED.goals_above_expected,
			oz_start_pct = EXCLUDED.oz_start_pct,
			hd_chances_for = EXCLUDED.hd_chances_for,
			hd_chances_against = EXCLUDED.hd_chances_against,
			source = EXCLUDED.source,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()`,
	keyed: func(a provider.AdvancedStat) bool { return a.PlayerID > 0 && a.Season != "" },
	args:  advancedArgs,
}

func advancedArgs(a provider.AdvancedStat) []any {
	situation := a.Situation
	if situation == "" {
		situation = provider.SituationAll
	}
	return []any{
		a.PlayerID, a.Season, situation, nilEmpty(a.PlayerName), nilEmpty(a.TeamAbbrev),
		nilEmpty(a.Position), a.GamesPlayed, a.TOISeconds, a.CorsiFor, a.CorsiAgainst,
		a.CorsiPct, a.CorsiRel, a.FenwickFor, a.FenwickAgainst, a.FenwickPct, a.XGFor,
		a.XGAgainst, a.XGPct, a.GoalsAboveExpected, a.OZStartPct, a.HDChancesFor,
		a.HDChancesAgainst, a.Source, rawJSON(a.Raw),
	}
}

// UpsertAdvancedStats writes analytics rows keyed by (player, season, situation).
func (s *Store) UpsertAdvancedStats(ctx context.Context, stats []provider.AdvancedStat) (int, error) {
	return advancedUpsert.run(ctx, s, stats)
}

// --------------------------------------------------------------------------
// Rosters
// --------------------------------------------------------------------------

var rosterUpsert = upsert[provider.RosterAssignment]{
	table: config.RostersTable,
	sql: `
		INSERT INTO ` + config.RostersTable + ` (
			player_id, team_abbrev, season, player_name, jersey_number,
			position, roster_status, source, raw_data
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (player_id, team_abbrev, season) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			jersey_number = COALESCE(EXCLUDED.jersey_number, ` + config.RostersTable + `.jersey_number),
			position = EXCLUDED.position,
			roster_status = EXCLUDED.roster_status,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()`,
	keyed: func(r provider.RosterAssignment) bool {
		return r.PlayerID > 0 && r.TeamAbbrev != "" && r.Season != ""
	},
	args: rosterArgs,
}

func rosterArgs(r provider.RosterAssignment) []any {
	status := r.RosterStatus
	if status == "" {
		status = provider.RosterActive
	}
	return []any{
		r.PlayerID, r.TeamAbbrev, r.Season, nilEmpty(r.PlayerName), r.JerseyNumber,
		nilEmpty(r.Position), status, config.SourceNHLRoster, rawJSON(r.Raw),
	}
}

// UpsertRosters writes every player of each snapshot keyed by
// (player, team, season). The count is of player rows.
func (s *Store) UpsertRosters(ctx context.Context, rosters []provider.RosterSnapshot) (int, error) {
	var rows []provider.RosterAssignment
	for _, r := range rosters {
		rows = append(rows, r.Assignments()...)
	}
	return rosterUpsert.run(ctx, s, rows)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// rawJSON returns the payload as JSONB bytes, "{}" when absent or invalid.
func rawJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return []byte("{}")
	}
	return []byte(raw)
}
