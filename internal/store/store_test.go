package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/db"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

var (
	pgOnce      sync.Once
	pgContainer *postgres.PostgresContainer
	pgURL       string
	pgErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}
	os.Exit(code)
}

// databaseURL starts one PostgreSQL container for the package, or uses
// TEST_DATABASE_URL when set.
func databaseURL(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in -short mode")
	}
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		return url
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	pgOnce.Do(func() {
		ctx := context.Background()
		pgContainer, pgErr = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("nhl_test"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if pgErr != nil {
			return
		}
		pgURL, pgErr = pgContainer.ConnectionString(ctx, "sslmode=disable")
	})
	require.NoError(t, pgErr)
	return pgURL
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	url := databaseURL(t)

	require.NoError(t, db.Migrate(ctx, url))
	// Migrate twice: the schema must be re-runnable.
	require.NoError(t, db.Migrate(ctx, url))

	pool, err := db.New(ctx, &config.Config{
		DatabaseURL:    url,
		DBPoolMinConns: 1,
		DBPoolMaxConns: 2,
		DBPoolMaxLife:  time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.HealthCheck(ctx))

	for _, table := range config.Tables {
		_, err := pool.Exec(ctx, "TRUNCATE "+table)
		require.NoError(t, err)
	}
	return New(pool, nil)
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	teams := []provider.Team{
		{Abbrev: "TOR", Name: "Toronto Maple Leafs", Conference: "Eastern", Division: "Atlantic", Source: config.SourceNHLAPI},
		{Abbrev: "MTL", Name: "Montréal Canadiens", Source: config.SourceNHLAPI},
		{Name: "no key", Source: config.SourceNHLAPI},
	}

	n, err := s.UpsertTeams(ctx, teams)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.UpsertTeams(ctx, teams)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	counts, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[config.TeamsTable])
}

func teamRow(t *testing.T, s *Store, abbrev string) (name string, updated time.Time) {
	t.Helper()
	err := s.pool.QueryRow(context.Background(),
		"SELECT name, updated_at FROM teams WHERE abbrev = $1", abbrev).Scan(&name, &updated)
	require.NoError(t, err)
	return name, updated
}

func TestUpsertTouchesUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := provider.Team{Abbrev: "UTA", Name: "Utah Hockey Club", Source: config.SourceNHLAPI}
	_, err := s.UpsertTeams(ctx, []provider.Team{team})
	require.NoError(t, err)
	_, first := teamRow(t, s, "UTA")

	time.Sleep(20 * time.Millisecond)
	team.Name = "Utah Mammoth"
	_, err = s.UpsertTeams(ctx, []provider.Team{team})
	require.NoError(t, err)

	name, second := teamRow(t, s, "UTA")
	assert.Equal(t, "Utah Mammoth", name)
	assert.True(t, second.After(first), "updated_at %v not after %v", second, first)

	counts, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[config.TeamsTable])
}

func TestUpsertRollsBackBatchOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertTeams(ctx, []provider.Team{
		{Abbrev: "TOR", Name: "Toronto Maple Leafs", Source: config.SourceNHLAPI},
		{Abbrev: "TORX", Name: "too long for the key column", Source: config.SourceNHLAPI},
		{Abbrev: "MTL", Name: "Montréal Canadiens", Source: config.SourceNHLAPI},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "upsert teams: row 1")

	counts, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[config.TeamsTable])
}

func TestUpsertUpdatesMutableFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	game := provider.Game{
		ID: 2024020001, Season: "20242025", Date: "2024-10-08", GameType: 2,
		HomeTeam: "TOR", AwayTeam: "MTL", State: provider.GameScheduled, Source: config.SourceNHLAPI,
	}
	_, err := s.UpsertGames(ctx, []provider.Game{game})
	require.NoError(t, err)

	home, away := 4, 2
	game.HomeScore, game.AwayScore, game.State = &home, &away, provider.GameFinal
	game.Raw = json.RawMessage(`{"gameState":"OFF"}`)
	_, err = s.UpsertGames(ctx, []provider.Game{game})
	require.NoError(t, err)

	var state string
	var homeScore int
	var raw map[string]any
	err = s.pool.QueryRow(ctx,
		"SELECT game_state, home_score, raw_data FROM games WHERE id = $1", game.ID,
	).Scan(&state, &homeScore, &raw)
	require.NoError(t, err)
	assert.Equal(t, provider.GameFinal, state)
	assert.Equal(t, 4, homeScore)
	assert.Equal(t, "OFF", raw["gameState"])
}

func TestPlayerUpsertKeepsRicherFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	draft := 2015
	_, err := s.UpsertPlayers(ctx, []provider.Player{{
		ID: 8478402, FirstName: "Connor", LastName: "McDavid", Position: "C",
		DraftYear: &draft, Source: config.SourceNHLAPI,
	}})
	require.NoError(t, err)

	_, err = s.UpsertPlayers(ctx, []provider.Player{{
		ID: 8478402, FirstName: "Connor", LastName: "McDavid", TeamAbbrev: "EDM",
		Source: config.SourceNHLRoster,
	}})
	require.NoError(t, err)

	var team string
	var draftYear *int
	err = s.pool.QueryRow(ctx, "SELECT team_abbrev, draft_year FROM players WHERE id = $1", 8478402).
		Scan(&team, &draftYear)
	require.NoError(t, err)
	assert.Equal(t, "EDM", team)
	require.NotNil(t, draftYear)
	assert.Equal(t, 2015, *draftYear)
}

func TestStatsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cf := 1400
	_, err := s.UpsertAdvancedStats(ctx, []provider.AdvancedStat{
		{PlayerID: 8478402, Season: "20242025", Situation: "all", CorsiFor: &cf, Source: config.SourceMoneyPuck},
		{PlayerID: 8478402, Season: "20242025", Situation: "5on5", Source: config.SourceMoneyPuck},
		{PlayerID: 8478402, Season: "20242025", Situation: "all", Source: config.SourceMoneyPuck},
	})
	require.NoError(t, err)

	_, err = s.UpsertContracts(ctx, []provider.Contract{
		{PlayerName: "Auston Matthews", TeamAbbrev: "TOR", CapHit: 13_250_000, Source: config.SourcePuckPedia},
		{PlayerName: "Auston Matthews", TeamAbbrev: "TOR", CapHit: 13_500_000, Source: config.SourcePuckPedia},
		{PlayerName: "Mitch Marner", TeamAbbrev: "TOR", Source: config.SourcePuckPedia},
	})
	require.NoError(t, err)

	jersey := 34
	_, err = s.UpsertRosters(ctx, []provider.RosterSnapshot{{
		TeamAbbrev: "TOR", Season: "20242025",
		Forwards: []provider.RosterPlayer{
			{PlayerID: 8479318, FirstName: "Auston", LastName: "Matthews", JerseyNumber: &jersey, Position: "C", RosterStatus: provider.RosterActive},
		},
		Goalies: []provider.RosterPlayer{
			{PlayerID: 8479361, FirstName: "Joseph", LastName: "Woll", Position: "G"},
		},
	}})
	require.NoError(t, err)

	_, err = s.UpsertPlayerStats(ctx, []provider.PlayerSeasonStats{
		{PlayerID: 8479318, Season: "20242025", Source: config.SourceNHLAPI, Goals: 33},
		{PlayerID: 8479318, Season: "20242025", Source: config.SourceMoneyPuck, Goals: 33},
	})
	require.NoError(t, err)

	counts, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		config.PlayersTable:       0,
		config.TeamsTable:         0,
		config.GamesTable:         0,
		config.PlayerStatsTable:   2,
		config.ContractsTable:     2,
		config.AdvancedStatsTable: 2,
		config.RostersTable:       2,
	}, counts)

	var capHit int64
	err = s.pool.QueryRow(ctx,
		"SELECT current_cap_hit FROM contracts WHERE player_name = $1 AND team_abbrev = $2",
		"Auston Matthews", "TOR").Scan(&capHit)
	require.NoError(t, err)
	assert.Equal(t, int64(13_500_000), capHit)
}

func TestUpsertEmptyBatch(t *testing.T) {
	s := New(nil, nil)
	n, err := s.UpsertTeams(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
