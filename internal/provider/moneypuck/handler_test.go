package moneypuck

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/nhl-ingest/internal/fetch"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

const skatersCSV = `playerId,season,name,team,position,situation,games_played,icetime,OnIce_F_shotAttempts,OnIce_A_shotAttempts,onIce_corsiPercentage,OnIce_F_xGoals,OnIce_A_xGoals,I_F_xGoals,I_F_goals,I_F_primaryAssists,I_F_secondaryAssists,OnIce_F_highDangerShotAttempts,offensiveZoneStartPct,PDO
8478402,2024,Connor McDavid,EDM,C,5on5,60,60000.0,1000,800,0.556,45.5,38.2,20.1,20,25,10,120,0.61,1.02
8478402,2024,Connor McDavid,EDM,C,all,62,80000.0,1400,1100,0.56,60.0,50.0,28.4,32,40,15,160,0.58,1.01
8479318,2024,Auston Matthews,TOR,C,all,55,garbage,900,,abc,,,,40,10,5,100,,
`

const goaliesCSV = `playerId,season,name,team,position,situation,games_played,icetime,xGoals,goals,shotsOnGoal,goalsAboveExpected,highDangerShotsOnGoal,highDangerGoals,highDangerSavePercentage,freezePct
8476945,2024,Connor Hellebuyck,WPG,G,all,50,180000,130.5,120,1500,10.5,200,40,0.8,0.12
8476945,2024,Connor Hellebuyck,WPG,G,5on5,50,150000,90.0,80,1100,6.0,150,30,0.8,0.12
`

func newTestHandler(t *testing.T, mux http.Handler) *Handler {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := fetch.New(fetch.Config{
		Name:              "moneypuck",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Timeout:           5 * time.Second,
	}, nil)
	t.Cleanup(client.Close)

	return NewHandler(client, nil, WithClock(fixedClock(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))))
}

func serveCSV(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, body)
	}
}

func TestCurrentSeason(t *testing.T) {
	h := newTestHandler(t, http.NewServeMux())
	assert.Equal(t, "2024", h.CurrentSeason())
}

func TestSkaterStatsFiltersSituation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(skatersCSV))
	h := newTestHandler(t, mux)

	batch := h.SkaterStats(context.Background(), "", "")
	require.Equal(t, provider.StatusOK, batch.Status())
	require.Len(t, batch.Items, 2)

	mcdavid := batch.Items[0]
	assert.Equal(t, 8478402, mcdavid.PlayerID)
	assert.Equal(t, "all", mcdavid.Situation)
	assert.Equal(t, "20242025", mcdavid.Season)
	assert.Equal(t, 62, mcdavid.GamesPlayed)
	assert.Equal(t, 80000, mcdavid.TOISeconds)
	assert.Equal(t, 1400, mcdavid.CorsiFor)
	assert.Equal(t, 300, mcdavid.CorsiDiff())
	assert.InDelta(t, 10.0, mcdavid.XGDiff(), 1e-9)
	assert.Equal(t, 160, mcdavid.HighDangerChancesFor)
	assert.Equal(t, 87, mcdavid.Points())
	require.NotNil(t, mcdavid.PDO)
	assert.InDelta(t, 1.01, *mcdavid.PDO, 1e-9)
	assert.Contains(t, string(mcdavid.Raw), `"situation":"all"`)
	assert.Equal(t, "moneypuck", mcdavid.Source)
}

func TestSkaterStatsOneSituation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(skatersCSV))
	h := newTestHandler(t, mux)

	batch := h.SkaterStats(context.Background(), "20242025", "5on5")
	require.Len(t, batch.Items, 1)
	assert.Equal(t, "5on5", batch.Items[0].Situation)
	assert.Equal(t, 60, batch.Items[0].GamesPlayed)
}

func TestSkaterStatsGarbageCells(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(skatersCSV))
	h := newTestHandler(t, mux)

	batch := h.SkaterStats(context.Background(), "2024", "all")
	require.Len(t, batch.Items, 2)

	matthews := batch.Items[1]
	assert.Equal(t, "Auston Matthews", matthews.PlayerName)
	assert.Equal(t, 0, matthews.TOISeconds)
	assert.Equal(t, 0, matthews.CorsiAgainst)
	assert.Nil(t, matthews.CorsiPct)
	assert.Nil(t, matthews.OffensiveZoneStartPct)
	assert.Nil(t, matthews.PDO)
	assert.Equal(t, 0.0, matthews.XGFor)
	assert.Equal(t, 0.0, matthews.IndividualXG)
	assert.Equal(t, 40, matthews.Goals)
}

func TestSkaterStatsSkipsRowsWithoutPlayerID(t *testing.T) {
	body := "playerId,name,situation,games_played\n" +
		"8478402,Connor McDavid,all,62\n" +
		",Nobody,all,3\n"
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(body))
	h := newTestHandler(t, mux)

	batch := h.SkaterStats(context.Background(), "2024", "all")
	require.Len(t, batch.Items, 1)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "line 3", batch.Failures[0].Key)

	var rowErr *provider.RowParseError
	require.ErrorAs(t, batch.Failures[0].Err, &rowErr)
	assert.Equal(t, "Nobody", rowErr.Key)
}

func TestSkaterStatsMissingNameColumn(t *testing.T) {
	body := "playerId,situation\n8478402,all\n"
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(body))
	h := newTestHandler(t, mux)

	batch := h.SkaterStats(context.Background(), "2024", "all")
	assert.Empty(t, batch.Items)
	require.Len(t, batch.Failures, 1)
	assert.ErrorContains(t, batch.Failures[0].Err, `missing column "name"`)
	assert.Equal(t, provider.StatusUnavailable, batch.Status())
}

func TestSkaterStatsFetchFailure(t *testing.T) {
	h := newTestHandler(t, http.NewServeMux())

	batch := h.SkaterStats(context.Background(), "2024", "all")
	assert.Equal(t, provider.StatusUnavailable, batch.Status())
	assert.Empty(t, batch.Items)
	assert.True(t, fetch.IsNotFound(batch.Err))
}

func TestSkaterStatsEmptyFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(""))
	h := newTestHandler(t, mux)

	batch := h.SkaterStats(context.Background(), "2024", "all")
	assert.Equal(t, provider.StatusEmpty, batch.Status())
}

func TestSkaterStatsRejectsBadSeason(t *testing.T) {
	h := newTestHandler(t, http.NewServeMux())
	batch := h.SkaterStats(context.Background(), "24-25", "all")
	assert.Equal(t, provider.StatusUnavailable, batch.Status())
}

func TestGoalieStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/goalies.csv", serveCSV(goaliesCSV))
	h := newTestHandler(t, mux)

	batch := h.GoalieStats(context.Background(), "2024")
	require.Len(t, batch.Items, 1)

	g := batch.Items[0]
	assert.Equal(t, "all", g.Situation)
	assert.Equal(t, "20242025", g.Season)
	assert.Equal(t, 1500, g.ShotsAgainst)
	assert.Equal(t, 120, g.GoalsAgainst)
	assert.Equal(t, 1380, g.Saves)
	assert.InDelta(t, 130.5, g.XGAgainst, 1e-9)
	require.NotNil(t, g.HighDangerSavePct)
	assert.InDelta(t, 0.8, *g.HighDangerSavePct, 1e-9)

	gaa := g.GoalsAgainstAverage()
	require.NotNil(t, gaa)
	assert.InDelta(t, 2.4, *gaa, 1e-9)
}

func TestPlayersCombinesSkatersAndGoalies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(skatersCSV))
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/goalies.csv", serveCSV(goaliesCSV))
	h := newTestHandler(t, mux)

	batch := h.Players(context.Background(), "2024")
	require.Equal(t, provider.StatusOK, batch.Status())
	require.Len(t, batch.Items, 3)
	assert.Equal(t, "C", batch.Items[0].Position)
	assert.Equal(t, "G", batch.Items[2].Position)
	require.NotNil(t, batch.Items[2].XGAgainst)
	assert.Nil(t, batch.Items[2].CorsiFor)
}

func TestPlayersPartialOutage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moneypuck/playerData/seasonSummary/2024/regular/skaters.csv", serveCSV(skatersCSV))
	h := newTestHandler(t, mux)

	batch := h.Players(context.Background(), "2024")
	assert.Equal(t, provider.StatusOK, batch.Status())
	assert.Len(t, batch.Items, 2)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "goalies", batch.Failures[0].Key)
}

func TestPlayersFullOutage(t *testing.T) {
	h := newTestHandler(t, http.NewServeMux())
	batch := h.Players(context.Background(), "2024")
	assert.Equal(t, provider.StatusUnavailable, batch.Status())
}

func TestReadTableToleratesRaggedRows(t *testing.T) {
	var bad []int
	rows, err := readTable("\ufeffplayerId,name\n1,A\n2\n3,C,extra\n", func(line int, err error) {
		bad = append(bad, line)
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].text("name"))
	assert.Equal(t, "1", rows[0].text("playerId"))
	assert.False(t, rows[1].has("name"))
	assert.Equal(t, "C", rows[2].text("name"))
	assert.Empty(t, bad)
	assert.True(t, strings.HasPrefix(string(rows[0].raw()), "{"))
}
