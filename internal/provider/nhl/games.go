package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// --------------------------------------------------------------------------
// Games (per-team season schedules)
// --------------------------------------------------------------------------

type scheduleResponse struct {
	Games []json.RawMessage `json:"games"`
}

type scheduleTeamRaw struct {
	Abbrev string `json:"abbrev"`
	Score  *int   `json:"score"`
}

type scheduleGameRaw struct {
	ID        int64           `json:"id"`
	Season    int             `json:"season"`
	GameType  int             `json:"gameType"`
	GameDate  string          `json:"gameDate"`
	GameState string          `json:"gameState"`
	HomeTeam  scheduleTeamRaw `json:"homeTeam"`
	AwayTeam  scheduleTeamRaw `json:"awayTeam"`
}

// ListGames collects every team's schedule for the season. Each game appears
// on two schedules; the first occurrence wins.
func (h *Handler) ListGames(ctx context.Context, season string) provider.Batch[provider.Game] {
	season, err := h.season(season)
	if err != nil {
		return provider.Unavailable[provider.Game](err)
	}

	var batch provider.Batch[provider.Game]
	seen := make(map[int64]bool)
	for _, team := range h.teams {
		if err := ctx.Err(); err != nil {
			batch.Err = err
			return batch
		}

		var resp scheduleResponse
		path := fmt.Sprintf("/club-schedule-season/%s/%s", team, season)
		if err := h.client.GetJSON(ctx, path, nil, &resp); err != nil {
			h.logger.Warn("schedule fetch failed", "team", team, "season", season, "error", err)
			batch.Fail(team, err)
			continue
		}

		for _, raw := range resp.Games {
			g, err := parseGame(raw, season)
			if err != nil {
				batch.Fail(team, &provider.RowParseError{Source: config.SourceNHLAPI, Key: team, Err: err})
				continue
			}
			if seen[g.ID] {
				continue
			}
			seen[g.ID] = true
			batch.Add(g)
		}
	}
	h.logger.Info("fetched games", "season", season, "count", len(batch.Items), "failed", len(batch.Failures))
	return batch
}

func parseGame(raw json.RawMessage, season string) (provider.Game, error) {
	var r scheduleGameRaw
	if err := json.Unmarshal(raw, &r); err != nil {
		return provider.Game{}, err
	}
	if r.Season != 0 {
		season = strconv.Itoa(r.Season)
	}
	g := provider.Game{
		ID:        r.ID,
		Season:    season,
		Date:      r.GameDate,
		GameType:  r.GameType,
		HomeTeam:  r.HomeTeam.Abbrev,
		AwayTeam:  r.AwayTeam.Abbrev,
		HomeScore: r.HomeTeam.Score,
		AwayScore: r.AwayTeam.Score,
		State:     provider.NormalizeGameState(r.GameState),
		Source:    config.SourceNHLAPI,
		Raw:       raw,
	}
	if err := g.Validate(); err != nil {
		return provider.Game{}, err
	}
	return g, nil
}
