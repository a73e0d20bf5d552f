package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// --------------------------------------------------------------------------
// Season summaries (offset-paginated stats REST reports)
// --------------------------------------------------------------------------

type reportResponse struct {
	Data  []json.RawMessage `json:"data"`
	Total int               `json:"total"`
}

// reportRow is one decoded report row plus its original bytes.
type reportRow struct {
	fields map[string]interface{}
	raw    json.RawMessage
}

func (r reportRow) text(key string) string {
	if s, ok := r.fields[key].(string); ok {
		return s
	}
	return ""
}

func (r reportRow) count(key string) int { return provider.IntValue(r.fields[key]) }

func (r reportRow) number(key string) *float64 { return provider.FloatPtr(r.fields[key]) }

// fetchReport pages through a stats report until a page comes back short.
// Rows are passed to fn in order; a failed first page makes the whole report
// unavailable, a later one ends the walk with a recorded failure. Reaching
// the page cap without a short page is recorded as a failure too.
func (h *Handler) fetchReport(ctx context.Context, report, sortBy, season string, fn func(reportRow)) ([]provider.Failure, error) {
	var failures []provider.Failure
	endpoint := fmt.Sprintf("%s/%s/summary", h.statsBase, report)
	params := url.Values{
		"isAggregate": {"false"},
		"isGame":      {"false"},
		"sort":        {fmt.Sprintf(`[{"property":%q,"direction":"DESC"}]`, sortBy)},
		"limit":       {strconv.Itoa(pageSize)},
		"cayenneExp":  {fmt.Sprintf("seasonId=%s and gameTypeId=2", season)},
	}

	start := 0
	for page := 0; page < h.maxPages; page, start = page+1, start+pageSize {
		params.Set("start", strconv.Itoa(start))

		var resp reportResponse
		if err := h.client.GetJSON(ctx, endpoint, params, &resp); err != nil {
			if page == 0 {
				return nil, fmt.Errorf("fetch %s summary: %w", report, err)
			}
			h.logger.Warn("stats page failed", "report", report, "start", start, "error", err)
			return append(failures, provider.Failure{Key: fmt.Sprintf("start=%d", start), Err: err}), nil
		}

		for i, raw := range resp.Data {
			var fields map[string]interface{}
			if err := json.Unmarshal(raw, &fields); err != nil {
				failures = append(failures, provider.Failure{
					Key: fmt.Sprintf("start=%d row=%d", start, i),
					Err: &provider.RowParseError{Source: config.SourceNHLAPI, Key: report, Err: err},
				})
				continue
			}
			fn(reportRow{fields: fields, raw: raw})
		}

		if len(resp.Data) < pageSize {
			return failures, nil
		}
	}

	h.logger.Warn("stats report truncated at page cap", "report", report, "pages", h.maxPages, "next_start", start)
	return append(failures, provider.Failure{
		Key: fmt.Sprintf("start=%d", start),
		Err: fmt.Errorf("%s summary truncated after %d pages", report, h.maxPages),
	}), nil
}

// AllSkaterStats returns the regular-season skater summary for every skater.
func (h *Handler) AllSkaterStats(ctx context.Context, season string) provider.Batch[provider.SkaterSeasonStats] {
	season, err := h.season(season)
	if err != nil {
		return provider.Unavailable[provider.SkaterSeasonStats](err)
	}

	var batch provider.Batch[provider.SkaterSeasonStats]
	failures, err := h.fetchReport(ctx, "skater", "points", season, func(r reportRow) {
		s, err := skaterFromRow(r, season)
		if err != nil {
			batch.Fail(r.text("skaterFullName"), err)
			return
		}
		batch.Add(s)
	})
	if err != nil {
		return provider.Unavailable[provider.SkaterSeasonStats](err)
	}
	batch.Failures = append(batch.Failures, failures...)
	h.logger.Info("fetched skater stats", "season", season, "count", len(batch.Items))
	return batch
}

func skaterFromRow(r reportRow, season string) (provider.SkaterSeasonStats, error) {
	s := provider.SkaterSeasonStats{
		PlayerID:         r.count("playerId"),
		PlayerName:       r.text("skaterFullName"),
		TeamAbbrev:       lastTeam(r.text("teamAbbrevs")),
		Position:         r.text("positionCode"),
		Season:           season,
		GamesPlayed:      r.count("gamesPlayed"),
		Goals:            r.count("goals"),
		Assists:          r.count("assists"),
		Points:           r.count("points"),
		PlusMinus:        r.count("plusMinus"),
		PIM:              r.count("penaltyMinutes"),
		PPGoals:          r.count("ppGoals"),
		PPPoints:         r.count("ppPoints"),
		SHGoals:          r.count("shGoals"),
		SHPoints:         r.count("shPoints"),
		GameWinningGoals: r.count("gameWinningGoals"),
		OTGoals:          r.count("otGoals"),
		Shots:            r.count("shots"),
		ShootingPct:      r.number("shootingPct"),
		TOIPerGame:       r.number("timeOnIcePerGame"),
		FaceoffPct:       r.number("faceoffWinPct"),
		Source:           config.SourceNHLAPI,
		Raw:              r.raw,
	}
	if s.PlayerID <= 0 {
		return s, &provider.RowParseError{Source: config.SourceNHLAPI, Key: s.PlayerName, Err: fmt.Errorf("missing playerId")}
	}
	return s, nil
}

// AllGoalieStats returns the regular-season goalie summary for every goalie.
func (h *Handler) AllGoalieStats(ctx context.Context, season string) provider.Batch[provider.GoalieSeasonStats] {
	season, err := h.season(season)
	if err != nil {
		return provider.Unavailable[provider.GoalieSeasonStats](err)
	}

	var batch provider.Batch[provider.GoalieSeasonStats]
	failures, err := h.fetchReport(ctx, "goalie", "wins", season, func(r reportRow) {
		g, err := goalieFromRow(r, season)
		if err != nil {
			batch.Fail(r.text("goalieFullName"), err)
			return
		}
		batch.Add(g)
	})
	if err != nil {
		return provider.Unavailable[provider.GoalieSeasonStats](err)
	}
	batch.Failures = append(batch.Failures, failures...)
	h.logger.Info("fetched goalie stats", "season", season, "count", len(batch.Items))
	return batch
}

func goalieFromRow(r reportRow, season string) (provider.GoalieSeasonStats, error) {
	g := provider.GoalieSeasonStats{
		PlayerID:     r.count("playerId"),
		PlayerName:   r.text("goalieFullName"),
		TeamAbbrev:   lastTeam(r.text("teamAbbrevs")),
		Season:       season,
		GamesPlayed:  r.count("gamesPlayed"),
		GamesStarted: r.count("gamesStarted"),
		Wins:         r.count("wins"),
		Losses:       r.count("losses"),
		OTLosses:     r.count("otLosses"),
		Shutouts:     r.count("shutouts"),
		ShotsAgainst: r.count("shotsAgainst"),
		GoalsAgainst: r.count("goalsAgainst"),
		Saves:        r.count("saves"),
		SavePct:      r.number("savePct"),
		GAA:          r.number("goalsAgainstAverage"),
		Goals:        r.count("goals"),
		Assists:      r.count("assists"),
		Points:       r.count("points"),
		PIM:          r.count("penaltyMinutes"),
		Source:       config.SourceNHLAPI,
		Raw:          r.raw,
	}
	if toi, ok := provider.ExtractValue(r.fields["timeOnIce"]); ok {
		secs := int(toi)
		g.TOISeconds = &secs
	}
	if g.PlayerID <= 0 {
		return g, &provider.RowParseError{Source: config.SourceNHLAPI, Key: g.PlayerName, Err: fmt.Errorf("missing playerId")}
	}
	return g, nil
}

// lastTeam picks the most recent club from a comma-separated list such as
// "TOR,MTL" reported for traded players.
func lastTeam(abbrevs string) string {
	parts := strings.Split(abbrevs, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
