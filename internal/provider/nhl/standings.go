package nhl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// --------------------------------------------------------------------------
// Standings and teams
// --------------------------------------------------------------------------

type standingsResponse struct {
	Standings []json.RawMessage `json:"standings"`
}

type standingRaw struct {
	TeamAbbrev     localized `json:"teamAbbrev"`
	TeamName       localized `json:"teamName"`
	ConferenceName string    `json:"conferenceName"`
	DivisionName   string    `json:"divisionName"`
	GamesPlayed    int       `json:"gamesPlayed"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	OTLosses       int       `json:"otLosses"`
	Points         int       `json:"points"`
	GoalFor        int       `json:"goalFor"`
	GoalAgainst    int       `json:"goalAgainst"`
}

type standingRow struct {
	standing provider.Standing
	raw      json.RawMessage
}

func (h *Handler) fetchStandings(ctx context.Context) ([]standingRow, error) {
	var resp standingsResponse
	if err := h.client.GetJSON(ctx, "/standings/now", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch standings: %w", err)
	}

	rows := make([]standingRow, 0, len(resp.Standings))
	for _, raw := range resp.Standings {
		var s standingRaw
		if err := json.Unmarshal(raw, &s); err != nil {
			h.logger.Warn("skipping standings row", "error", err)
			continue
		}
		if s.TeamAbbrev.Default == "" {
			continue
		}
		rows = append(rows, standingRow{
			standing: provider.Standing{
				TeamAbbrev:   s.TeamAbbrev.Default,
				TeamName:     s.TeamName.Default,
				Conference:   s.ConferenceName,
				Division:     s.DivisionName,
				GamesPlayed:  s.GamesPlayed,
				Wins:         s.Wins,
				Losses:       s.Losses,
				OTLosses:     s.OTLosses,
				Points:       s.Points,
				GoalsFor:     s.GoalFor,
				GoalsAgainst: s.GoalAgainst,
			},
			raw: raw,
		})
	}
	return rows, nil
}

// Standings returns the current league standings in the API's order.
func (h *Handler) Standings(ctx context.Context) ([]provider.Standing, error) {
	rows, err := h.fetchStandings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]provider.Standing, len(rows))
	for i, r := range rows {
		out[i] = r.standing
	}
	return out, nil
}

// ListTeams returns every team in the current standings. One request, no
// pagination.
func (h *Handler) ListTeams(ctx context.Context) ([]provider.Team, error) {
	rows, err := h.fetchStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teams := make([]provider.Team, len(rows))
	for i, r := range rows {
		teams[i] = r.standing.Team(config.SourceNHLAPI, r.raw)
	}
	h.logger.Info("fetched teams", "count", len(teams))
	return teams, nil
}
