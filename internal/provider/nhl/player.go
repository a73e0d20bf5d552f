package nhl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/albapepper/nhl-ingest/internal/provider"
)

// recentSeasons is how many season totals PlayerDetails keeps.
const recentSeasons = 5

type landingRaw struct {
	PlayerID           int               `json:"playerId"`
	FirstName          localized         `json:"firstName"`
	LastName           localized         `json:"lastName"`
	Position           string            `json:"position"`
	SweaterNumber      *int              `json:"sweaterNumber"`
	ShootsCatches      string            `json:"shootsCatches"`
	HeightInInches     *int              `json:"heightInInches"`
	WeightInPounds     *int              `json:"weightInPounds"`
	BirthDate          string            `json:"birthDate"`
	BirthCity          localized         `json:"birthCity"`
	BirthStateProvince localized         `json:"birthStateProvince"`
	BirthCountry       string            `json:"birthCountry"`
	CurrentTeamAbbrev  string            `json:"currentTeamAbbrev"`
	CurrentTeamID      *int              `json:"currentTeamId"`
	IsActive           flag              `json:"isActive"`
	InTop100AllTime    flag              `json:"inTop100AllTime"`
	InHHOF             flag              `json:"inHHOF"`
	DraftDetails       *draftRaw         `json:"draftDetails"`
	CareerTotals       json.RawMessage   `json:"careerTotals"`
	SeasonTotals       []json.RawMessage `json:"seasonTotals"`
	Awards             json.RawMessage   `json:"awards"`
}

type draftRaw struct {
	Year        *int   `json:"year"`
	Round       *int   `json:"round"`
	PickInRound *int   `json:"pickInRound"`
	OverallPick *int   `json:"overallPick"`
	TeamAbbrev  string `json:"teamAbbrev"`
}

// PlayerDetails fetches and flattens a player's landing page. Career totals
// and awards are kept verbatim; only the most recent season totals are kept.
func (h *Handler) PlayerDetails(ctx context.Context, playerID int) (provider.PlayerDetail, error) {
	resp, err := h.client.Get(ctx, fmt.Sprintf("/player/%d/landing", playerID), nil)
	if err != nil {
		return provider.PlayerDetail{}, fmt.Errorf("fetch player %d: %w", playerID, err)
	}
	d, err := parseLanding(resp.Body)
	if err != nil {
		return provider.PlayerDetail{}, fmt.Errorf("decode player %d: %w", playerID, err)
	}
	if d.PlayerID == 0 {
		d.PlayerID = playerID
	}
	return d, nil
}

func parseLanding(body []byte) (provider.PlayerDetail, error) {
	var r landingRaw
	if err := json.Unmarshal(body, &r); err != nil {
		return provider.PlayerDetail{}, err
	}

	d := provider.PlayerDetail{
		PlayerID:           r.PlayerID,
		FirstName:          r.FirstName.Default,
		LastName:           r.LastName.Default,
		Position:           r.Position,
		JerseyNumber:       r.SweaterNumber,
		ShootsCatches:      r.ShootsCatches,
		HeightInches:       r.HeightInInches,
		WeightPounds:       r.WeightInPounds,
		BirthDate:          r.BirthDate,
		BirthCity:          r.BirthCity.Default,
		BirthStateProvince: r.BirthStateProvince.Default,
		BirthCountry:       r.BirthCountry,
		CurrentTeamAbbrev:  r.CurrentTeamAbbrev,
		CurrentTeamID:      r.CurrentTeamID,
		IsActive:           bool(r.IsActive),
		InTop100AllTime:    bool(r.InTop100AllTime),
		InHHOF:             bool(r.InHHOF),
		CareerTotals:       r.CareerTotals,
		Awards:             r.Awards,
		Raw:                json.RawMessage(body),
	}
	if r.DraftDetails != nil {
		d.DraftYear = r.DraftDetails.Year
		d.DraftRound = r.DraftDetails.Round
		d.DraftPick = r.DraftDetails.PickInRound
		d.DraftOverall = r.DraftDetails.OverallPick
		d.DraftTeam = r.DraftDetails.TeamAbbrev
	}
	totals := r.SeasonTotals
	if len(totals) > recentSeasons {
		totals = totals[len(totals)-recentSeasons:]
	}
	d.SeasonTotals = totals
	return d, nil
}
