package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// --------------------------------------------------------------------------
// Rosters
// --------------------------------------------------------------------------

type rosterResponse struct {
	Forwards   []json.RawMessage `json:"forwards"`
	Defensemen []json.RawMessage `json:"defensemen"`
	Goalies    []json.RawMessage `json:"goalies"`
}

type rosterPlayerRaw struct {
	ID             int       `json:"id"`
	FirstName      localized `json:"firstName"`
	LastName       localized `json:"lastName"`
	SweaterNumber  *int      `json:"sweaterNumber"`
	PositionCode   string    `json:"positionCode"`
	ShootsCatches  string    `json:"shootsCatches"`
	HeightInInches *int      `json:"heightInInches"`
	WeightInPounds *int      `json:"weightInPounds"`
	BirthDate      string    `json:"birthDate"`
	BirthCity      localized `json:"birthCity"`
	BirthCountry   string    `json:"birthCountry"`
	Nationality    string    `json:"nationality"`
}

func rosterPath(team, season string) string {
	if season == "" {
		return fmt.Sprintf("/roster/%s/current", team)
	}
	return fmt.Sprintf("/roster/%s/%s", team, season)
}

// Roster fetches one team's roster. An empty season means the current
// roster, which is labelled with the current season.
func (h *Handler) Roster(ctx context.Context, team, season string) (provider.RosterSnapshot, error) {
	path := rosterPath(team, "")
	label := provider.CurrentSeason(h.clock.Now())
	if season != "" {
		expanded, err := provider.ExpandSeason(season)
		if err != nil {
			return provider.RosterSnapshot{}, err
		}
		path, label = rosterPath(team, expanded), expanded
	}

	var resp rosterResponse
	if err := h.client.GetJSON(ctx, path, nil, &resp); err != nil {
		return provider.RosterSnapshot{}, fmt.Errorf("fetch roster %s: %w", team, err)
	}

	snap := provider.RosterSnapshot{
		TeamAbbrev: team,
		Season:     label,
		AsOf:       h.clock.Now().UTC().Truncate(time.Second),
	}
	snap.Forwards = h.rosterGroup(team, resp.Forwards)
	snap.Defensemen = h.rosterGroup(team, resp.Defensemen)
	snap.Goalies = h.rosterGroup(team, resp.Goalies)
	return snap, nil
}

func (h *Handler) rosterGroup(team string, raws []json.RawMessage) []provider.RosterPlayer {
	out := make([]provider.RosterPlayer, 0, len(raws))
	for _, raw := range raws {
		p, err := parseRosterPlayer(raw)
		if err != nil {
			h.logger.Warn("skipping roster entry", "team", team, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseRosterPlayer(raw json.RawMessage) (provider.RosterPlayer, error) {
	var r rosterPlayerRaw
	if err := json.Unmarshal(raw, &r); err != nil {
		return provider.RosterPlayer{}, err
	}
	p := provider.RosterPlayer{
		PlayerID:      r.ID,
		FirstName:     r.FirstName.Default,
		LastName:      r.LastName.Default,
		JerseyNumber:  r.SweaterNumber,
		Position:      r.PositionCode,
		ShootsCatches: r.ShootsCatches,
		HeightInches:  r.HeightInInches,
		WeightPounds:  r.WeightInPounds,
		BirthDate:     r.BirthDate,
		BirthCity:     r.BirthCity.Default,
		BirthCountry:  r.BirthCountry,
		Nationality:   r.Nationality,
		RosterStatus:  provider.RosterActive,
		Raw:           raw,
	}
	if err := p.Validate(); err != nil {
		return provider.RosterPlayer{}, err
	}
	return p, nil
}

// AllRosters sweeps every team sequentially. A team that fails is logged and
// recorded; the sweep continues with the next team.
func (h *Handler) AllRosters(ctx context.Context, season string) provider.Batch[provider.RosterSnapshot] {
	var batch provider.Batch[provider.RosterSnapshot]
	for _, team := range h.teams {
		if err := ctx.Err(); err != nil {
			batch.Err = err
			return batch
		}
		snap, err := h.Roster(ctx, team, season)
		if err != nil {
			h.logger.Warn("roster fetch failed", "team", team, "error", err)
			batch.Fail(team, err)
			continue
		}
		batch.Add(snap)
	}
	h.logger.Info("fetched rosters", "count", len(batch.Items), "failed", len(batch.Failures))
	return batch
}

// ListPlayers returns every rostered player, with the team set to the roster
// the player was listed on.
func (h *Handler) ListPlayers(ctx context.Context, season string) provider.Batch[provider.Player] {
	rosters := h.AllRosters(ctx, season)
	players := provider.Batch[provider.Player]{Failures: rosters.Failures, Err: rosters.Err}
	for _, snap := range rosters.Items {
		players.Add(snap.Players(config.SourceNHLAPI)...)
	}
	return players
}
