package provider

import (
	"encoding/json"
	"fmt"
	"time"
)

// Roster statuses.
const (
	RosterActive    = "active"
	RosterInjured   = "injured"
	RosterIR        = "IR"
	RosterLTIR      = "LTIR"
	RosterMinors    = "minors"
	RosterSuspended = "suspended"
)

// ValidRosterStatus reports whether status is a known roster status.
func ValidRosterStatus(status string) bool {
	switch status {
	case RosterActive, RosterInjured, RosterIR, RosterLTIR, RosterMinors, RosterSuspended:
		return true
	default:
		return false
	}
}

// RosterPlayer is one player on a team's current roster.
type RosterPlayer struct {
	PlayerID      int             `json:"player_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	JerseyNumber  *int            `json:"jersey_number,omitempty"`
	Position      string          `json:"position"`
	ShootsCatches string          `json:"shoots_catches,omitempty"`
	HeightInches  *int            `json:"height_inches,omitempty"`
	WeightPounds  *int            `json:"weight_pounds,omitempty"`
	BirthDate     string          `json:"birth_date,omitempty"`
	BirthCity     string          `json:"birth_city,omitempty"`
	BirthCountry  string          `json:"birth_country,omitempty"`
	Nationality   string          `json:"nationality,omitempty"`
	RosterStatus  string          `json:"roster_status"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

func (p RosterPlayer) FullName() string {
	return Player{FirstName: p.FirstName, LastName: p.LastName}.FullName()
}

func (p RosterPlayer) Validate() error {
	if p.PlayerID <= 0 {
		return fmt.Errorf("roster player: invalid id %d", p.PlayerID)
	}
	if !ValidPosition(p.Position) {
		return fmt.Errorf("roster player %d: unknown position %q", p.PlayerID, p.Position)
	}
	if !ValidRosterStatus(p.RosterStatus) {
		return fmt.Errorf("roster player %d: unknown roster status %q", p.PlayerID, p.RosterStatus)
	}
	if p.JerseyNumber != nil && (*p.JerseyNumber < 0 || *p.JerseyNumber > 99) {
		return fmt.Errorf("roster player %d: jersey number %d out of range", p.PlayerID, *p.JerseyNumber)
	}
	return nil
}

// RosterSnapshot is a team's roster at one point in time, grouped the way
// the league publishes it.
type RosterSnapshot struct {
	TeamAbbrev string         `json:"team_abbrev"`
	Season     string         `json:"season"`
	AsOf       time.Time      `json:"as_of"`
	Forwards   []RosterPlayer `json:"forwards"`
	Defensemen []RosterPlayer `json:"defensemen"`
	Goalies    []RosterPlayer `json:"goalies"`
}

// AllPlayers returns forwards, then defensemen, then goalies.
func (r RosterSnapshot) AllPlayers() []RosterPlayer {
	all := make([]RosterPlayer, 0, r.TotalPlayers())
	all = append(all, r.Forwards...)
	all = append(all, r.Defensemen...)
	return append(all, r.Goalies...)
}

func (r RosterSnapshot) TotalPlayers() int {
	return len(r.Forwards) + len(r.Defensemen) + len(r.Goalies)
}

func (r RosterSnapshot) PlayerByID(id int) (RosterPlayer, bool) {
	for _, p := range r.AllPlayers() {
		if p.PlayerID == id {
			return p, true
		}
	}
	return RosterPlayer{}, false
}

func (r RosterSnapshot) PlayerByNumber(number int) (RosterPlayer, bool) {
	for _, p := range r.AllPlayers() {
		if p.JerseyNumber != nil && *p.JerseyNumber == number {
			return p, true
		}
	}
	return RosterPlayer{}, false
}

// Assignments flattens the snapshot into persisted roster rows.
func (r RosterSnapshot) Assignments() []RosterAssignment {
	players := r.AllPlayers()
	out := make([]RosterAssignment, 0, len(players))
	for _, p := range players {
		out = append(out, RosterAssignment{
			PlayerID:     p.PlayerID,
			PlayerName:   p.FullName(),
			TeamAbbrev:   r.TeamAbbrev,
			Season:       r.Season,
			JerseyNumber: p.JerseyNumber,
			Position:     p.Position,
			RosterStatus: p.RosterStatus,
			Raw:          p.Raw,
		})
	}
	return out
}

// Players converts the snapshot into player profiles on this team.
func (r RosterSnapshot) Players(source string) []Player {
	players := r.AllPlayers()
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, Player{
			ID:           p.PlayerID,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Position:     p.Position,
			TeamAbbrev:   r.TeamAbbrev,
			BirthDate:    p.BirthDate,
			BirthCountry: p.BirthCountry,
			Source:       source,
			Raw:          p.Raw,
		})
	}
	return out
}

// RosterAssignment is the persisted roster row, keyed by
// (player id, team, season).
type RosterAssignment struct {
	PlayerID     int             `json:"player_id"`
	PlayerName   string          `json:"player_name"`
	TeamAbbrev   string          `json:"team_abbrev"`
	Season       string          `json:"season"`
	JerseyNumber *int            `json:"jersey_number,omitempty"`
	Position     string          `json:"position"`
	RosterStatus string          `json:"roster_status"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}

// PlayerDetail is the flattened player landing page.
type PlayerDetail struct {
	PlayerID           int               `json:"player_id"`
	FirstName          string            `json:"first_name"`
	LastName           string            `json:"last_name"`
	Position           string            `json:"position"`
	JerseyNumber       *int              `json:"jersey_number,omitempty"`
	ShootsCatches      string            `json:"shoots_catches,omitempty"`
	HeightInches       *int              `json:"height_inches,omitempty"`
	WeightPounds       *int              `json:"weight_pounds,omitempty"`
	BirthDate          string            `json:"birth_date,omitempty"`
	BirthCity          string            `json:"birth_city,omitempty"`
	BirthStateProvince string            `json:"birth_state_province,omitempty"`
	BirthCountry       string            `json:"birth_country,omitempty"`
	CurrentTeamAbbrev  string            `json:"current_team_abbrev,omitempty"`
	CurrentTeamID      *int              `json:"current_team_id,omitempty"`
	IsActive           bool              `json:"is_active"`
	InTop100AllTime    bool              `json:"in_top_100_all_time"`
	InHHOF             bool              `json:"in_hhof"`
	DraftYear          *int              `json:"draft_year,omitempty"`
	DraftRound         *int              `json:"draft_round,omitempty"`
	DraftPick          *int              `json:"draft_pick,omitempty"`
	DraftOverall       *int              `json:"draft_overall,omitempty"`
	DraftTeam          string            `json:"draft_team,omitempty"`
	CareerTotals       json.RawMessage   `json:"career_totals,omitempty"`
	SeasonTotals       []json.RawMessage `json:"season_totals,omitempty"`
	Awards             json.RawMessage   `json:"awards,omitempty"`
	Raw                json.RawMessage   `json:"raw,omitempty"`
}

func (d PlayerDetail) FullName() string {
	return Player{FirstName: d.FirstName, LastName: d.LastName}.FullName()
}

// Player converts the landing page into a player profile.
func (d PlayerDetail) Player(source string) Player {
	return Player{
		ID:           d.PlayerID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Position:     d.Position,
		TeamAbbrev:   d.CurrentTeamAbbrev,
		BirthDate:    d.BirthDate,
		BirthCountry: d.BirthCountry,
		DraftYear:    d.DraftYear,
		DraftRound:   d.DraftRound,
		DraftPick:    d.DraftPick,
		Source:       source,
		Raw:          d.Raw,
	}
}
