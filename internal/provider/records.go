// Package provider defines the canonical hockey records every source
// normalizes into. These structs are the contract between the source
// extractors and the store: extractors output these, the store writes them
// to Postgres.
//
// Every record carries the name of the source that produced it and keeps the
// uninterpreted upstream payload in Raw.
package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Positions are the single-letter position codes used by every source.
var Positions = []string{"C", "L", "R", "D", "G"}

// ValidPosition reports whether code is a known position code.
func ValidPosition(code string) bool {
	for _, p := range Positions {
		if p == code {
			return true
		}
	}
	return false
}

// IsGoalie reports whether a position code denotes a goaltender.
func IsGoalie(position string) bool { return position == "G" }

// Team is the canonical team shape written to the teams table.
type Team struct {
	Abbrev     string          `json:"abbreviation"`
	Name       string          `json:"name"`
	Conference string          `json:"conference,omitempty"`
	Division   string          `json:"division,omitempty"`
	Source     string          `json:"source"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Abbrev) == "" {
		return fmt.Errorf("team: missing abbreviation")
	}
	return nil
}

// Player is the canonical player profile shape written to the players table.
type Player struct {
	ID           int             `json:"id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Position     string          `json:"position,omitempty"`
	TeamAbbrev   string          `json:"team_abbrev,omitempty"`
	BirthDate    string          `json:"birth_date,omitempty"` // "YYYY-MM-DD"
	BirthCountry string          `json:"birth_country,omitempty"`
	DraftYear    *int            `json:"draft_year,omitempty"`
	DraftRound   *int            `json:"draft_round,omitempty"`
	DraftPick    *int            `json:"draft_pick,omitempty"`
	Source       string          `json:"source"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player: invalid id %d", p.ID)
	}
	if p.Position != "" && !ValidPosition(p.Position) {
		return fmt.Errorf("player %d: unknown position %q", p.ID, p.Position)
	}
	return nil
}

// PlayerSeasonStats is the persisted per-season box score line, identified by
// (player id, season, source).
type PlayerSeasonStats struct {
	PlayerID    int             `json:"player_id"`
	PlayerName  string          `json:"player_name,omitempty"`
	Season      string          `json:"season"`
	Source      string          `json:"source"`
	TeamAbbrev  string          `json:"team_abbrev,omitempty"`
	GamesPlayed int             `json:"games_played"`
	Goals       int             `json:"goals"`
	Assists     int             `json:"assists"`
	Points      int             `json:"points"`
	PlusMinus   int             `json:"plus_minus"`
	PIM         int             `json:"pim"`
	Shots       int             `json:"shots"`
	TOISeconds  *int            `json:"toi_seconds,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

func (s PlayerSeasonStats) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("player stats: invalid player id %d", s.PlayerID)
	}
	if s.Season == "" {
		return fmt.Errorf("player stats %d: missing season", s.PlayerID)
	}
	return nonNegative(fmt.Sprintf("player stats %d", s.PlayerID), map[string]int{
		"games_played": s.GamesPlayed,
		"goals":        s.Goals,
		"assists":      s.Assists,
		"points":       s.Points,
		"pim":          s.PIM,
		"shots":        s.Shots,
	})
}

// SkaterSeasonStats is one row of the league skater summary report.
type SkaterSeasonStats struct {
	PlayerID         int             `json:"player_id"`
	PlayerName       string          `json:"player_name"`
	TeamAbbrev       string          `json:"team_abbrev,omitempty"`
	Position         string          `json:"position,omitempty"`
	Season           string          `json:"season"`
	GamesPlayed      int             `json:"games_played"`
	Goals            int             `json:"goals"`
	Assists          int             `json:"assists"`
	Points           int             `json:"points"`
	PlusMinus        int             `json:"plus_minus"`
	PIM              int             `json:"pim"`
	PPGoals          int             `json:"pp_goals"`
	PPPoints         int             `json:"pp_points"`
	SHGoals          int             `json:"sh_goals"`
	SHPoints         int             `json:"sh_points"`
	GameWinningGoals int             `json:"gwg"`
	OTGoals          int             `json:"ot_goals"`
	Shots            int             `json:"shots"`
	ShootingPct      *float64        `json:"shooting_pct,omitempty"`
	TOIPerGame       *float64        `json:"toi_per_game,omitempty"` // seconds
	FaceoffPct       *float64        `json:"faceoff_pct,omitempty"`
	Source           string          `json:"source"`
	Raw              json.RawMessage `json:"raw,omitempty"`
}

// SeasonStats projects the summary row onto the persisted shape. Total ice
// time is per-game ice time times games played.
func (s SkaterSeasonStats) SeasonStats() PlayerSeasonStats {
	out := PlayerSeasonStats{
		PlayerID:    s.PlayerID,
		PlayerName:  s.PlayerName,
		Season:      s.Season,
		Source:      s.Source,
		TeamAbbrev:  s.TeamAbbrev,
		GamesPlayed: s.GamesPlayed,
		Goals:       s.Goals,
		Assists:     s.Assists,
		Points:      s.Points,
		PlusMinus:   s.PlusMinus,
		PIM:         s.PIM,
		Shots:       s.Shots,
		Raw:         s.Raw,
	}
	if s.TOIPerGame != nil {
		toi := int(*s.TOIPerGame*float64(s.GamesPlayed) + 0.5)
		out.TOISeconds = &toi
	}
	return out
}

// GoalieSeasonStats is one row of the league goalie summary report.
type GoalieSeasonStats struct {
	PlayerID     int             `json:"player_id"`
	PlayerName   string          `json:"player_name"`
	TeamAbbrev   string          `json:"team_abbrev,omitempty"`
	Season       string          `json:"season"`
	GamesPlayed  int             `json:"games_played"`
	GamesStarted int             `json:"games_started"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	OTLosses     int             `json:"ot_losses"`
	Shutouts     int             `json:"shutouts"`
	ShotsAgainst int             `json:"shots_against"`
	GoalsAgainst int             `json:"goals_against"`
	Saves        int             `json:"saves"`
	SavePct      *float64        `json:"save_pct,omitempty"`
	GAA          *float64        `json:"gaa,omitempty"`
	TOISeconds   *int            `json:"toi_seconds,omitempty"`
	Goals        int             `json:"goals"`
	Assists      int             `json:"assists"`
	Points       int             `json:"points"`
	PIM          int             `json:"pim"`
	Source       string          `json:"source"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}

func (s GoalieSeasonStats) SeasonStats() PlayerSeasonStats {
	return PlayerSeasonStats{
		PlayerID:    s.PlayerID,
		PlayerName:  s.PlayerName,
		Season:      s.Season,
		Source:      s.Source,
		TeamAbbrev:  s.TeamAbbrev,
		GamesPlayed: s.GamesPlayed,
		Goals:       s.Goals,
		Assists:     s.Assists,
		Points:      s.Points,
		PIM:         s.PIM,
		TOISeconds:  s.TOISeconds,
		Raw:         s.Raw,
	}
}

// Game states after normalization.
const (
	GameScheduled = "scheduled"
	GameLive      = "live"
	GameFinal     = "final"
)

// NormalizeGameState maps the league's game state codes onto scheduled, live
// or final. Unknown codes are lowercased and passed through.
func NormalizeGameState(code string) string {
	switch strings.ToUpper(code) {
	case "FUT", "PRE":
		return GameScheduled
	case "LIVE", "CRIT":
		return GameLive
	case "FINAL", "OFF":
		return GameFinal
	default:
		return strings.ToLower(code)
	}
}

// Game is the canonical game shape written to the games table. Scores and
// state are the mutable fields; everything else is fixed once scheduled.
type Game struct {
	ID        int64           `json:"id"`
	Season    string          `json:"season"`
	Date      string          `json:"date"` // "YYYY-MM-DD"
	GameType  int             `json:"game_type"`
	HomeTeam  string          `json:"home_team"`
	AwayTeam  string          `json:"away_team"`
	HomeScore *int            `json:"home_score,omitempty"`
	AwayScore *int            `json:"away_score,omitempty"`
	State     string          `json:"state"`
	Source    string          `json:"source"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

func (g Game) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("game: invalid id %d", g.ID)
	}
	if g.HomeTeam == "" || g.AwayTeam == "" {
		return fmt.Errorf("game %d: missing team", g.ID)
	}
	if (g.HomeScore != nil && *g.HomeScore < 0) || (g.AwayScore != nil && *g.AwayScore < 0) {
		return fmt.Errorf("game %d: negative score", g.ID)
	}
	return nil
}

// Standing is one team's line in the league standings.
type Standing struct {
	TeamAbbrev   string `json:"team_abbrev"`
	TeamName     string `json:"team_name"`
	Conference   string `json:"conference,omitempty"`
	Division     string `json:"division,omitempty"`
	GamesPlayed  int    `json:"games_played"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	OTLosses     int    `json:"ot_losses"`
	Points       int    `json:"points"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

func (s Standing) GoalDiff() int { return s.GoalsFor - s.GoalsAgainst }

// PointsPct is points over the maximum available, or 0 before any game.
func (s Standing) PointsPct() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Points) / float64(2*s.GamesPlayed)
}

// Team returns the standing's team profile.
func (s Standing) Team(source string, raw json.RawMessage) Team {
	return Team{
		Abbrev:     s.TeamAbbrev,
		Name:       s.TeamName,
		Conference: s.Conference,
		Division:   s.Division,
		Source:     source,
		Raw:        raw,
	}
}

func nonNegative(what string, counts map[string]int) error {
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%s: negative %s (%d)", what, name, v)
		}
	}
	return nil
}
