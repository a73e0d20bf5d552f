package provider

import (
	"encoding/json"
	"fmt"
)

// SituationAll is the all-situations aggregate every analytics file carries.
const SituationAll = "all"

// SkaterAdvanced holds one skater's analytics line for a season and
// game situation.
type SkaterAdvanced struct {
	PlayerID    int    `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TeamAbbrev  string `json:"team_abbrev"`
	Position    string `json:"position"`
	Season      string `json:"season"`
	Situation   string `json:"situation"`
	GamesPlayed int    `json:"games_played"`
	TOISeconds  int    `json:"toi_seconds"`

	// Shot attempts while on ice.
	CorsiFor       int      `json:"corsi_for"`
	CorsiAgainst   int      `json:"corsi_against"`
	CorsiPct       *float64 `json:"corsi_pct,omitempty"`
	CorsiRel       *float64 `json:"corsi_rel,omitempty"`
	FenwickFor     int      `json:"fenwick_for"`
	FenwickAgainst int      `json:"fenwick_against"`
	FenwickPct     *float64 `json:"fenwick_pct,omitempty"`

	XGFor              float64  `json:"xg_for"`
	XGAgainst          float64  `json:"xg_against"`
	XGPct              *float64 `json:"xg_pct,omitempty"`
	IndividualXG       float64  `json:"individual_xg"`
	GoalsAboveExpected *float64 `json:"goals_above_expected,omitempty"`

	ScoringChancesFor        int `json:"scoring_chances_for"`
	ScoringChancesAgainst    int `json:"scoring_chances_against"`
	HighDangerChancesFor     int `json:"high_danger_chances_for"`
	HighDangerChancesAgainst int `json:"high_danger_chances_against"`
	HighDangerGoalsFor       int `json:"high_danger_goals_for"`
	HighDangerGoalsAgainst   int `json:"high_danger_goals_against"`

	OffensiveZoneStarts   int      `json:"offensive_zone_starts"`
	DefensiveZoneStarts   int      `json:"defensive_zone_starts"`
	NeutralZoneStarts     int      `json:"neutral_zone_starts"`
	OffensiveZoneStartPct *float64 `json:"offensive_zone_start_pct,omitempty"`

	OnIceShootingPct *float64 `json:"on_ice_sh_pct,omitempty"`
	OnIceSavePct     *float64 `json:"on_ice_sv_pct,omitempty"`
	PDO              *float64 `json:"pdo,omitempty"`

	Shots              int `json:"shots"`
	Goals              int `json:"goals"`
	PrimaryAssists     int `json:"primary_assists"`
	SecondaryAssists   int `json:"secondary_assists"`
	IndividualCorsiFor int `json:"individual_corsi_for"`

	Source string          `json:"source"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

func (s SkaterAdvanced) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("skater advanced: invalid player id %d", s.PlayerID)
	}
	if s.Position != "" && !ValidPosition(s.Position) {
		return fmt.Errorf("skater advanced %d: unknown position %q", s.PlayerID, s.Position)
	}
	return nonNegative(fmt.Sprintf("skater advanced %d", s.PlayerID), map[string]int{
		"games_played":  s.GamesPlayed,
		"toi_seconds":   s.TOISeconds,
		"corsi_for":     s.CorsiFor,
		"corsi_against": s.CorsiAgainst,
		"shots":         s.Shots,
		"goals":         s.Goals,
	})
}

func (s SkaterAdvanced) TOIMinutes() float64 { return TOIMinutes(s.TOISeconds) }

func (s SkaterAdvanced) CorsiDiff() int { return s.CorsiFor - s.CorsiAgainst }

func (s SkaterAdvanced) FenwickDiff() int { return s.FenwickFor - s.FenwickAgainst }

func (s SkaterAdvanced) XGDiff() float64 { return s.XGFor - s.XGAgainst }

func (s SkaterAdvanced) Points() int { return s.Goals + s.PrimaryAssists + s.SecondaryAssists }

func (s SkaterAdvanced) CorsiForPer60() *float64 { return Per60(float64(s.CorsiFor), s.TOISeconds) }

func (s SkaterAdvanced) CorsiAgainstPer60() *float64 {
	return Per60(float64(s.CorsiAgainst), s.TOISeconds)
}

// AdvancedStat projects the skater line onto the persisted shape.
func (s SkaterAdvanced) AdvancedStat() AdvancedStat {
	return AdvancedStat{
		PlayerID:           s.PlayerID,
		PlayerName:         s.PlayerName,
		TeamAbbrev:         s.TeamAbbrev,
		Season:             s.Season,
		Position:           s.Position,
		Situation:          s.Situation,
		GamesPlayed:        s.GamesPlayed,
		TOISeconds:         s.TOISeconds,
		CorsiFor:           intRef(s.CorsiFor),
		CorsiAgainst:       intRef(s.CorsiAgainst),
		CorsiPct:           s.CorsiPct,
		CorsiRel:           s.CorsiRel,
		FenwickFor:         intRef(s.FenwickFor),
		FenwickAgainst:     intRef(s.FenwickAgainst),
		FenwickPct:         s.FenwickPct,
		XGFor:              floatRef(s.XGFor),
		XGAgainst:          floatRef(s.XGAgainst),
		XGPct:              s.XGPct,
		GoalsAboveExpected: s.GoalsAboveExpected,
		OZStartPct:         s.OffensiveZoneStartPct,
		HDChancesFor:       intRef(s.HighDangerChancesFor),
		HDChancesAgainst:   intRef(s.HighDangerChancesAgainst),
		Source:             s.Source,
		Raw:                s.Raw,
	}
}

// GoalieAdvanced holds one goalie's analytics line for a season and
// game situation.
type GoalieAdvanced struct {
	PlayerID    int    `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TeamAbbrev  string `json:"team_abbrev"`
	Season      string `json:"season"`
	Situation   string `json:"situation"`
	GamesPlayed int    `json:"games_played"`
	TOISeconds  int    `json:"toi_seconds"`

	ShotsAgainst int      `json:"shots_against"`
	GoalsAgainst int      `json:"goals_against"`
	Saves        int      `json:"saves"`
	SavePct      *float64 `json:"save_pct,omitempty"`

	XGAgainst               float64  `json:"xg_against"`
	GoalsSavedAboveExpected *float64 `json:"goals_saved_above_expected,omitempty"`

	LowDangerShots      int      `json:"low_danger_shots"`
	LowDangerGoals      int      `json:"low_danger_goals"`
	LowDangerSavePct    *float64 `json:"low_danger_save_pct,omitempty"`
	MediumDangerShots   int      `json:"medium_danger_shots"`
	MediumDangerGoals   int      `json:"medium_danger_goals"`
	MediumDangerSavePct *float64 `json:"medium_danger_save_pct,omitempty"`
	HighDangerShots     int      `json:"high_danger_shots"`
	HighDangerGoals     int      `json:"high_danger_goals"`
	HighDangerSavePct   *float64 `json:"high_danger_save_pct,omitempty"`

	ReboundsGiven       int      `json:"rebounds_given"`
	ReboundGoalsAgainst int      `json:"rebound_goals_against"`
	FreezePct           *float64 `json:"freeze_pct,omitempty"`

	Source string          `json:"source"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

func (g GoalieAdvanced) Validate() error {
	if g.PlayerID <= 0 {
		return fmt.Errorf("goalie advanced: invalid player id %d", g.PlayerID)
	}
	return nonNegative(fmt.Sprintf("goalie advanced %d", g.PlayerID), map[string]int{
		"games_played":  g.GamesPlayed,
		"toi_seconds":   g.TOISeconds,
		"shots_against": g.ShotsAgainst,
		"goals_against": g.GoalsAgainst,
	})
}

func (g GoalieAdvanced) TOIMinutes() float64 { return TOIMinutes(g.TOISeconds) }

// GoalsAgainstAverage is goals against per 60 minutes, nil without ice time.
func (g GoalieAdvanced) GoalsAgainstAverage() *float64 {
	return Per60(float64(g.GoalsAgainst), g.TOISeconds)
}

// GSAxPer60 is goals saved above expected per 60 minutes.
func (g GoalieAdvanced) GSAxPer60() *float64 {
	if g.GoalsSavedAboveExpected == nil {
		return nil
	}
	return Per60(*g.GoalsSavedAboveExpected, g.TOISeconds)
}

// AdvancedStat projects the goalie line onto the persisted shape. Skater-only
// columns stay null.
func (g GoalieAdvanced) AdvancedStat() AdvancedStat {
	return AdvancedStat{
		PlayerID:    g.PlayerID,
		PlayerName:  g.PlayerName,
		TeamAbbrev:  g.TeamAbbrev,
		Season:      g.Season,
		Position:    "G",
		Situation:   g.Situation,
		GamesPlayed: g.GamesPlayed,
		TOISeconds:  g.TOISeconds,
		XGAgainst:   floatRef(g.XGAgainst),
		Source:      g.Source,
		Raw:         g.Raw,
	}
}

// AdvancedStat is the persisted analytics row, keyed by
// (player id, season, situation).
type AdvancedStat struct {
	PlayerID           int             `json:"player_id"`
	PlayerName         string          `json:"player_name"`
	TeamAbbrev         string          `json:"team_abbrev"`
	Season             string          `json:"season"`
	Position           string          `json:"position"`
	Situation          string          `json:"situation"`
	GamesPlayed        int             `json:"games_played"`
	TOISeconds         int             `json:"toi_seconds"`
	CorsiFor           *int            `json:"corsi_for,omitempty"`
	CorsiAgainst       *int            `json:"corsi_against,omitempty"`
	CorsiPct           *float64        `json:"corsi_pct,omitempty"`
	CorsiRel           *float64        `json:"corsi_rel,omitempty"`
	FenwickFor         *int            `json:"fenwick_for,omitempty"`
	FenwickAgainst     *int            `json:"fenwick_against,omitempty"`
	FenwickPct         *float64        `json:"fenwick_pct,omitempty"`
	XGFor              *float64        `json:"xg_for,omitempty"`
	XGAgainst          *float64        `json:"xg_against,omitempty"`
	XGPct              *float64        `json:"xg_pct,omitempty"`
	GoalsAboveExpected *float64        `json:"goals_above_expected,omitempty"`
	OZStartPct         *float64        `json:"oz_start_pct,omitempty"`
	HDChancesFor       *int            `json:"hd_chances_for,omitempty"`
	HDChancesAgainst   *int            `json:"hd_chances_against,omitempty"`
	Source             string          `json:"source"`
	Raw                json.RawMessage `json:"raw,omitempty"`
}

// TOIMinutes converts ice time in seconds to minutes.
func TOIMinutes(toiSeconds int) float64 {
	if toiSeconds <= 0 {
		return 0
	}
	return float64(toiSeconds) / 60
}

// Per60 scales count to a per-60-minutes rate. Returns nil without ice time.
func Per60(count float64, toiSeconds int) *float64 {
	if toiSeconds <= 0 {
		return nil
	}
	v := count / float64(toiSeconds) * 3600
	return &v
}

func intRef(v int) *int { return &v }

func floatRef(v float64) *float64 { return &v }
