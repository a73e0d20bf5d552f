package moneypuck

import (
	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

func parseSkater(r row, season string) (provider.SkaterAdvanced, error) {
	if err := requireIdentity(r); err != nil {
		return provider.SkaterAdvanced{}, err
	}
	s := provider.SkaterAdvanced{
		PlayerID:    r.count("playerId"),
		PlayerName:  r.text("name"),
		TeamAbbrev:  r.text("team"),
		Position:    r.text("position"),
		Season:      season,
		Situation:   r.text("situation"),
		GamesPlayed: r.count("games_played"),
		TOISeconds:  r.count("icetime"),

		CorsiFor:       r.count("OnIce_F_shotAttempts"),
		CorsiAgainst:   r.count("OnIce_A_shotAttempts"),
		CorsiPct:       r.number("onIce_corsiPercentage"),
		CorsiRel:       r.number("offIce_corsiPercentage"),
		FenwickFor:     r.count("OnIce_F_unblockedShotAttempts"),
		FenwickAgainst: r.count("OnIce_A_unblockedShotAttempts"),
		FenwickPct:     r.number("onIce_fenwickPercentage"),

		XGFor:              r.numberOr("OnIce_F_xGoals", 0),
		XGAgainst:          r.numberOr("OnIce_A_xGoals", 0),
		XGPct:              r.number("onIce_xGoalsPercentage"),
		IndividualXG:       r.numberOr("I_F_xGoals", 0),
		GoalsAboveExpected: r.number("I_F_xGoals_with_rebounds_normalized_per_game"),

		ScoringChancesFor:        r.count("OnIce_F_scoringChances"),
		ScoringChancesAgainst:    r.count("OnIce_A_scoringChances"),
		HighDangerChancesFor:     r.count("OnIce_F_highDangerShotAttempts"),
		HighDangerChancesAgainst: r.count("OnIce_A_highDangerShotAttempts"),
		HighDangerGoalsFor:       r.count("OnIce_F_highDangerGoals"),
		HighDangerGoalsAgainst:   r.count("OnIce_A_highDangerGoals"),

		OffensiveZoneStarts:   r.count("I_F_oZoneShiftStarts"),
		DefensiveZoneStarts:   r.count("I_F_dZoneShiftStarts"),
		NeutralZoneStarts:     r.count("I_F_neutralZoneShiftStarts"),
		OffensiveZoneStartPct: r.number("offensiveZoneStartPct"),

		OnIceShootingPct: r.number("onIce_F_shootingPct"),
		OnIceSavePct:     r.number("onIce_A_savePct"),
		PDO:              r.number("PDO"),

		Shots:              r.count("I_F_shotsOnGoal"),
		Goals:              r.count("I_F_goals"),
		PrimaryAssists:     r.count("I_F_primaryAssists"),
		SecondaryAssists:   r.count("I_F_secondaryAssists"),
		IndividualCorsiFor: r.count("I_F_shotAttempts"),

		Source: config.SourceMoneyPuck,
		Raw:    r.raw(),
	}
	if err := s.Validate(); err != nil {
		return provider.SkaterAdvanced{}, err
	}
	return s, nil
}

func parseGoalie(r row, season string) (provider.GoalieAdvanced, error) {
	if err := requireIdentity(r); err != nil {
		return provider.GoalieAdvanced{}, err
	}
	shots := r.count("shotsOnGoal")
	goals := r.count("goals")

	g := provider.GoalieAdvanced{
		PlayerID:    r.count("playerId"),
		PlayerName:  r.text("name"),
		TeamAbbrev:  r.text("team"),
		Season:      season,
		Situation:   r.text("situation"),
		GamesPlayed: r.count("games_played"),
		TOISeconds:  r.count("icetime"),

		ShotsAgainst: shots,
		GoalsAgainst: goals,
		Saves:        shots - goals,
		SavePct:      r.number("onGoalSavePercentage"),

		XGAgainst:               r.numberOr("xGoals", 0),
		GoalsSavedAboveExpected: r.number("goalsAboveExpected"),

		LowDangerShots:      r.count("lowDangerShotsOnGoal"),
		LowDangerGoals:      r.count("lowDangerGoals"),
		LowDangerSavePct:    r.number("lowDangerSavePercentage"),
		MediumDangerShots:   r.count("mediumDangerShotsOnGoal"),
		MediumDangerGoals:   r.count("mediumDangerGoals"),
		MediumDangerSavePct: r.number("mediumDangerSavePercentage"),
		HighDangerShots:     r.count("highDangerShotsOnGoal"),
		HighDangerGoals:     r.count("highDangerGoals"),
		HighDangerSavePct:   r.number("highDangerSavePercentage"),

		ReboundsGiven:       r.count("reboundsCreated"),
		ReboundGoalsAgainst: r.count("reboundGoals"),
		FreezePct:           r.number("freezePct"),

		Source: config.SourceMoneyPuck,
		Raw:    r.raw(),
	}
	if err := g.Validate(); err != nil {
		return provider.GoalieAdvanced{}, err
	}
	return g, nil
}
