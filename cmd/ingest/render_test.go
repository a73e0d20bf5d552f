package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/nhl-ingest/internal/provider"
	"github.com/albapepper/nhl-ingest/internal/seed"
)

func jersey(n int) *int { return &n }

func TestRenderCountsListsEveryTable(t *testing.T) {
	var buf bytes.Buffer
	renderCounts(&buf, map[string]int64{"players": 812, "teams": 32})

	out := buf.String()
	assert.Contains(t, out, "Database Stats")
	assert.Contains(t, out, "812")
	assert.Contains(t, out, "advanced_stats")
	assert.Less(t, strings.Index(out, "players"), strings.Index(out, "teams"))
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, seed.Result{TeamsUpserted: 32, Errors: []string{"games: timeout"}})

	out := buf.String()
	assert.Contains(t, out, "teams")
	assert.NotContains(t, out, "contracts")
	assert.Contains(t, strings.ToLower(out), "errors")
}

func TestRenderRosterSortsByJersey(t *testing.T) {
	var buf bytes.Buffer
	renderRoster(&buf, provider.RosterSnapshot{
		TeamAbbrev: "TOR",
		Season:     "20242025",
		AsOf:       time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
		Forwards: []provider.RosterPlayer{
			{PlayerID: 1, FirstName: "Mitch", LastName: "Marner", JerseyNumber: jersey(16), Position: "R"},
			{PlayerID: 2, FirstName: "No", LastName: "Number", Position: "C"},
			{PlayerID: 3, FirstName: "Auston", LastName: "Matthews", JerseyNumber: jersey(34), Position: "C"},
		},
		Goalies: []provider.RosterPlayer{
			{PlayerID: 4, FirstName: "Joseph", LastName: "Woll", JerseyNumber: jersey(60), Position: "G", ShootsCatches: "L"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "TOR Roster (20242025)")
	assert.Contains(t, out, "As of 2024-11-05")
	assert.NotContains(t, out, "Defensemen")
	assert.Contains(t, out, "CATCHES")
	assert.Less(t, strings.Index(out, "Mitch Marner"), strings.Index(out, "Auston Matthews"))
	assert.Less(t, strings.Index(out, "Auston Matthews"), strings.Index(out, "No Number"))
}

func TestRenderPlayer(t *testing.T) {
	height, weight, year, round, pick, overall := 75, 194, 2015, 1, 1, 1
	var buf bytes.Buffer
	renderPlayer(&buf, provider.PlayerDetail{
		FirstName: "Connor", LastName: "McDavid", Position: "C", JerseyNumber: jersey(97),
		CurrentTeamAbbrev: "EDM", BirthCity: "Richmond Hill", BirthCountry: "CAN",
		HeightInches: &height, WeightPounds: &weight, ShootsCatches: "L",
		DraftYear: &year, DraftRound: &round, DraftPick: &pick, DraftOverall: &overall, DraftTeam: "EDM",
		CareerTotals: json.RawMessage(`{"regularSeason":{"gamesPlayed":645,"goals":335,"assists":647,"points":982}}`),
		SeasonTotals: []json.RawMessage{
			json.RawMessage(`{"season":20232024,"leagueAbbrev":"NHL","teamName":{"default":"Edmonton Oilers"},"gamesPlayed":76,"goals":32,"assists":100,"points":132}`),
			json.RawMessage(`not json`),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Connor McDavid")
	assert.Contains(t, out, "#97 • C • EDM")
	assert.Contains(t, out, `6'3"`)
	assert.Contains(t, out, "194 lbs")
	assert.Contains(t, out, "2015 R1, Pick 1 (#1 overall) by EDM")
	assert.Contains(t, out, "645 GP, 335 G, 647 A, 982 P")
	assert.Contains(t, out, "Edmonton Oilers")
	assert.Contains(t, out, "132")
}

func TestRenderStandingsGroupsByDivision(t *testing.T) {
	var buf bytes.Buffer
	renderStandings(&buf, []provider.Standing{
		{TeamAbbrev: "BOS", Division: "Atlantic", Points: 80, GoalsFor: 200, GoalsAgainst: 210},
		{TeamAbbrev: "FLA", Division: "Atlantic", Points: 95, GoalsFor: 240, GoalsAgainst: 190},
		{TeamAbbrev: "VGK", Division: "Pacific", Points: 90},
	})

	out := buf.String()
	assert.Contains(t, out, "Atlantic Division")
	assert.Contains(t, out, "Pacific Division")
	assert.NotContains(t, out, "Central Division")
	assert.Less(t, strings.Index(out, "FLA"), strings.Index(out, "BOS"))
	assert.Contains(t, out, "+50")
	assert.Contains(t, out, "-10")
}

func TestFormatHeight(t *testing.T) {
	assert.Equal(t, "N/A", formatHeight(nil))
	h := 73
	assert.Equal(t, `6'1"`, formatHeight(&h))
}
