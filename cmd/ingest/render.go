package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
	"github.com/albapepper/nhl-ingest/internal/seed"
)

// divisions in display order.
var divisions = []string{"Atlantic", "Metropolitan", "Central", "Pacific"}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func rightAlign(cols ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(cols))
	for _, n := range cols {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	return configs
}

func renderCounts(w io.Writer, counts map[string]int64) {
	t := newTable(w, "Database Stats")
	t.AppendHeader(table.Row{"Table", "Records"})
	for _, name := range config.Tables {
		t.AppendRow(table.Row{name, counts[name]})
	}
	t.SetColumnConfigs(rightAlign(2))
	t.Render()
}

func renderResult(w io.Writer, r seed.Result) {
	t := newTable(w, "")
	t.AppendHeader(table.Row{"Kind", "Upserted"})
	for _, row := range []struct {
		kind string
		n    int
	}{
		{config.TeamsTable, r.TeamsUpserted},
		{config.PlayersTable, r.PlayersUpserted},
		{config.PlayerStatsTable, r.PlayerStatsUpserted},
		{config.GamesTable, r.GamesUpserted},
		{config.RostersTable, r.RostersUpserted},
		{config.ContractsTable, r.ContractsUpserted},
		{config.AdvancedStatsTable, r.AdvancedStatsUpserted},
	} {
		if row.n > 0 {
			t.AppendRow(table.Row{row.kind, row.n})
		}
	}
	t.AppendFooter(table.Row{"errors", len(r.Errors)})
	t.SetColumnConfigs(rightAlign(2))
	t.Render()
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// byJersey sorts players by number, unnumbered last.
func byJersey(players []provider.RosterPlayer) []provider.RosterPlayer {
	out := append([]provider.RosterPlayer(nil), players...)
	number := func(p provider.RosterPlayer) int {
		if p.JerseyNumber == nil {
			return 100
		}
		return *p.JerseyNumber
	}
	sort.SliceStable(out, func(i, j int) bool { return number(out[i]) < number(out[j]) })
	return out
}

func renderRoster(w io.Writer, r provider.RosterSnapshot) {
	fmt.Fprintf(w, "\n%s Roster (%s)\nAs of %s\n\n", r.TeamAbbrev, r.Season, r.AsOf.Format("2006-01-02"))

	groups := []struct {
		title   string
		players []provider.RosterPlayer
		hand    string
	}{
		{"Forwards", r.Forwards, "Shoots"},
		{"Defensemen", r.Defensemen, "Shoots"},
		{"Goalies", r.Goalies, "Catches"},
	}
	for _, g := range groups {
		if len(g.players) == 0 {
			continue
		}
		t := newTable(w, g.title)
		t.AppendHeader(table.Row{"#", "Name", "Pos", g.hand, "Country"})
		for _, p := range byJersey(g.players) {
			t.AppendRow(table.Row{optInt(p.JerseyNumber), p.FullName(), p.Position, p.ShootsCatches, p.BirthCountry})
		}
		t.Render()
	}
}

type localized struct {
	Default string `json:"default"`
}

type seasonTotal struct {
	Season      int       `json:"season"`
	GameTypeID  int       `json:"gameTypeId"`
	League      string    `json:"leagueAbbrev"`
	TeamName    localized `json:"teamName"`
	GamesPlayed int       `json:"gamesPlayed"`
	Goals       int       `json:"goals"`
	Assists     int       `json:"assists"`
	Points      int       `json:"points"`
}

type careerTotals struct {
	RegularSeason *struct {
		GamesPlayed int `json:"gamesPlayed"`
		Goals       int `json:"goals"`
		Assists     int `json:"assists"`
		Points      int `json:"points"`
	} `json:"regularSeason"`
}

func formatHeight(inches *int) string {
	if inches == nil || *inches <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d'%d\"", *inches/12, *inches%12)
}

func renderPlayer(w io.Writer, d provider.PlayerDetail) {
	fmt.Fprintf(w, "\n%s\n#%s • %s • %s\n\n", d.FullName(), optInt(d.JerseyNumber), d.Position, d.CurrentTeamAbbrev)

	info := newTable(w, "")
	info.AppendRow(table.Row{"Birth Date", d.BirthDate})
	info.AppendRow(table.Row{"Birthplace", fmt.Sprintf("%s, %s", d.BirthCity, d.BirthCountry)})
	info.AppendRow(table.Row{"Height", formatHeight(d.HeightInches)})
	if d.WeightPounds != nil {
		info.AppendRow(table.Row{"Weight", fmt.Sprintf("%d lbs", *d.WeightPounds)})
	}
	info.AppendRow(table.Row{"Shoots/Catches", d.ShootsCatches})
	if d.DraftYear != nil {
		info.AppendRow(table.Row{"Draft", fmt.Sprintf("%d R%s, Pick %s (#%s overall) by %s",
			*d.DraftYear, optInt(d.DraftRound), optInt(d.DraftPick), optInt(d.DraftOverall), d.DraftTeam)})
	}
	var career careerTotals
	if len(d.CareerTotals) > 0 && json.Unmarshal(d.CareerTotals, &career) == nil && career.RegularSeason != nil {
		rs := career.RegularSeason
		info.AppendRow(table.Row{"Career", fmt.Sprintf("%d GP, %d G, %d A, %d P", rs.GamesPlayed, rs.Goals, rs.Assists, rs.Points)})
	}
	info.Render()

	if len(d.SeasonTotals) == 0 {
		return
	}
	t := newTable(w, "Recent Seasons")
	t.AppendHeader(table.Row{"Season", "League", "Team", "GP", "G", "A", "P"})
	for _, raw := range d.SeasonTotals {
		var s seasonTotal
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		t.AppendRow(table.Row{s.Season, s.League, s.TeamName.Default, s.GamesPlayed, s.Goals, s.Assists, s.Points})
	}
	t.SetColumnConfigs(rightAlign(4, 5, 6, 7))
	t.Render()
}

func formatDiff(diff int) string {
	if diff > 0 {
		return "+" + strconv.Itoa(diff)
	}
	return strconv.Itoa(diff)
}

func renderStandings(w io.Writer, standings []provider.Standing) {
	for _, division := range divisions {
		var teams []provider.Standing
		for _, s := range standings {
			if s.Division == division {
				teams = append(teams, s)
			}
		}
		if len(teams) == 0 {
			continue
		}
		sort.SliceStable(teams, func(i, j int) bool { return teams[i].Points > teams[j].Points })

		t := newTable(w, division+" Division")
		t.AppendHeader(table.Row{"Team", "GP", "W", "L", "OT", "PTS", "GF", "GA", "Diff"})
		for _, s := range teams {
			t.AppendRow(table.Row{
				s.TeamAbbrev, s.GamesPlayed, s.Wins, s.Losses, s.OTLosses,
				s.Points, s.GoalsFor, s.GoalsAgainst, formatDiff(s.GoalDiff()),
			})
		}
		t.SetColumnConfigs(rightAlign(2, 3, 4, 5, 6, 7, 8, 9))
		t.Render()
		fmt.Fprintln(w)
	}
}
