package seed

import (
	"fmt"
	"strings"
)

// Result tracks counts and errors from a seeding operation.
type Result struct {
	TeamsUpserted         int
	PlayersUpserted       int
	PlayerStatsUpserted   int
	GamesUpserted         int
	RostersUpserted       int
	ContractsUpserted     int
	AdvancedStatsUpserted int

	// Unavailable names the steps whose source could not be read; nothing
	// was written for them.
	Unavailable []string
	Errors      []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.TeamsUpserted += other.TeamsUpserted
	r.PlayersUpserted += other.PlayersUpserted
	r.PlayerStatsUpserted += other.PlayerStatsUpserted
	r.GamesUpserted += other.GamesUpserted
	r.RostersUpserted += other.RostersUpserted
	r.ContractsUpserted += other.ContractsUpserted
	r.AdvancedStatsUpserted += other.AdvancedStatsUpserted
	r.Unavailable = append(r.Unavailable, other.Unavailable...)
	r.Errors = append(r.Errors, other.Errors...)
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Failed reports whether any step was unavailable or recorded an error.
func (r *Result) Failed() bool {
	return len(r.Unavailable) > 0 || len(r.Errors) > 0
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	s := fmt.Sprintf(
		"teams=%d players=%d player_stats=%d games=%d rosters=%d contracts=%d advanced_stats=%d errors=%d",
		r.TeamsUpserted, r.PlayersUpserted, r.PlayerStatsUpserted, r.GamesUpserted,
		r.RostersUpserted, r.ContractsUpserted, r.AdvancedStatsUpserted,
		len(r.Errors),
	)
	if len(r.Unavailable) > 0 {
		s += " unavailable=" + strings.Join(r.Unavailable, ",")
	}
	return s
}
