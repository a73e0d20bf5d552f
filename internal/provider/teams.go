package provider

// TeamCodes is the roster sweep list: the 32 current franchises plus the
// historical codes in RelocatedTeams, so sweeps over older seasons still
// reach those rosters.
var TeamCodes = []string{
	"ANA", "ARI", "BOS", "BUF", "CAR", "CBJ", "CGY", "CHI",
	"COL", "DAL", "DET", "EDM", "FLA", "LAK", "MIN", "MTL",
	"NJD", "NSH", "NYI", "NYR", "OTT", "PHI", "PIT", "SEA",
	"SJS", "STL", "TBL", "TOR", "UTA", "VAN", "VGK", "WPG",
	"WSH",
}

// RelocatedTeams maps historical codes kept in TeamCodes to their successor.
var RelocatedTeams = map[string]string{
	"ARI": "UTA",
}

// ActiveTeamCodes returns TeamCodes without the historical codes.
func ActiveTeamCodes() []string {
	active := make([]string, 0, len(TeamCodes))
	for _, c := range TeamCodes {
		if _, relocated := RelocatedTeams[c]; !relocated {
			active = append(active, c)
		}
	}
	return active
}

// IsTeamCode reports whether code is in TeamCodes.
func IsTeamCode(code string) bool {
	for _, c := range TeamCodes {
		if c == code {
			return true
		}
	}
	return false
}
